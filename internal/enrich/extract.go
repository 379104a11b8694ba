package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON means no JSON object could be located in the model output.
var ErrNoJSON = errors.New("no JSON object found in model output")

// ErrSchema means JSON was found but did not match the expected key schema.
var ErrSchema = errors.New("model output did not match enrichment schema")

// payload is the key schema the enrichment prompt requests.
type payload struct {
	TitleJa           string   `json:"titleJa"`
	SummaryJa         string   `json:"summaryJa"`
	ExplanationJa     string   `json:"explanationJa"`
	TranslationJa     string   `json:"translationJa"`
	InsightJa         string   `json:"insightJa"`
	RecommendedBooks  []string `json:"recommendedBooks"`
	Tags              []string `json:"tags"`
	VisualSuggestions []string `json:"visualSuggestions"`
}

// extractPayload locates a JSON object in raw model output and decodes it
// against the enrichment schema. Models sometimes wrap the object in
// Markdown code fences or prose despite instructions, so the text is
// stripped down to its first balanced {...} span before decoding.
func extractPayload(text string) (*payload, error) {
	raw, err := extractObject(text)
	if err != nil {
		return nil, err
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	// An object carrying none of the expected keys is a schema mismatch,
	// not a success with all defaults.
	if p.TitleJa == "" && p.SummaryJa == "" && p.TranslationJa == "" && len(p.Tags) == 0 {
		return nil, fmt.Errorf("%w: no expected keys present", ErrSchema)
	}
	return &p, nil
}

// extractObject strips code fences and returns the first balanced JSON
// object substring.
func extractObject(text string) (string, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start < 0 {
		return "", ErrNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSON
}
