package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
)

type fakeGen struct {
	responses map[string]string // model -> raw output
	errs      map[string]error
	calls     []string
}

func (f *fakeGen) GenerateText(ctx context.Context, model, prompt string, jsonMode bool) (string, error) {
	f.calls = append(f.calls, model)
	if err, ok := f.errs[model]; ok {
		return "", err
	}
	return f.responses[model], nil
}

func quiet() *log.Logger {
	return log.New(io.Discard)
}

const goodPayload = `{
	"titleJa": "深層学習の新手法",
	"summaryJa": "本研究では新しい手法を提案します。",
	"explanationJa": "AIを賢くする研究です。",
	"translationJa": "全文訳です。",
	"insightJa": "ビジネスに役立ちます。",
	"recommendedBooks": ["深層学習 入門"],
	"tags": ["deep-learning", "AI"],
	"visualSuggestions": ["ネットワーク構造の図"]
}`

func TestEnrichMergesPayload(t *testing.T) {
	gen := &fakeGen{responses: map[string]string{"m1": goodPayload}}
	e := New(gen, []string{"m1"}, quiet())

	in := article.Article{ID: "A", Title: "Deep Learning", Summary: "orig", OriginalContent: "abstract"}
	got := e.Enrich(context.Background(), in)

	if got.TitleJa != "深層学習の新手法" {
		t.Errorf("titleJa = %q", got.TitleJa)
	}
	if got.TranslationJa != "全文訳です。" {
		t.Errorf("translationJa = %q", got.TranslationJa)
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags = %v", got.Tags)
	}
	// Input untouched fields survive.
	if got.ID != "A" || got.Title != "Deep Learning" {
		t.Errorf("original fields altered: %+v", got)
	}
}

func TestEnrichStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + goodPayload + "\n```"
	gen := &fakeGen{responses: map[string]string{"m1": fenced}}
	e := New(gen, []string{"m1"}, quiet())

	got := e.Enrich(context.Background(), article.Article{ID: "A", Title: "T"})
	if got.TitleJa != "深層学習の新手法" {
		t.Errorf("fenced payload not parsed: titleJa = %q", got.TitleJa)
	}
}

func TestEnrichFallsThroughToNextModel(t *testing.T) {
	gen := &fakeGen{
		errs:      map[string]error{"m1": errors.New("quota exceeded")},
		responses: map[string]string{"m2": "not json at all", "m3": goodPayload},
	}
	e := New(gen, []string{"m1", "m2", "m3"}, quiet())

	got := e.Enrich(context.Background(), article.Article{ID: "A", Title: "T"})
	if got.TitleJa != "深層学習の新手法" {
		t.Errorf("expected third model to succeed, got titleJa = %q", got.TitleJa)
	}
	if want := []string{"m1", "m2", "m3"}; !reflect.DeepEqual(gen.calls, want) {
		t.Errorf("call order = %v, want %v", gen.calls, want)
	}
}

func TestEnrichAllModelsFailReturnsInputUnchanged(t *testing.T) {
	gen := &fakeGen{errs: map[string]error{
		"m1": errors.New("boom"),
		"m2": errors.New("boom"),
	}}
	e := New(gen, []string{"m1", "m2"}, quiet())

	in := article.Article{ID: "A", Title: "T", Summary: "S", Tags: []string{"keep"}}
	got := e.Enrich(context.Background(), in)

	if !reflect.DeepEqual(got, in) {
		t.Errorf("article altered despite total failure:\n got %+v\nwant %+v", got, in)
	}
}

func TestEnrichMissingKeysDefaultToOriginal(t *testing.T) {
	partial := `{"titleJa": "タイトル"}`
	gen := &fakeGen{responses: map[string]string{"m1": partial}}
	e := New(gen, []string{"m1"}, quiet())

	in := article.Article{ID: "A", Title: "T", Summary: "original summary"}
	got := e.Enrich(context.Background(), in)

	if got.SummaryJa != "original summary" {
		t.Errorf("summaryJa = %q, want original summary fallback", got.SummaryJa)
	}
	if got.ExplanationJa != fallbackExplanation {
		t.Errorf("explanationJa = %q, want fixed fallback", got.ExplanationJa)
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		err   error
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, nil},
		{"prose wrapper", `Here you go: {"a":1} hope that helps`, `{"a":1}`, nil},
		{"nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`, nil},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`, nil},
		{"no json", `nothing here`, "", ErrNoJSON},
		{"unbalanced", `{"a":1`, "", ErrNoJSON},
	}
	for _, tt := range tests {
		got, err := extractObject(tt.input)
		if !errors.Is(err, tt.err) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestExtractPayloadSchemaMismatch(t *testing.T) {
	_, err := extractPayload(`{"completely": "unrelated"}`)
	if !errors.Is(err, ErrSchema) {
		t.Errorf("expected ErrSchema, got %v", err)
	}

	_, err = extractPayload(`{"titleJa": 42}`)
	if !errors.Is(err, ErrSchema) {
		t.Errorf("expected ErrSchema for wrong value type, got %v", err)
	}
}

func TestExtractPayloadDistinguishesErrors(t *testing.T) {
	_, noJSON := extractPayload("plain text")
	_, schema := extractPayload(`{"x": true}`)

	if !errors.Is(noJSON, ErrNoJSON) || errors.Is(noJSON, ErrSchema) {
		t.Errorf("no-JSON case misclassified: %v", noJSON)
	}
	if !errors.Is(schema, ErrSchema) || errors.Is(schema, ErrNoJSON) {
		t.Errorf("schema case misclassified: %v", schema)
	}
}

func ExampleEnricher_Enrich() {
	gen := &fakeGen{responses: map[string]string{"m": `{"titleJa":"翻訳","summaryJa":"要約"}`}}
	e := New(gen, []string{"m"}, quiet())
	out := e.Enrich(context.Background(), article.Article{Title: "Paper"})
	fmt.Println(out.TitleJa)
	// Output: 翻訳
}
