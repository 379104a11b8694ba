// Package gemini is a minimal REST client for the Generative Language API.
// Clients are constructed explicitly and passed into the pipeline so tests
// can substitute fakes.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// NewClientWithBase is used by tests to point at a fake endpoint.
func NewClientWithBase(apiKey, base string) *Client {
	c := NewClient(apiKey)
	c.baseURL = base
	return c
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType   string        `json:"responseMimeType,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	LanguageCode           string                  `json:"languageCode,omitempty"`
	MultiSpeakerVoiceConfg *multiSpeakerVoiceConfg `json:"multiSpeakerVoiceConfig,omitempty"`
}

type multiSpeakerVoiceConfg struct {
	SpeakerVoiceConfigs []SpeakerVoice `json:"speakerVoiceConfigs"`
}

// SpeakerVoice assigns a prebuilt voice to one dialogue speaker name.
type SpeakerVoice struct {
	Speaker     string `json:"speaker"`
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

// NewSpeakerVoice builds a speaker-to-voice assignment.
func NewSpeakerVoice(speaker, voiceName string) SpeakerVoice {
	var sv SpeakerVoice
	sv.Speaker = speaker
	sv.VoiceConfig.PrebuiltVoiceConfig.VoiceName = voiceName
	return sv
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MIMEType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateText sends one prompt to the given model and returns the raw
// response text. When jsonMode is set the response-format hint asks for
// application/json; the model may still wrap output in prose or fences, so
// callers are expected to extract-then-validate.
func (c *Client) GenerateText(ctx context.Context, model, prompt string, jsonMode bool) (string, error) {
	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if jsonMode {
		req.GenerationConfig = &generationConfig{ResponseMIMEType: "application/json"}
	}

	var resp generateResponse
	if err := c.post(ctx, model, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty gemini response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateSpeech sends a dialogue transcript to a TTS-capable model with a
// multi-speaker voice map and returns the decoded audio payload.
func (c *Client) GenerateSpeech(ctx context.Context, model, transcript, languageCode string, voices []SpeakerVoice) ([]byte, error) {
	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: transcript}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				LanguageCode:           languageCode,
				MultiSpeakerVoiceConfg: &multiSpeakerVoiceConfg{SpeakerVoiceConfigs: voices},
			},
		},
	}

	var resp generateResponse
	if err := c.post(ctx, model, req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty gemini response")
	}
	inline := resp.Candidates[0].Content.Parts[0].InlineData
	if inline == nil || inline.Data == "" {
		return nil, fmt.Errorf("no audio content in gemini response")
	}

	audio, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding audio payload: %w", err)
	}
	return audio, nil
}

// normalizeModel accepts model ids with or without the API's "models/"
// resource prefix.
func normalizeModel(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

func (c *Client) post(ctx context.Context, model string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, normalizeModel(model), c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gemini API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("gemini API %d: %s", resp.StatusCode, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
