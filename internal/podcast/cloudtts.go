package podcast

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const cloudTTSURL = "https://texttospeech.googleapis.com/v1/text:synthesize"

// voiceParams are the per-speaker Cloud TTS tone settings used in
// per-turn mode.
type voiceParams struct {
	Name         string
	Gender       string
	SpeakingRate float64
	Pitch        float64
}

var speakerVoices = map[string]voiceParams{
	SpeakerHost:  {Name: "ja-JP-Neural2-B", Gender: "FEMALE", SpeakingRate: 1.0, Pitch: 1.0},
	SpeakerGuest: {Name: "ja-JP-Neural2-C", Gender: "MALE", SpeakingRate: 0.95, Pitch: -1.0},
}

// CloudTTS synthesizes speech one utterance at a time against the Google
// Cloud text:synthesize endpoint.
type CloudTTS struct {
	apiKey  string
	baseURL string
	client  *http.Client
	delay   time.Duration
	logger  *log.Logger
}

func NewCloudTTS(apiKey string, delay time.Duration, logger *log.Logger) *CloudTTS {
	return &CloudTTS{
		apiKey:  apiKey,
		baseURL: cloudTTSURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		delay:   delay,
		logger:  logger,
	}
}

// NewCloudTTSWithBase is used by tests to point at a fake endpoint.
func NewCloudTTSWithBase(apiKey, base string, delay time.Duration, logger *log.Logger) *CloudTTS {
	c := NewCloudTTS(apiKey, delay, logger)
	c.baseURL = base
	return c
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
		Pitch         float64 `json:"pitch"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// SynthesizeTurns issues one request per utterance with that speaker's
// voice settings and concatenates the audio payloads in turn order. A
// failed turn is logged and omitted rather than aborting the episode;
// requests are spaced by the configured delay.
func (c *CloudTTS) SynthesizeTurns(ctx context.Context, turns []Turn) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("cloud TTS API key not set")
	}

	var combined bytes.Buffer
	for i, turn := range turns {
		if i > 0 && c.delay > 0 {
			select {
			case <-time.After(c.delay):
			case <-ctx.Done():
				return combined.Bytes(), ctx.Err()
			}
		}

		audio, err := c.synthesize(ctx, turn)
		if err != nil {
			c.logger.Warn("turn synthesis failed, omitting", "turn", i, "speaker", turn.Speaker, "err", err)
			continue
		}
		combined.Write(audio)
	}

	if combined.Len() == 0 {
		return nil, fmt.Errorf("no turns produced audio")
	}
	return combined.Bytes(), nil
}

func (c *CloudTTS) synthesize(ctx context.Context, turn Turn) ([]byte, error) {
	voice, ok := speakerVoices[turn.Speaker]
	if !ok {
		voice = speakerVoices[SpeakerGuest]
	}

	var req synthesizeRequest
	req.Input.Text = turn.Text
	req.Voice.LanguageCode = "ja-JP"
	req.Voice.Name = voice.Name
	req.Voice.SSMLGender = voice.Gender
	req.AudioConfig.AudioEncoding = "MP3"
	req.AudioConfig.SpeakingRate = voice.SpeakingRate
	req.AudioConfig.Pitch = voice.Pitch

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("TTS API %d: %s", resp.StatusCode, string(b))
	}

	var sr synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	if sr.AudioContent == "" {
		return nil, fmt.Errorf("no audio content received")
	}
	return base64.StdEncoding.DecodeString(sr.AudioContent)
}
