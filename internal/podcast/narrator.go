// Package podcast turns enriched articles into two-speaker narrated
// episodes: an LLM writes the dialogue, a TTS backend voices it, and
// ffmpeg post-processes the result.
package podcast

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
	"github.com/Giraffe0925/ai-trend-viewer/internal/gemini"
)

// DefaultSpeechModel is the TTS-capable Gemini model used for
// multi-speaker synthesis.
const DefaultSpeechModel = "models/gemini-2.5-flash-preview-tts"

// Prebuilt Gemini voices assigned to the two personas.
const (
	hostVoice  = "Aoede"
	guestVoice = "Charon"
)

// SpeechSynthesizer voices a full transcript in one call with a
// multi-speaker voice map.
type SpeechSynthesizer interface {
	GenerateSpeech(ctx context.Context, model, transcript, languageCode string, voices []gemini.SpeakerVoice) ([]byte, error)
}

// TurnSynthesizer voices the dialogue one utterance at a time.
type TurnSynthesizer interface {
	SynthesizeTurns(ctx context.Context, turns []Turn) ([]byte, error)
}

// AudioProcessor applies the ffmpeg post-processing passes.
type AudioProcessor interface {
	Process(ctx context.Context, in, out string, speed, volume float64) error
	MixBGM(ctx context.Context, narration, bgm, out string, bgmVolume float64) (bool, error)
}

// Narrator drives one article through script generation, synthesis,
// post-processing and file persistence.
type Narrator struct {
	Gen         TextGenerator
	Speech      SpeechSynthesizer
	Turns       TurnSynthesizer // used instead of Speech when set
	Proc        AudioProcessor
	AudioDir    string
	ScriptModel string
	SpeechModel string
	Speed       float64
	Volume      float64
	BGMPath     string
	BGMVolume   float64
	Logger      *log.Logger

	now func() time.Time
}

func (n *Narrator) timestamp() time.Time {
	if n.now != nil {
		return n.now()
	}
	return time.Now()
}

// AudioFileName derives the on-disk name for an article's episode. The id
// is URL-safe base64 so arXiv ids with slashes stay a single path segment,
// and the timestamp keeps regenerated episodes distinct.
func AudioFileName(id, ext string, ts time.Time) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(id))
	return fmt.Sprintf("podcast_%s_%d%s", encoded, ts.Unix(), ext)
}

// Narrate produces an episode for the article and returns the public
// audio path ("/audio/<file>"). A "" result with nil error means
// narration was skipped or aborted without harm: the article already has
// audio, or the script came back unusable.
func (n *Narrator) Narrate(ctx context.Context, a *article.Article) (string, error) {
	if a.HasAudio() {
		n.Logger.Debug("article already narrated, skipping", "id", a.ID)
		return "", nil
	}

	turns := GenerateScript(ctx, n.Gen, n.ScriptModel, a)
	if len(turns) == 0 {
		n.Logger.Warn("script generation produced no usable dialogue, aborting episode", "id", a.ID)
		return "", nil
	}
	n.Logger.Info("script generated", "id", a.ID, "turns", len(turns), "chars", TotalChars(turns))

	raw, err := n.synthesize(ctx, turns)
	if err != nil {
		return "", fmt.Errorf("synthesizing %s: %w", a.ID, err)
	}

	if err := os.MkdirAll(n.AudioDir, 0o755); err != nil {
		return "", fmt.Errorf("creating audio dir: %w", err)
	}

	ts := n.timestamp()
	rawPath := filepath.Join(n.AudioDir, AudioFileName(a.ID, ".wav", ts))
	if err := os.WriteFile(rawPath, raw, 0o644); err != nil {
		return "", fmt.Errorf("writing raw audio: %w", err)
	}

	final := n.postProcess(ctx, a.ID, rawPath, ts)
	return "/audio/" + filepath.Base(final), nil
}

func (n *Narrator) synthesize(ctx context.Context, turns []Turn) ([]byte, error) {
	if n.Turns != nil {
		return n.Turns.SynthesizeTurns(ctx, turns)
	}

	voices := []gemini.SpeakerVoice{
		gemini.NewSpeakerVoice(SpeakerHost, hostVoice),
		gemini.NewSpeakerVoice(SpeakerGuest, guestVoice),
	}
	model := n.SpeechModel
	if model == "" {
		model = DefaultSpeechModel
	}
	return n.Speech.GenerateSpeech(ctx, model, Transcript(turns), "ja-JP", voices)
}

// postProcess runs the speed/volume pass and the optional BGM mix. Each
// stage falls back to the previous artifact on failure, so an ffmpeg
// problem degrades quality instead of losing the episode.
func (n *Narrator) postProcess(ctx context.Context, id, rawPath string, ts time.Time) string {
	current := rawPath

	if n.Speed > 0 || n.Volume > 0 {
		processed := filepath.Join(n.AudioDir, AudioFileName(id, ".mp3", ts))
		if err := n.Proc.Process(ctx, current, processed, n.Speed, n.Volume); err != nil {
			n.Logger.Warn("audio post-processing failed, serving unprocessed audio", "id", id, "err", err)
		} else {
			os.Remove(current)
			current = processed
		}
	}

	if n.BGMPath != "" && n.BGMVolume > 0 {
		mixedPath := filepath.Join(n.AudioDir, AudioFileName(id+"#bgm", ".mp3", ts))
		mixed, err := n.Proc.MixBGM(ctx, current, n.BGMPath, mixedPath, n.BGMVolume)
		if err != nil {
			n.Logger.Warn("BGM mix failed, serving narration without music", "id", id, "err", err)
		} else if mixed {
			os.Remove(current)
			current = mixedPath
		}
	}

	return current
}
