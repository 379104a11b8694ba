// Package audiofx post-processes narration audio by shelling out to the
// ffmpeg binary, the same way the original toolchain drove it.
package audiofx

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// atempo accepts ratios in [0.5, 2.0] per application; larger changes are
// reached by chaining passes.
const (
	atempoMin = 0.5
	atempoMax = 2.0
)

// Processor runs ffmpeg filter graphs over audio files.
type Processor struct {
	FFmpegPath string
	logger     *log.Logger
}

func NewProcessor(logger *log.Logger) *Processor {
	return &Processor{FFmpegPath: "ffmpeg", logger: logger}
}

// SpeedChain splits a tempo multiplier into per-pass ratios that each fit
// the atempo filter's bounded range. The product of the returned passes
// equals m within floating rounding. m <= 0 yields no passes.
func SpeedChain(m float64) []float64 {
	if m <= 0 {
		return nil
	}

	var passes []float64
	for m > atempoMax {
		passes = append(passes, atempoMax)
		m /= atempoMax
	}
	for m < atempoMin {
		passes = append(passes, atempoMin)
		m /= atempoMin
	}
	passes = append(passes, m)
	return passes
}

func formatRatio(r float64) string {
	return strconv.FormatFloat(r, 'g', -1, 64)
}

// processArgs builds the ffmpeg argv for a speed+volume pass encoding to
// 192k MP3.
func processArgs(in, out string, speed, volume float64) []string {
	var filters []string
	for _, pass := range SpeedChain(speed) {
		filters = append(filters, "atempo="+formatRatio(pass))
	}
	if volume > 0 {
		filters = append(filters, "volume="+formatRatio(volume))
	}

	args := []string{"-y", "-i", in}
	if len(filters) > 0 {
		args = append(args, "-filter:a", strings.Join(filters, ","))
	}
	args = append(args, "-c:a", "libmp3lame", "-b:a", "192k", out)
	return args
}

// Process applies a speed multiplier and volume multiplier to the input
// audio, writing MP3 to out.
func (p *Processor) Process(ctx context.Context, in, out string, speed, volume float64) error {
	return p.run(ctx, processArgs(in, out, speed, volume))
}

// mixArgs builds the ffmpeg argv that loops bgm under the narration at the
// given relative volume, matched to the narration's duration.
func mixArgs(narration, bgm, out string, bgmVolume float64) []string {
	filter := fmt.Sprintf("[1:a]volume=%s[bgm];[0:a][bgm]amix=inputs=2:duration=first:dropout_transition=2[out]",
		formatRatio(bgmVolume))
	return []string{
		"-y",
		"-i", narration,
		"-stream_loop", "-1", "-i", bgm,
		"-filter_complex", filter,
		"-map", "[out]",
		"-c:a", "libmp3lame", "-b:a", "192k",
		out,
	}
}

// MixBGM loops the background-music asset under the narration at a low
// relative volume. A missing BGM file is not an error: mixing is skipped
// and the narration is left untouched.
func (p *Processor) MixBGM(ctx context.Context, narration, bgm, out string, bgmVolume float64) (mixed bool, err error) {
	if _, err := os.Stat(bgm); err != nil {
		p.logger.Warn("BGM file not found, skipping mix", "path", bgm)
		return false, nil
	}
	if err := p.run(ctx, mixArgs(narration, bgm, out, bgmVolume)); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Processor) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, p.FFmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		tail := string(out)
		if len(tail) > 512 {
			tail = tail[len(tail)-512:]
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, tail)
	}
	return nil
}
