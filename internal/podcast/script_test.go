package podcast

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
)

type fakeGen struct {
	output string
	err    error
	prompt string
}

func (f *fakeGen) GenerateText(_ context.Context, _, prompt string, _ bool) (string, error) {
	f.prompt = prompt
	return f.output, f.err
}

func TestParseTurns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "plain array",
			input: `[{"speaker":"ホスト","text":"こんにちは"},{"speaker":"ゲスト","text":"どうも"}]`,
			want:  2,
		},
		{
			name:  "fenced array",
			input: "```json\n[{\"speaker\":\"ホスト\",\"text\":\"やあ\"}]\n```",
			want:  1,
		},
		{
			name:  "prose around array",
			input: `こちらが台本です: [{"speaker":"ホスト","text":"話します"}] 以上です`,
			want:  1,
		},
		{
			name:  "blank turns dropped",
			input: `[{"speaker":"ホスト","text":"残る"},{"speaker":"ゲスト","text":"  "},{"speaker":"ホスト","text":""}]`,
			want:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turns, err := parseTurns(tt.input)
			if err != nil {
				t.Fatalf("parseTurns: %v", err)
			}
			if len(turns) != tt.want {
				t.Errorf("got %d turns, want %d: %v", len(turns), tt.want, turns)
			}
		})
	}
}

func TestParseTurnsNoArray(t *testing.T) {
	if _, err := parseTurns("申し訳ありませんが、台本を生成できませんでした。"); err == nil {
		t.Error("expected error when output has no JSON array")
	}
	if _, err := parseTurns(`{"speaker":"ホスト"}`); err == nil {
		t.Error("expected error for bare object")
	}
}

func TestGenerateScriptIncludesArticleContent(t *testing.T) {
	gen := &fakeGen{output: `[{"speaker":"ホスト","text":"開始"}]`}
	a := &article.Article{
		Title:         "Original Title",
		TitleJa:       "日本語タイトル",
		SummaryJa:     "要約文",
		TranslationJa: "詳細な解説",
	}

	turns := GenerateScript(context.Background(), gen, "models/test", a)
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(turns))
	}

	for _, want := range []string{"日本語タイトル", "要約文", "詳細な解説"} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateScriptFailureYieldsNil(t *testing.T) {
	gen := &fakeGen{err: fmt.Errorf("quota exceeded")}
	a := &article.Article{Title: "t"}
	if turns := GenerateScript(context.Background(), gen, "m", a); turns != nil {
		t.Errorf("expected nil on generation error, got %v", turns)
	}

	gen = &fakeGen{output: "no array here"}
	if turns := GenerateScript(context.Background(), gen, "m", a); turns != nil {
		t.Errorf("expected nil on unparsable output, got %v", turns)
	}
}

func TestTranscript(t *testing.T) {
	turns := []Turn{
		{Speaker: SpeakerHost, Text: "こんにちは"},
		{Speaker: SpeakerGuest, Text: "どうも"},
	}
	got := Transcript(turns)
	want := "ホスト: こんにちは\n\nゲスト: どうも"
	if got != want {
		t.Errorf("Transcript = %q, want %q", got, want)
	}
}

func TestTotalChars(t *testing.T) {
	turns := []Turn{
		{Speaker: SpeakerHost, Text: "あいう"},
		{Speaker: SpeakerGuest, Text: "abc"},
	}
	if got := TotalChars(turns); got != 6 {
		t.Errorf("TotalChars = %d, want 6 (rune count)", got)
	}
}
