package article

import (
	"testing"
	"time"
)

func TestParsedTime(t *testing.T) {
	tests := []struct {
		input string
		zero  bool
	}{
		{"2025-01-15T09:30:00Z", false},
		{"Mon, 02 Jan 2006 15:04:05 -0700", false},
		{"not a timestamp", true},
		{"", true},
	}
	for _, tt := range tests {
		a := Article{PublishedAt: tt.input}
		got := a.ParsedTime()
		if got.IsZero() != tt.zero {
			t.Errorf("ParsedTime(%q): zero = %v, want %v", tt.input, got.IsZero(), tt.zero)
		}
	}
}

func TestParsedTimeRFC3339Value(t *testing.T) {
	a := Article{PublishedAt: "2025-01-15T09:30:00Z"}
	want := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	if got := a.ParsedTime(); !got.Equal(want) {
		t.Errorf("ParsedTime = %v, want %v", got, want)
	}
}

func TestDisplayTitle(t *testing.T) {
	a := Article{Title: "Original", TitleJa: "翻訳済み"}
	if got := a.DisplayTitle(); got != "翻訳済み" {
		t.Errorf("DisplayTitle = %q, want translated title", got)
	}
	a.TitleJa = ""
	if got := a.DisplayTitle(); got != "Original" {
		t.Errorf("DisplayTitle = %q, want original title", got)
	}
}

func TestHasAudio(t *testing.T) {
	a := Article{}
	if a.HasAudio() {
		t.Error("article without audioUrl should not report audio")
	}
	a.AudioURL = "/audio/podcast_abc.mp3"
	if !a.HasAudio() {
		t.Error("article with audioUrl should report audio")
	}
}
