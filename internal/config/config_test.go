package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.Cap() != 50 {
		t.Errorf("default cap = %d, want 50", cfg.Cap())
	}
	if len(cfg.EnabledArxiv()) == 0 {
		t.Error("expected at least one enabled arXiv source in defaults")
	}
	if len(cfg.CandidateModels()) != 4 {
		t.Errorf("expected 4 default candidate models, got %d", len(cfg.CandidateModels()))
	}
	if cfg.CandidateModels()[0] != "models/gemini-2.0-flash" {
		t.Errorf("unexpected first candidate model: %q", cfg.CandidateModels()[0])
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config, got nil")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected defaults written to %s: %v", path, err)
	}
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
retention_cap: 10
article_delay: 500ms
arxiv_sources:
  - category: cs.AI
    max_results: 2
    enabled: true
rss_sources:
  - name: Example
    url: https://example.com/feed.xml
    category: Science
    enabled: true
podcast:
  speed: 1.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cap() != 10 {
		t.Errorf("cap = %d, want 10", cfg.Cap())
	}
	if cfg.ArticleDelayDuration() != 500*time.Millisecond {
		t.Errorf("article delay = %v, want 500ms", cfg.ArticleDelayDuration())
	}
	if cfg.Podcast.Speed != 1.5 {
		t.Errorf("speed = %v, want 1.5", cfg.Podcast.Speed)
	}
}

func TestLoadRejectsBadRSSURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
rss_sources:
  - name: Bad
    url: ftp://example.com/feed
    enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for non-http feed URL")
	}
}

func TestValidateSpeedRange(t *testing.T) {
	tests := []struct {
		speed   float64
		wantErr bool
	}{
		{-0.5, true},
		{0, false},
		{1.25, false},
		{4, false},
		{4.5, true},
	}
	for _, tt := range tests {
		cfg := &Config{Podcast: PodcastConfig{Speed: tt.speed}}
		err := validate(cfg)
		if tt.wantErr && err == nil {
			t.Errorf("speed %v: expected validation error", tt.speed)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("speed %v: unexpected error %v", tt.speed, err)
		}
	}
}

func TestCapDefault(t *testing.T) {
	cfg := &Config{}
	if cfg.Cap() != 50 {
		t.Errorf("cap = %d, want 50", cfg.Cap())
	}
	cfg.RetentionCap = 25
	if cfg.Cap() != 25 {
		t.Errorf("cap = %d, want 25", cfg.Cap())
	}
}

func TestTurnDelayClamped(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{0, 300 * time.Millisecond},
		{100, 300 * time.Millisecond},
		{150, 150 * time.Millisecond},
		{400, 400 * time.Millisecond},
		{900, 500 * time.Millisecond},
	}
	for _, tt := range tests {
		cfg := &Config{Podcast: PodcastConfig{TurnDelayMS: tt.ms}}
		if got := cfg.TurnDelay(); got != tt.want {
			t.Errorf("TurnDelay(%d) = %v, want %v", tt.ms, got, tt.want)
		}
	}
}

func TestTwitterConfigured(t *testing.T) {
	tw := TwitterConfig{}
	if tw.Configured() {
		t.Error("empty credentials should not report configured")
	}
	tw = TwitterConfig{APIKey: "k", APISecret: "s", AccessToken: "t", AccessSecret: "ts"}
	if !tw.Configured() {
		t.Error("complete credentials should report configured")
	}
}
