package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// ArxivSource selects one arXiv category query.
type ArxivSource struct {
	Category   string `yaml:"category"`
	MaxResults int    `yaml:"max_results"`
	Enabled    bool   `yaml:"enabled"`
}

// RSSSource selects one syndication feed.
type RSSSource struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Enabled  bool   `yaml:"enabled"`
}

// LLMConfig holds the Gemini settings, including the ordered candidate
// model fallback list.
type LLMConfig struct {
	APIKey          string   `yaml:"api_key"`
	CandidateModels []string `yaml:"candidate_models"`
}

// PodcastConfig holds narration and feed settings.
type PodcastConfig struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Author      string  `yaml:"author"`
	Email       string  `yaml:"email"`
	Language    string  `yaml:"language"`
	ITunesCat   string  `yaml:"itunes_category"`
	ITunesSub   string  `yaml:"itunes_subcategory"`
	Image       string  `yaml:"image"`
	Speed       float64 `yaml:"speed"`
	Volume      float64 `yaml:"volume"`
	BGMVolume   float64 `yaml:"bgm_volume"`
	PerTurn     bool    `yaml:"per_turn"`
	TurnDelayMS int     `yaml:"turn_delay_ms"`
}

// TwitterConfig holds the OAuth1 user-context credentials.
type TwitterConfig struct {
	APIKey       string `yaml:"api_key"`
	APISecret    string `yaml:"api_secret"`
	AccessToken  string `yaml:"access_token"`
	AccessSecret string `yaml:"access_secret"`
}

type Config struct {
	SiteURL       string        `yaml:"site_url"`
	DataFile      string        `yaml:"data_file"`
	AudioDir      string        `yaml:"audio_dir"`
	RetentionCap  int           `yaml:"retention_cap"`
	ArticleDelay  string        `yaml:"article_delay"`
	ArxivSources  []ArxivSource `yaml:"arxiv_sources"`
	RSSSources    []RSSSource   `yaml:"rss_sources"`
	LLM           LLMConfig     `yaml:"llm"`
	PexelsAPIKey  string        `yaml:"pexels_api_key"`
	CloudTTSKey   string        `yaml:"cloud_tts_api_key"`
	Podcast       PodcastConfig `yaml:"podcast"`
	Twitter       TwitterConfig `yaml:"twitter"`
	ListenAddr    string        `yaml:"listen_addr"`
	AnnounceToX   bool          `yaml:"announce_to_x"`
	NarrateOnCron bool          `yaml:"narrate_on_cron"`
}

// GeminiKey returns the resolved Gemini API key (config or env var).
func (c *Config) GeminiKey() string {
	if c.LLM.APIKey != "" {
		return c.LLM.APIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}

// PexelsKey returns the resolved Pexels API key (config or env var).
func (c *Config) PexelsKey() string {
	if c.PexelsAPIKey != "" {
		return c.PexelsAPIKey
	}
	return os.Getenv("PEXELS_API_KEY")
}

// TTSKey returns the resolved Google Cloud TTS API key (config or env var).
func (c *Config) TTSKey() string {
	if c.CloudTTSKey != "" {
		return c.CloudTTSKey
	}
	return os.Getenv("GOOGLE_CLOUD_TTS_API_KEY")
}

// TwitterCreds returns the resolved X credentials, falling back to the
// environment variable names the original deployment used.
func (c *Config) TwitterCreds() TwitterConfig {
	tw := c.Twitter
	if tw.APIKey == "" {
		tw.APIKey = os.Getenv("TWITTER_API_KEY")
	}
	if tw.APISecret == "" {
		tw.APISecret = os.Getenv("TWITTER_API_SECRET")
	}
	if tw.AccessToken == "" {
		tw.AccessToken = os.Getenv("TWITTER_ACCESS_TOKEN")
	}
	if tw.AccessSecret == "" {
		tw.AccessSecret = os.Getenv("TWITTER_ACCESS_SECRET")
	}
	return tw
}

// Configured reports whether the credential set is complete enough to post.
func (t TwitterConfig) Configured() bool {
	return t.APIKey != "" && t.APISecret != "" && t.AccessToken != "" && t.AccessSecret != ""
}

// Cap returns the store retention cap, defaulting to 50.
func (c *Config) Cap() int {
	if c.RetentionCap <= 0 {
		return 50
	}
	return c.RetentionCap
}

// ArticleDelayDuration returns the pause between per-article provider
// calls, defaulting to 1s.
func (c *Config) ArticleDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.ArticleDelay)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// TurnDelay returns the pause between per-turn TTS requests, clamped to
// the 150ms-500ms window the providers tolerate.
func (c *Config) TurnDelay() time.Duration {
	d := time.Duration(c.Podcast.TurnDelayMS) * time.Millisecond
	if d < 150*time.Millisecond {
		return 300 * time.Millisecond
	}
	if d > 500*time.Millisecond {
		return 500 * time.Millisecond
	}
	return d
}

// CandidateModels returns the ordered model fallback list, with the
// original deployment's defaults when unset.
func (c *Config) CandidateModels() []string {
	if len(c.LLM.CandidateModels) > 0 {
		return c.LLM.CandidateModels
	}
	return []string{
		"models/gemini-2.0-flash",
		"models/gemini-flash-latest",
		"models/gemini-pro-latest",
		"models/gemini-2.0-flash-lite",
	}
}

// EnabledArxiv returns arXiv sources that are switched on.
func (c *Config) EnabledArxiv() []ArxivSource {
	var out []ArxivSource
	for _, s := range c.ArxivSources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// EnabledRSS returns RSS sources that are switched on.
func (c *Config) EnabledRSS() []RSSSource {
	var out []RSSSource
	for _, s := range c.RSSSources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// DataFilePath resolves the posts.json location.
func (c *Config) DataFilePath() string {
	if c.DataFile != "" {
		return c.DataFile
	}
	return filepath.Join(xdg.DataHome, "ai-trend-viewer", "posts.json")
}

// AudioDirPath resolves the narrated-audio directory.
func (c *Config) AudioDirPath() string {
	if c.AudioDir != "" {
		return c.AudioDir
	}
	return filepath.Join(xdg.DataHome, "ai-trend-viewer", "audio")
}

// Addr returns the listen address for serve, defaulting to :8080.
func (c *Config) Addr() string {
	if c.ListenAddr == "" {
		return ":8080"
	}
	return c.ListenAddr
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "ai-trend-viewer", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config file, writing the embedded defaults on first run.
// A .env file in the working directory supplies API keys when present.
func Load(path string) (*Config, error) {
	godotenv.Load()

	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	for i, s := range cfg.ArxivSources {
		if s.Category == "" {
			return fmt.Errorf("arxiv source %d: category is required", i)
		}
	}
	for _, s := range cfg.RSSSources {
		if s.Name == "" {
			return fmt.Errorf("rss source %q: name is required", s.URL)
		}
		if s.URL == "" {
			return fmt.Errorf("rss source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("rss source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("rss source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
	}
	// Speed 0 disables the tempo pass entirely.
	if cfg.Podcast.Speed < 0 || cfg.Podcast.Speed > 4 {
		return fmt.Errorf("podcast speed %v out of range [0, 4]", cfg.Podcast.Speed)
	}
	return nil
}
