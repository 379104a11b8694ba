// Package illustrate finds a representative cover photo for each article,
// with a deterministic placeholder when the search comes up empty.
package illustrate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const pexelsSearchURL = "https://api.pexels.com/v1/search"

// Client queries the Pexels photo search API.
type Client struct {
	apiKey    string
	baseURL   string
	client    *http.Client
	logger    *log.Logger
	turnDelay time.Duration
}

func NewClient(apiKey string, logger *log.Logger) *Client {
	return &Client{
		apiKey:    apiKey,
		baseURL:   pexelsSearchURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    logger,
		turnDelay: 500 * time.Millisecond,
	}
}

// NewClientWithBase is used by tests to point at a fake endpoint and
// shorten the inter-request delay.
func NewClientWithBase(apiKey, base string, delay time.Duration, logger *log.Logger) *Client {
	c := NewClient(apiKey, logger)
	c.baseURL = base
	c.turnDelay = delay
	return c
}

type pexelsResponse struct {
	Photos []struct {
		Src struct {
			Small  string `json:"small"`
			Medium string `json:"medium"`
			Large  string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// CoverImage searches for one landscape photo matching the article's first
// two tags (or its category). Any failure returns "" rather than an error;
// callers fall back to a placeholder.
func (c *Client) CoverImage(ctx context.Context, tags []string, category string) string {
	if c.apiKey == "" {
		c.logger.Warn("pexels API key not set, using fallback image")
		return ""
	}

	query := category
	if query == "" {
		query = "technology"
	}
	if len(tags) > 0 {
		terms := tags
		if len(terms) > 2 {
			terms = terms[:2]
		}
		query = strings.Join(terms, " ")
	}

	u := c.searchPhoto(ctx, query, "medium")
	return u
}

// VisualImages fetches one illustration per visual suggestion. The result
// always has the same length as the input; a miss leaves "" at that
// position. Requests are spaced by a fixed delay to respect rate limits.
func (c *Client) VisualImages(ctx context.Context, suggestions []string) []string {
	if c.apiKey == "" || len(suggestions) == 0 {
		return nil
	}

	images := make([]string, 0, len(suggestions))
	for i, suggestion := range suggestions {
		if i > 0 {
			select {
			case <-time.After(c.turnDelay):
			case <-ctx.Done():
				// Pad out so the parallel-list invariant holds.
				for len(images) < len(suggestions) {
					images = append(images, "")
				}
				return images
			}
		}
		images = append(images, c.searchPhoto(ctx, searchKeywords(suggestion), "large"))
	}
	return images
}

func (c *Client) searchPhoto(ctx context.Context, query, size string) string {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", "1")
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("pexels request failed", "query", query, "err", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("pexels API error", "query", query, "status", resp.StatusCode)
		return ""
	}

	var pr pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		c.logger.Warn("pexels response unparsable", "query", query, "err", err)
		return ""
	}
	if len(pr.Photos) == 0 {
		return ""
	}

	if size == "large" {
		return pr.Photos[0].Src.Large
	}
	return pr.Photos[0].Src.Medium
}

// searchKeywords maps a Japanese visual suggestion to an English search
// query; first matching term wins.
var keywordMap = []struct{ ja, en string }{
	{"地図", "map"},
	{"グラフ", "graph chart"},
	{"フローチャート", "flowchart"},
	{"構造", "structure"},
	{"ネットワーク", "network"},
	{"機械学習", "machine learning"},
	{"AI", "artificial intelligence"},
	{"脳", "brain neuroscience"},
	{"データ", "data analytics"},
	{"分析", "analysis"},
	{"比較", "comparison"},
	{"進化", "evolution"},
	{"変化", "change transformation"},
	{"モデル", "model"},
	{"プロセス", "process"},
	{"哲学", "philosophy thinking"},
	{"経済", "economy business"},
	{"社会", "society people"},
	{"環境", "environment nature"},
	{"技術", "technology"},
	{"図", "diagram"},
}

func searchKeywords(suggestion string) string {
	for _, kw := range keywordMap {
		if strings.Contains(suggestion, kw.ja) {
			return kw.en
		}
	}
	return "abstract concept"
}
