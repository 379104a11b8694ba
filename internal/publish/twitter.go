package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dghubble/oauth1"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
)

const tweetsURL = "https://api.twitter.com/2/tweets"

const tweetMaxRunes = 280

// categoryEmoji decorates announcements by article category.
var categoryEmoji = map[string]string{
	"AI":    "🤖",
	"Science": "🔬",
	"認知科学":  "🧠",
	"哲学":    "💭",
	"経済学":   "📈",
	"社会":    "🌏",
}

// TwitterClient posts article announcements through the X v2 API using
// OAuth1 user-context signing.
type TwitterClient struct {
	httpClient *http.Client
	baseURL    string
	siteURL    string
}

// NewTwitterClient builds a posting client from OAuth1 credentials. The
// signing transport comes from the oauth1 library; every request is
// signed with the user's access token.
func NewTwitterClient(apiKey, apiSecret, accessToken, accessSecret, siteURL string) *TwitterClient {
	cfg := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	return &TwitterClient{
		httpClient: cfg.Client(oauth1.NoContext, token),
		baseURL:    tweetsURL,
		siteURL:    strings.TrimRight(siteURL, "/"),
	}
}

// ComposeTweet renders the announcement text for one article: emoji,
// translated title, reader link and category hashtag, truncated to the
// post length limit with the link kept intact.
func (t *TwitterClient) ComposeTweet(a *article.Article) string {
	emoji := categoryEmoji[a.Category]
	if emoji == "" {
		emoji = "📰"
	}

	link := t.siteURL
	if link == "" {
		link = a.URL
	}

	hashtag := "#" + strings.ReplaceAll(a.Category, " ", "")
	if a.Category == "" {
		hashtag = "#テック"
	}

	title := a.DisplayTitle()
	suffix := "\n\n" + link + "\n" + hashtag + " #ひびちどく"

	// Trim the title, never the link or tags, when over the limit. A link
	// long enough to eat the whole budget drops the title entirely.
	budget := tweetMaxRunes - len([]rune(emoji+" "+suffix))
	runes := []rune(title)
	if budget < 2 {
		runes = nil
	} else if len(runes) > budget {
		runes = append(runes[:budget-1], '…')
	}

	return emoji + " " + string(runes) + suffix
}

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Post announces one article and returns the created post id.
func (t *TwitterClient) Post(ctx context.Context, a *article.Article) (string, error) {
	body, err := json.Marshal(tweetRequest{Text: t.ComposeTweet(a)})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting to X: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("X API %d: %s", resp.StatusCode, string(b))
	}

	var tr tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	return tr.Data.ID, nil
}
