package browser

import (
	"testing"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
)

func TestOpenArticleRejectsNonWebURLs(t *testing.T) {
	tests := []string{
		"file:///etc/passwd",
		"javascript:alert(1)",
		"ftp://example.com",
		"",
	}
	for _, u := range tests {
		a := &article.Article{ID: "http://arxiv.org/abs/1", URL: u}
		if err := OpenArticle(a); err == nil {
			t.Errorf("OpenArticle with url %q: expected rejection, got nil", u)
		}
	}
}

func TestLaunchCommandPerPlatform(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"windows", "rundll32"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
	}
	for _, tt := range tests {
		cmd := launchCommand(tt.goos, "https://example.com")
		if cmd.Args[0] != tt.want {
			t.Errorf("launchCommand(%q) uses %q, want %q", tt.goos, cmd.Args[0], tt.want)
		}
		if cmd.Args[len(cmd.Args)-1] != "https://example.com" {
			t.Errorf("launchCommand(%q) must pass the URL last: %v", tt.goos, cmd.Args)
		}
	}
}
