// Package browser launches a stored article's source page in the system
// web browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
)

// launchCommand picks the platform's URL opener. rundll32 on Windows
// avoids the shell interpretation `cmd /c start` would apply to the URL.
func launchCommand(goos, rawURL string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}

// OpenArticle opens the article's url field. The store is writable by
// external tooling, so the field is untrusted: anything but a web URL is
// rejected before it reaches a launcher process.
func OpenArticle(a *article.Article) error {
	u, err := url.Parse(a.URL)
	if err != nil {
		return fmt.Errorf("article %s has an unparsable url: %w", a.ID, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("article %s: refusing to open scheme %q (http/https only)", a.ID, u.Scheme)
	}
	return launchCommand(runtime.GOOS, a.URL).Start()
}
