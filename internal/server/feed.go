package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	itunes "github.com/eduncan911/podcast"
	"github.com/labstack/echo/v4"

	"github.com/Giraffe0925/ai-trend-viewer/internal/store"
)

// podcastFeed renders the narrated episodes as an iTunes-compatible RSS
// feed, newest first. The feed is cheap to rebuild but podcast clients
// poll aggressively, so responses carry a one-hour cache header.
func (s *Server) podcastFeed(c echo.Context) error {
	articles, err := s.store.Load()
	if err != nil {
		s.logger.Error("loading store", "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "store unavailable")
	}
	narrated := store.WithAudio(articles)

	pc := s.cfg.Podcast
	site := strings.TrimRight(s.cfg.SiteURL, "/")

	now := time.Now()
	feed := itunes.New(pc.Title, site, pc.Description, &now, &now)
	feed.Language = pc.Language
	feed.IExplicit = "no"
	if pc.Author != "" {
		feed.AddAuthor(pc.Author, pc.Email)
	}
	if pc.Image != "" {
		feed.AddImage(pc.Image)
	}
	if pc.ITunesCat != "" {
		var subs []string
		if pc.ITunesSub != "" {
			subs = []string{pc.ITunesSub}
		}
		feed.AddCategory(pc.ITunesCat, subs)
	}

	for i := range narrated {
		a := &narrated[i]

		item := itunes.Item{
			Title:       a.DisplayTitle(),
			Description: a.DisplaySummary(),
			Link:        a.URL,
		}
		if item.Description == "" {
			item.Description = item.Title
		}
		pub := a.ParsedTime()
		item.AddPubDate(&pub)
		item.AddEnclosure(site+a.AudioURL, itunes.MP3, s.audioFileSize(a.AudioURL))

		if _, err := feed.AddItem(item); err != nil {
			s.logger.Warn("skipping malformed feed item", "id", a.ID, "err", err)
		}
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", feed.Bytes())
}

// Nominal episode size when the file cannot be probed; clients only use
// the length attribute as a download hint.
const defaultEnclosureSize = 10 << 20

// audioFileSize probes the on-disk episode for the enclosure length
// attribute.
func (s *Server) audioFileSize(audioURL string) int64 {
	name := filepath.Base(audioURL)
	fi, err := os.Stat(filepath.Join(s.cfg.AudioDirPath(), name))
	if err != nil {
		return defaultEnclosureSize
	}
	return fi.Size()
}
