// Package server exposes the reader API, the podcast feed and the
// narrated audio files over HTTP.
package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
	"github.com/Giraffe0925/ai-trend-viewer/internal/config"
	"github.com/Giraffe0925/ai-trend-viewer/internal/store"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type Server struct {
	cfg    *config.Config
	store  *store.Store
	logger *log.Logger
	echo   *echo.Echo
}

func New(cfg *config.Config, st *store.Store, logger *log.Logger) *Server {
	s := &Server{cfg: cfg, store: st, logger: logger}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/healthz", s.health)
	e.GET("/api/articles", s.listArticles)
	e.GET("/api/articles/:id", s.getArticle)
	e.GET("/podcast/feed.xml", s.podcastFeed)
	e.Static("/audio", cfg.AudioDirPath())

	s.echo = e
	return s
}

// Start blocks serving HTTP until the context is canceled, then shuts the
// listener down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.cfg.Addr())
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		return s.echo.Shutdown(context.Background())
	}
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type articleList struct {
	Articles []article.Article `json:"articles"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"perPage"`
}

// listArticles serves the collection newest first with optional substring
// search (?q=) and pagination (?page=, ?per=).
func (s *Server) listArticles(c echo.Context) error {
	articles, err := s.store.Load()
	if err != nil {
		s.logger.Error("loading store", "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "store unavailable")
	}

	store.SortByPublished(articles)
	matched := store.Search(articles, c.QueryParam("q"))

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	per := queryInt(c, "per", defaultPerPage)
	if per < 1 {
		per = defaultPerPage
	}
	if per > maxPerPage {
		per = maxPerPage
	}

	start := (page - 1) * per
	if start > len(matched) {
		start = len(matched)
	}
	end := start + per
	if end > len(matched) {
		end = len(matched)
	}

	out := matched[start:end]
	if out == nil {
		out = []article.Article{}
	}
	return c.JSON(http.StatusOK, articleList{
		Articles: out,
		Total:    len(matched),
		Page:     page,
		PerPage:  per,
	})
}

// getArticle looks up one article by its URL-safe base64 encoded id, so
// arXiv ids containing slashes travel as a single path segment.
func (s *Server) getArticle(c echo.Context) error {
	raw, err := base64.RawURLEncoding.DecodeString(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed article id")
	}

	articles, err := s.store.Load()
	if err != nil {
		s.logger.Error("loading store", "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "store unavailable")
	}

	a := store.ByID(articles, string(raw))
	if a == nil {
		return echo.NewHTTPError(http.StatusNotFound, "article not found")
	}
	return c.JSON(http.StatusOK, a)
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
