package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

//go:generate mockery --name TranslationCache --filename translation_cache.go
//go:generate mockery --name SiteProcessor --filename site_processor.go

// TranslationCache exposes translation cache of the engine.
type TranslationCache interface {
	GetCachedTranslation(ctx context.Context, text string) (string, bool)
	ClearCache(ctx context.Context)
	GetCacheStats(ctx context.Context) models.CacheStats
	GetCacheHitRate() float64
}

// SiteProcessor runs the pipeline for a site.
type SiteProcessor interface {
	ProcessSite(ctx context.Context, site string) (*models.RunSummary, error)
}

// Options holds HTTP server options.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is operator HTTP API.
type Server struct {
	cache     TranslationCache
	processor SiteProcessor
	sites     func() []string
	logger    *zerolog.Logger
	opts      Options
	echo      *echo.Echo
}

type cacheStatsResponse struct {
	models.CacheStats
	HitRate float64 `json:"hitRate"`
}

type cachedTranslationResponse struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

// NewServer returns new Server. Zero options are replaced with defaults.
func NewServer(
	cache TranslationCache,
	processor SiteProcessor,
	sites func() []string,
	logger *zerolog.Logger,
	opts Options,
) *Server {
	if strings.TrimSpace(opts.Addr) == "" {
		opts.Addr = ":8080"
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		// site runs are synchronous
		opts.WriteTimeout = 30 * time.Minute
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		cache:     cache,
		processor: processor,
		sites:     sites,
		logger:    logger,
		opts:      opts,
	}
	s.echo = s.routes()

	return s
}

// Handler returns http handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves the API until ctx is done, then shuts the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.echo,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("http server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", s.opts.Addr).Msg("http server started")

	if err := s.echo.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("can't serve http: %w", err)
	}

	return nil
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Debug()
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("requestId", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)

	api := e.Group("/api/v1")
	api.GET("/translations/cache", s.handleCachedTranslation)
	api.DELETE("/translations/cache", s.handleClearCache)
	api.GET("/translations/cache/stats", s.handleCacheStats)
	api.GET("/sites", s.handleSites)
	api.POST("/sites/:site/runs", s.handleRun)

	return e
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]string{"status": "ok"})
}

func (s *Server) handleCacheStats(c echo.Context) error {
	return success(c, cacheStatsResponse{
		CacheStats: s.cache.GetCacheStats(c.Request().Context()),
		HitRate:    s.cache.GetCacheHitRate(),
	})
}

func (s *Server) handleCachedTranslation(c echo.Context) error {
	text := c.QueryParam("text")
	if strings.TrimSpace(text) == "" {
		return fail(c, http.StatusBadRequest, "text query parameter is required")
	}

	translation, found := s.cache.GetCachedTranslation(c.Request().Context(), text)
	if !found {
		return fail(c, http.StatusNotFound, "translation is not cached")
	}

	return success(c, cachedTranslationResponse{
		Text:        text,
		Translation: translation,
	})
}

func (s *Server) handleClearCache(c echo.Context) error {
	s.cache.ClearCache(c.Request().Context())
	return success(c, nil)
}

func (s *Server) handleSites(c echo.Context) error {
	return success(c, map[string][]string{"sites": s.sites()})
}

func (s *Server) handleRun(c echo.Context) error {
	site := c.Param("site")

	summary, err := s.processor.ProcessSite(c.Request().Context(), site)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		return fail(c, http.StatusConflict, fmt.Sprintf("site %s is already processed", site))
	}
	if err != nil {
		return err
	}

	return success(c, summary)
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			_ = internalError(c, http.StatusText(httpErr.Code))
			return
		}
		_ = fail(c, httpErr.Code, fmt.Sprint(httpErr.Message))
		return
	}

	s.logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
	_ = internalError(c, "internal server error")
}
