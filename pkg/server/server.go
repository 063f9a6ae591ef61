// pkg/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/David-Botos/data-cleaning/pkg/cleaner"
	"github.com/David-Botos/data-cleaning/pkg/config"
	"github.com/David-Botos/data-cleaning/pkg/loader"
)

// Server exposes cleaning sessions over HTTP
type Server struct {
	cfg      *config.Config
	registry *cleaner.Registry
	loader   *loader.FileLoader
	gatherer prometheus.Gatherer
	validate *validator.Validate
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// New creates a server. gatherer may be nil, in which case /metrics is not
// mounted.
func New(
	cfg *config.Config,
	registry *cleaner.Registry,
	fileLoader *loader.FileLoader,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if registry == nil {
		return nil, errors.New("registry cannot be nil")
	}
	if fileLoader == nil {
		return nil, errors.New("loader cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	v := validator.New()
	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	var limiter *rate.Limiter
	if cfg.UploadRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.UploadRPS), cfg.UploadBurst)
	}

	return &Server{
		cfg:      cfg,
		registry: registry,
		loader:   fileLoader,
		gatherer: gatherer,
		validate: v,
		limiter:  limiter,
		logger:   logger.Named("http"),
	}, nil
}

// Routes returns the HTTP handler serving every endpoint
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.With(s.uploadLimit).Post("/", s.CreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.With(s.uploadLimit).Put("/source", s.ReplaceSource)
			r.Get("/summary", s.GetSummary)
			r.Get("/duplicates", s.GetDuplicates)
			r.Post("/strategies", s.ApplyStrategies)
			r.Post("/dedupe", s.RemoveDuplicates)
			r.Post("/dropna", s.DropMissing)
			r.Post("/reset", s.Reset)
			r.Get("/export.csv", s.ExportCSV)
			r.Get("/export.xlsx", s.ExportXLSX)
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
