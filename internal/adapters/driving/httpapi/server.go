// Package httpapi exposes retrieval, evaluation and briefings over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
	"github.com/custodia-labs/treatyrag/internal/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Ports holds the services the API serves.
type Ports struct {
	Index      driving.IndexService
	Retrieval  driving.RetrievalService
	Evaluation driving.EvaluationService
	Briefing   driving.BriefingService

	// Defaults apply to retrieval requests that leave options unset.
	Defaults domain.RetrievalOptions

	// FastMode forces fast evaluation and briefing metrics.
	FastMode bool
}

// Server is the HTTP API.
type Server struct {
	ports  *Ports
	engine *gin.Engine
}

// NewServer creates the API server and registers its routes.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil {
		return nil, errors.New("ports cannot be nil")
	}
	if ports.Retrieval == nil {
		return nil, errors.New("retrieval service is required")
	}
	if ports.Defaults.TopK == 0 {
		ports.Defaults = domain.DefaultRetrievalOptions()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{ports: ports, engine: engine}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api/v1")
	{
		api.GET("/index/stats", s.indexStats)
		api.POST("/retrieve", s.retrieve)
		api.POST("/evaluate", s.evaluate)
		api.POST("/briefings", s.briefing)
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}

// requestLogger writes one line per request through the shared logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Get().Info()
		if status >= http.StatusInternalServerError {
			event = logger.Get().Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
