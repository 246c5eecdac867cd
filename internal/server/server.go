// Package server exposes the simulation engine over HTTP. The engine itself
// is pure and stateless; the server only decodes requests, invokes it, and
// encodes results.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/caregraph/caregraph/internal/compare"
	"github.com/caregraph/caregraph/internal/config"
	"github.com/caregraph/caregraph/internal/dataset"
	"github.com/caregraph/caregraph/internal/pathway"
)

// Server wires the loaded dataset and engine into an echo instance.
type Server struct {
	echo    *echo.Echo
	logger  zerolog.Logger
	data    *dataset.Dataset
	builder *pathway.Builder
	comp    *compare.CompareEngine
	params  config.Parameters
	metrics *Metrics
}

// New assembles the HTTP server around a loaded dataset.
func New(data *dataset.Dataset, params config.Parameters, logger zerolog.Logger) *Server {
	builder := pathway.NewBuilder(data.Registry, data.Network, data.Costs, data.Interventions, params)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	s := &Server{
		echo:    echo.New(),
		logger:  logger,
		data:    data,
		builder: builder,
		comp:    compare.NewCompareEngine(builder, data.Plans),
		params:  params,
		metrics: NewMetrics(registry),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(s.requestLogger())

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.POST("/simulate/pathway", s.handleSimulatePathway)
	api.POST("/simulate/compare", s.handleCompareScenarios)
	api.POST("/plans/compare", s.handleComparePlans)
	api.GET("/plans", s.handleListPlans)
	api.GET("/conditions", s.handleListConditions)
	api.GET("/interventions", s.handleListInterventions)

	return s
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	s.logger.Info().Str("addr", addr).Msg("server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// requestLogger tags every request with an id and logs its outcome.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := uuid.NewString()
			c.Set("request_id", reqID)
			c.Response().Header().Set("X-Request-ID", reqID)

			start := time.Now()
			err := next(c)
			s.logger.Info().
				Str("request_id", reqID).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Err(err).
				Msg("request")
			return err
		}
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":     "ok",
		"conditions": s.data.Registry.Len(),
		"plans":      s.data.Plans.Len(),
	})
}
