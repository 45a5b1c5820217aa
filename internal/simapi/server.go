// Package simapi exposes a read-only gin HTTP API for introspecting a
// running simulation: unit and call state per zone, pending event queues,
// health and prometheus metrics. It never mutates simulator state — all
// commands into a zone flow through its EventBus, not this API.
package simapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/trunkradio/radiosim/internal/config"
	"github.com/trunkradio/radiosim/internal/metrics"
	"github.com/trunkradio/radiosim/internal/zone"
)

// ZoneRegistry resolves a zone controller by id. The gin handlers only ever
// read through it, never mutate the returned controller directly.
type ZoneRegistry interface {
	Zone(id int) (*zone.Controller, bool)
	ZoneIDs() []int
}

// Server hosts the introspection API over HTTP.
type Server struct {
	http *http.Server
	log  zerolog.Logger
}

// ServerOptions configures a Server.
type ServerOptions struct {
	Config    *config.Config
	Zones     ZoneRegistry
	Version   string
	StartTime time.Time
	Log       zerolog.Logger
}

// NewServer builds the gin engine and wraps it in an *http.Server bound to
// opts.Config.APIAddr, matching the teacher's chi-based server.go shape
// (global middleware, then route groups) translated to gin idiom.
func NewServer(opts ServerOptions) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(opts.Log))
	if opts.Config.MetricsEnabled {
		r.Use(metrics.GinMiddleware())
	}

	h := &handlers{zones: opts.Zones, version: opts.Version, startTime: opts.StartTime}

	r.GET("/healthz", h.health)
	if opts.Config.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/api/v1/zones/:zoneID")
	v1.GET("/units", h.listUnits)
	v1.GET("/calls", h.listCalls)
	v1.GET("/queue", h.queueStatus)

	return &Server{
		http: &http.Server{
			Addr:         opts.Config.APIAddr,
			Handler:      r,
			ReadTimeout:  opts.Config.ReadTimeout,
			WriteTimeout: opts.Config.WriteTimeout,
			IdleTimeout:  opts.Config.IdleTimeout,
		},
		log: opts.Log.With().Str("component", "simapi").Logger(),
	}
}

// ListenAndServe blocks serving HTTP until the server is shut down.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("introspection API listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
