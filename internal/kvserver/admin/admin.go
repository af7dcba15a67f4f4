package admin

import (
	"context"
	"net/http"

	"github.com/yndnr/kvs/internal/telemetry/logger"
	"github.com/yndnr/kvs/internal/telemetry/metric"
)

// Config configures the admin HTTP server.
type Config struct {
	// Addr is the listen address, e.g. ":9090".
	Addr string

	// Metrics serves /metrics. A nil Metrics disables that route.
	Metrics *metric.Registry

	Logger logger.Logger
}

// Server is the admin HTTP listener: /healthz and /metrics, entirely
// separate from the key/value TCP port.
type Server struct {
	httpServer *http.Server
}

// New builds a Server from cfg.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	var metricsHandler http.Handler
	if cfg.Metrics != nil {
		metricsHandler = cfg.Metrics.Handler()
	}
	h := NewHandler(metricsHandler)

	handler := Chain(h,
		RequestID(),
		Recover(cfg.Logger),
		AccessLog(cfg.Logger),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.Addr,
			Handler: handler,
		},
	}
}

// ListenAndServe starts the admin server. It returns http.ErrServerClosed
// after a call to Shutdown.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the admin server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
