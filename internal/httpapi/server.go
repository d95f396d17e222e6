// Package httpapi is the gateway's inbound HTTP surface. It authenticates
// callers by bearer credential, runs one HR operation per route and renders
// the result in the shared JSON envelope.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/marcus-qen/hragent/internal/config"
	"github.com/marcus-qen/hragent/internal/mcpserver"
	"github.com/marcus-qen/hragent/internal/workday"
)

// Version info injected at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Server is the assembled gateway.
type Server struct {
	cfg     config.Config
	logger  *zap.Logger
	backend workday.ClientConfig
	now     func() time.Time

	mcp        *mcpserver.MCPServer
	limiter    *rateLimiter
	handler    http.Handler
	httpServer *http.Server
}

// Option customizes a Server.
type Option func(*Server)

// WithHTTPClient replaces the transport used for backend calls.
func WithHTTPClient(c workday.HTTPRequester) Option {
	return func(s *Server) {
		s.backend.HTTPClient = c
	}
}

// WithClock overrides the clock used for date defaults and rate limiting.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New wires the gateway from cfg.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger.Named("http"),
		backend: workday.ClientConfig{
			Endpoints: cfg.Workday.Resolve(),
			Logger:    logger.Named("workday"),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.backend.HTTPClient == nil {
		s.backend.HTTPClient = workday.NewHTTPRequester()
	}

	s.limiter = newRateLimiter(cfg.RateLimit, s.now)
	if cfg.MCPEnabled {
		s.mcp = mcpserver.New(s.backend, logger)
	}
	s.handler = s.routes()

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.Workday.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting hr gateway",
		zap.String("addr", s.cfg.ListenAddr),
		zap.String("version", Version),
		zap.String("workday_base_url", s.backend.Endpoints.BaseURL),
		zap.String("workday_tenant", s.backend.Endpoints.Tenant),
		zap.Bool("mcp_enabled", s.mcp != nil),
		zap.Int("rate_limit_rpm", s.cfg.RateLimit.RequestsPerMinute),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
