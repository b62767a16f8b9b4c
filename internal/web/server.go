// Package web provides the HTTP API for importing payroll exports and
// packaging regulator archives.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wallyben/autoenroll-core/internal/config"
	"github.com/wallyben/autoenroll-core/internal/core"
	"github.com/wallyben/autoenroll-core/internal/metrics"
	"github.com/wallyben/autoenroll-core/internal/naersa"
	"github.com/wallyben/autoenroll-core/internal/web/middleware"
	"github.com/wallyben/autoenroll-core/internal/worm"
)

// Server is the HTTP server for the auto-enrolment API.
type Server struct {
	cfg      *config.Config
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	limiter  *core.PackLimiter

	runs        worm.Packager
	submissions naersa.Packager

	router     *chi.Mux
	server     *http.Server
	rate       *rateLimiter
	uploadRate *rateLimiter
}

// NewServer creates a Server. Metrics are served from gatherer.
func NewServer(cfg *config.Config, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		cfg:      cfg,
		metrics:  m,
		gatherer: gatherer,
		limiter:  core.NewPackLimiter(cfg.Package.MaxConcurrent, cfg.Package.MaxWaitTime),
		runs:     worm.Packager{Dir: cfg.Package.SubmissionsDir},
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Server.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.rate = newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.uploadRate = newRateLimiter(s.cfg.Rate.UploadLimit, time.Minute)
		s.router.Use(s.rate.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/sources", s.handleListSources)
		r.Get("/packaging/status", s.handlePackagingStatus)

		// Uploads and archive writes get the tighter limit
		r.Group(func(r chi.Router) {
			if s.uploadRate != nil {
				r.Use(s.uploadRate.middleware)
			}
			r.Post("/import", s.handleImport)
			r.Post("/build-zip", s.handleBuildZip)
			r.Post("/submission", s.handleSubmission)
		})
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rate != nil {
		s.rate.stop()
		s.uploadRate.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// PackagingStatus returns the current state of the packaging limiter.
func (s *Server) PackagingStatus() core.PackLimiterStatus {
	return s.limiter.Status()
}

// WaitForPackaging blocks until no archive is being written or ctx ends.
func (s *Server) WaitForPackaging(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}
