package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"savings/internal/cache"
	"savings/internal/i18n"
	"savings/internal/log"
	"savings/internal/middleware/ratelimit"
	"savings/internal/middleware/security"
	"savings/internal/middleware/trace"
	"savings/internal/services"
	appweb "savings/web"
)

// ReadyFunc reports whether backing services can serve requests.
type ReadyFunc func(ctx context.Context) error

// Options wires the server's collaborators. Projections and Params are
// required.
type Options struct {
	Projections        *services.ProjectionService
	Params             *services.ParamsService
	Logger             *log.Logger
	RateLimitPerMinute int
	Ready              ReadyFunc
	CacheSweepInterval time.Duration
}

type Server struct {
	http.Server
	templates   *template.Template
	projections *services.ProjectionService
	params      *services.ParamsService
	ready       ReadyFunc

	trace    *trace.Middleware
	limiter  *ratelimit.Limiter
	detector *security.Detector
	caches   *cache.Manager

	startedAt       time.Time
	projectionCount atomic.Int64
	shutdownOnce    sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}
	if opts.Params == nil {
		opts.Params = services.NewParamsService(nil)
	}
	if opts.CacheSweepInterval <= 0 {
		opts.CacheSweepInterval = 5 * time.Minute
	}

	limiterCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limiterCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		projections: opts.Projections,
		params:      opts.Params,
		ready:       opts.Ready,
		trace:       trace.NewMiddleware(),
		limiter:     ratelimit.NewLimiter(limiterCfg),
		detector:    security.NewDetector(),
		caches:      cache.NewManager(),
		startedAt:   time.Now(),
	}

	s.caches.Register("projections", s.projections.Cache())
	s.caches.Start(context.Background(), opts.CacheSweepInterval)

	if _, err := i18n.Load(); err != nil {
		logger.Warn("Failed loading message catalogs", "error", err)
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	mux := http.NewServeMux()

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	limit := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded, please try again later"})
	})

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ui/projection", s.handleProjectionPartial)
	mux.Handle("GET /api/projection", limit(http.HandlerFunc(s.handleProjectionAPI)))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// trace -> logging -> security headers -> suspicious request detection
	var handler http.Handler = mux
	handler = s.detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = log.Middleware(logger, trace.RequestID, s.detector.ExtractClientIP)(handler)
	handler = s.trace.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
		slog.InfoContext(ctx, "HTTP server stopped", "projections_served", s.projectionCount.Load())
	})

	return shutdownErr
}
