// Package http serves the expense dashboard: filterable report views,
// XLSX export, login, and snapshot refresh requests.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"spendview/internal/analysis"
	"spendview/internal/auth"
	"spendview/internal/cache"
	"spendview/internal/core"
	applog "spendview/internal/log"
	"spendview/internal/source"
	appweb "spendview/web"
)

const (
	reportCacheSize = 100
	postRateLimit   = 60
	loadTimeout     = 15 * time.Second
)

// RefreshPublisher requests a snapshot refresh, typically over AMQP.
type RefreshPublisher interface {
	PublishRefreshRequest(ctx context.Context, requestedBy, reason string) error
}

// Options configures a dashboard server.
type Options struct {
	Addr          string
	Loader        source.ExpenseLoader
	Publisher     RefreshPublisher // nil disables the refresh button
	Authenticator *auth.Authenticator
	Sessions      *auth.SessionStore
	AuthEnabled   bool
	CacheTTL      time.Duration
	Logger        *applog.Logger // nil uses a default logger
}

type Server struct {
	http.Server
	templates     *template.Template
	loader        source.ExpenseLoader
	publisher     RefreshPublisher
	authenticator *auth.Authenticator
	sessions      *auth.SessionStore
	authEnabled   bool
	rateLimiter   *rateLimiter
	logger        *applog.Logger

	reportCache *cache.LRUCache[*analysis.Report]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		loader:           opts.Loader,
		publisher:        opts.Publisher,
		authenticator:    opts.Authenticator,
		sessions:         opts.Sessions,
		authEnabled:      opts.AuthEnabled,
		rateLimiter:      newRateLimiter(postRateLimit),
		logger:           logger.WithComponent(applog.ComponentHTTP),
		reportCache:      cache.NewLRUCache[*analysis.Report](reportCacheSize, cacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	withLogger := applog.Middleware(s.logger)
	withRequestID := applog.RequestIDMiddleware(func(*http.Request) string { return generateRequestID() })
	base := func(h http.HandlerFunc) http.HandlerFunc {
		wrapped := withLogger(withRequestID(s.withSecurityHeaders(h)))
		return wrapped.ServeHTTP
	}

	requireAuth := auth.Middleware(s.sessions, s.authEnabled)
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return base(func(w http.ResponseWriter, r *http.Request) {
			requireAuth(http.HandlerFunc(h)).ServeHTTP(w, r)
		})
	}

	mux.HandleFunc("/", protected(s.handleIndex))
	mux.HandleFunc("/ui/dashboard", protected(s.handleDashboard))
	mux.HandleFunc("/export.xlsx", protected(s.handleExport))
	mux.HandleFunc("/refresh", protected(s.handleRefresh))
	mux.HandleFunc("/login", base(s.handleLogin))
	mux.HandleFunc("/logout", base(s.handleLogout))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	return s
}

// startCacheCleanup evicts expired report cache entries periodically.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.reportCache.CleanExpired(); cleaned > 0 {
				s.logger.Debug("Report cache cleanup completed", "entries_removed", cleaned)
			}
			if s.sessions != nil {
				s.sessions.CleanExpired()
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// getReport loads the dataset, applies cleaning and the filter, and builds
// the report, memoized per filter.
func (s *Server) getReport(ctx context.Context, f core.Filter) (*analysis.Report, error) {
	key := filterCacheKey(f)
	if report, ok := s.reportCache.Get(key); ok {
		applog.FromContext(ctx).DebugContext(ctx, "Report cache hit", "key", key)
		return report, nil
	}

	cctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	rows, err := s.loader.LoadExpenses(cctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	report, err := analysis.Build(f.Apply(core.Clean(rows)))
	if err != nil {
		return nil, err
	}

	s.reportCache.Set(key, report)
	return report, nil
}

// categoryOptions returns the distinct categories of the cleaned dataset for
// the filter select, cached under the unfiltered report when possible.
func (s *Server) categoryOptions(ctx context.Context) ([]string, error) {
	report, err := s.getReport(ctx, core.Filter{})
	if err != nil {
		return nil, err
	}
	names := make([]string, len(report.Categories))
	for i, c := range report.Categories {
		names[i] = c.Name
	}
	return names, nil
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses. The request-scoped logger installed by the log
// middlewares already carries the request ID.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := r.Context()
		clientIP := extractClientIP(r)
		logger := applog.FromContext(ctx)

		logger.InfoContext(ctx, "Request started",
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		logger.InfoContext(ctx, "Request completed",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
