// Package http exposes the ledger over a JSON API. It is a thin consumer
// of the ledger store; all state and derived views live there.
package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"monetraq/internal/ledger"
	"monetraq/internal/log"
	"monetraq/internal/middleware/headers"
	"monetraq/internal/middleware/ratelimit"
)

type Server struct {
	http.Server
	store    *ledger.Store
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	locale   string
	currency string
	started  time.Time
}

// Options control the display formatting attached to derived views.
type Options struct {
	Locale   string
	Currency string
}

func NewServer(addr string, store *ledger.Store, logger *log.Logger, opts Options) *Server {
	if opts.Locale == "" {
		opts.Locale = "en-US"
	}
	if opts.Currency == "" {
		opts.Currency = "EUR"
	}
	s := &Server{
		store:    store,
		logger:   logger.WithComponent(log.ComponentHTTP),
		limiter:  ratelimit.New(ratelimit.DefaultConfig()),
		locale:   opts.Locale,
		currency: opts.Currency,
		started:  time.Now(),
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	r.Use(headers.Middleware(headers.DefaultConfig()))
	r.Use(s.limiter.Middleware(clientID))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleAddTransaction)
		r.Delete("/transactions", s.handleClearAll)
		r.Patch("/transactions/{id}", s.handleUpdateTransaction)
		r.Delete("/transactions/{id}", s.handleRemoveTransaction)
		r.Get("/totals", s.handleTotals)
		r.Get("/summaries/monthly", s.handleMonthlySummaries)
		r.Get("/days", s.handleGroupedByDay)
		r.Get("/categories", s.handleCategories)
		r.Post("/categories", s.handleRegisterCategory)
	})

	s.Addr = addr
	s.Handler = r
	return s
}

// Shutdown stops the rate limiter sweep before draining connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

// clientID keys rate limiting by remote host, ignoring the port so a
// client keeps one bucket across connections.
func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.InfoContext(r.Context(), "request completed",
			log.FieldRequestID, chimw.GetReqID(r.Context()),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, ww.Status(),
			log.FieldDuration, time.Since(start).Milliseconds())
	})
}
