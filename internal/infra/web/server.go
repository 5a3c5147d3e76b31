package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"video-unlock-service/internal/usecase"
)

// PurchaseLimiter is the slice of the redis rate limiter the server needs.
// Slip verification bills per call, so uploads are throttled per client IP.
type PurchaseLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	unlockUC  usecase.UnlockUseCase
	catalogUC usecase.CatalogUseCase
	sessions  *SessionManager
	limiter   PurchaseLimiter // nil disables limiting (dev, tests)
	limit     int             // purchases per client IP per hour
	log       *zerolog.Logger
}

func NewServer(
	unlockUC usecase.UnlockUseCase,
	catalogUC usecase.CatalogUseCase,
	sessions *SessionManager,
	limiter PurchaseLimiter,
	purchasePerHour int,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		unlockUC:  unlockUC,
		catalogUC: catalogUC,
		sessions:  sessions,
		limiter:   limiter,
		limit:     purchasePerHour,
		log:       logger,
	}
}

// Router builds the public API surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(s.rateLimit).Post("/purchase", s.handlePurchase)
		r.Post("/redeem", s.handleRedeem)
		r.Get("/code/status", s.handleStatus)
		r.Post("/session/revoke", s.handleRevoke)
		r.Get("/contents", s.handleContents)
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		ok, err := s.limiter.Allow(r.Context(), purchaseKey(r.RemoteAddr), s.limit, time.Hour)
		if err != nil {
			// The limiter protects an external budget, not correctness.
			s.log.Warn().Err(err).Msg("rate limiter unavailable, letting request through")
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func purchaseKey(clientIP string) string {
	return "rate_limit:purchase:" + clientIP
}
