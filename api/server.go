package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dicepot/auth"
	"dicepot/service"
)

// DefaultRequestTimeout bounds each request's context
const DefaultRequestTimeout = 30 * time.Second

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the application services the API exposes
type Services struct {
	Users  service.UserService
	Wallet service.WalletService
	Games  service.GameService
	Stats  service.StatsService
}

// Server handles HTTP requests
type Server struct {
	services   Services
	tokens     *auth.TokenIssuer
	db         Pinger
	corsOrigin string
	timeout    time.Duration
	startTime  time.Time
}

// NewServer creates a new API server. db may be nil, in which case the
// health check skips the database probe.
func NewServer(services Services, tokens *auth.TokenIssuer, db Pinger, corsOrigin string) *Server {
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	return &Server{
		services:   services,
		tokens:     tokens,
		db:         db,
		corsOrigin: corsOrigin,
		timeout:    DefaultRequestTimeout,
		startTime:  time.Now(),
	}
}

// Routes sets up the HTTP routes with middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.With(s.authenticate).Get("/me", s.handleMe)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)

			r.Post("/wallet/deposit", s.handleDeposit)
			r.Post("/wallet/withdraw", s.handleWithdraw)
			r.Get("/wallet/history", s.handleHistory)

			r.Route("/game", func(r chi.Router) {
				r.Post("/start", s.handleStartRound)
				r.Post("/roll", s.handleRoll)
				r.Post("/cashout", s.handleCashOut)
				r.Get("/active", s.handleActiveRound)
				r.Get("/rounds", s.handleListRounds)
				r.Get("/rounds/{id}", s.handleGetRound)
			})

			r.Get("/stats", s.handleStats)
		})
	})

	return r
}
