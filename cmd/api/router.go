package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hanwool/handoff-api/internal/auth"
	"github.com/hanwool/handoff-api/internal/config"
	"github.com/hanwool/handoff-api/internal/handlers"
	"github.com/hanwool/handoff-api/internal/middleware"
	"github.com/hanwool/handoff-api/internal/repo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires repositories, the auth service, and the middleware chain.
// Tests build the same router over a sqlmock-backed *sql.DB.
func newRouter(pool *sql.DB, cfg config.Config) http.Handler {
	userRepo := repo.NewUserRepo(pool)
	handoffRepo := repo.NewHandoffRepo(pool)
	authSvc := auth.New(userRepo, []byte(cfg.JWTSecret), cfg.TokenTTL)

	authH := &handlers.AuthHandler{Auth: authSvc}
	userH := &handlers.UserHandler{Users: userRepo}
	handoffH := &handlers.HandoffHandler{Repo: handoffRepo}

	hsts := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(hsts))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	loginLimiter := middleware.LoginRateLimiter()

	r.Route("/user", func(r chi.Router) {
		// Public, rate limited.
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Middleware)
			r.Post("/signup", authH.Signup)
			r.Post("/login", authH.Login)
		})

		// Logout consumes the raw bearer token itself.
		r.Post("/logout", authH.Logout)

		// Everything else resolves the caller through the guard.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(authSvc))
			r.Get("/info", userH.Info)
			r.Patch("/", userH.Update)
			r.Delete("/", userH.Delete)
		})
	})

	r.Route("/handoffs", func(r chi.Router) {
		r.Use(middleware.RequireAuth(authSvc))
		r.Get("/", handoffH.List)
		r.Post("/", handoffH.Create)
		r.Patch("/{id}", handoffH.Update)
		r.Delete("/{id}", handoffH.Delete)
	})

	return r
}
