package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ayush/devconnector/backend/internal/auth"
	"github.com/ayush/devconnector/backend/internal/middleware"
	"github.com/ayush/devconnector/backend/internal/posts"
)

// Deps is everything the router needs.
type Deps struct {
	Tokens          middleware.TokenVerifier
	Auth            *auth.Handler
	Posts           *posts.Handler
	Limiter         middleware.Limiter
	WritesPerMinute int
	CORSOrigins     []string
	Quiet           bool // skip request logging
}

// NewRouter wires routes onto a chi router.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.PeerAddr)
	r.Use(chimw.RequestID)
	if !d.Quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.TokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	requireAuth := middleware.RequireAuth(d.Tokens)
	writes := middleware.RateLimit(d.Limiter, "write", d.WritesPerMinute, time.Minute)

	// Registration (public)
	r.With(writes).Post("/api/users", d.Auth.Register)

	// Auth routes
	r.Route("/api/auth", func(r chi.Router) {
		r.With(requireAuth).Get("/", d.Auth.Me)
		r.With(writes).Post("/", d.Auth.Login)
	})

	// Post routes (protected)
	r.Route("/api/posts", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", d.Posts.List)
		r.Get("/{id}", d.Posts.Get)

		r.Group(func(r chi.Router) {
			r.Use(writes)
			r.Post("/", d.Posts.Create)
			r.Delete("/{id}", d.Posts.Delete)
			r.Put("/like/{id}", d.Posts.Like)
			r.Put("/unlike/{id}", d.Posts.Unlike)
			r.Post("/comment/{id}", d.Posts.AddComment)
			r.Delete("/comment/{id}/{comment_id}", d.Posts.DeleteComment)
		})
	})

	return r
}
