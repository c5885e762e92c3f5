package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/blog-api-be/internal/api/handlers"
	"github.com/isdelr/blog-api-be/internal/auth"
	"github.com/isdelr/blog-api-be/internal/config"
	"github.com/isdelr/blog-api-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, tokens *auth.TokenManager, authService services.AuthServiceProvider, postService services.PostServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokens, cfg.IsProduction())
	postHandler := handlers.NewPostHandler(postService)

	r.Get("/", welcome)

	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.List)

		// Mutations require a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())
			r.Post("/", postHandler.Create)
			r.Put("/{id}", postHandler.Update)
			r.Delete("/{id}", postHandler.Delete)
		})
	})

	return r
}

func welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"Welcome to the blog API"}`))
}
