package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/IgorOC/Taste-Trip/internal/api/auth"
	"github.com/IgorOC/Taste-Trip/internal/api/trip"
)

// Config carries the handlers and middleware the router mounts. Server-wide
// middleware (request id, logging, recoverer) is applied in main before this
// router is mounted.
type Config struct {
	AuthHandler            *auth.AuthHandler
	TripHandler            *trip.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter builds the application route tree.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)
		})

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)

			r.Post("/trips/generate", cfg.TripHandler.GenerateTrip)
			r.Get("/trips", cfg.TripHandler.ListTrips)
			r.Get("/trips/{tripID}", cfg.TripHandler.GetTrip)
		})
	})

	return r
}
