package handlers

import (
	"net/http"
	"time"

	"venuecatalog/backend/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes wires the full HTTP surface.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.OptionalSession(h.auth))
	r.Use(middleware.RequestLogger(h.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.APIKeyHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", h.Root)
	r.Get("/healthz", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/verify-session", h.VerifySession)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(h.apiLimiter, 1))
		r.Use(middleware.APIKeyMiddleware(h.cfg.APIKey))

		r.Get("/venues/", h.ListVenues)
		r.Post("/venues/", h.CreateVenue)
		r.Post("/venues/bulk", h.CreateVenuesBulk)
		r.Get("/venues/by-name/{name}/events/", h.ListVenueEventsByName)
		r.Get("/venues/{id}", h.GetVenue)
		r.Put("/venues/{id}", h.UpdateVenue)
		r.Delete("/venues/{id}", h.DeleteVenue)
		r.Get("/venues/{id}/events/", h.ListVenueEvents)

		r.Get("/events/", h.ListEvents)
		r.Post("/events/", h.CreateEvent)
		r.Post("/events/bulk", h.CreateEventsBulk)
		r.Get("/events/{id}", h.GetEvent)
		r.Put("/events/{id}", h.UpdateEvent)
		r.Delete("/events/{id}", h.DeleteEvent)

		r.Get("/search", h.Search)
	})
	return r
}
