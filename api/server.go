/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack and route definitions.
  This is the wiring layer connecting URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the UI frontend

ROUTE GROUPS:
  /api/punch/*       Punch lifecycle (the timer flow)
  /api/shifts/*      Manual entry, edits, deletion
  /api/defaults      Role > Workplace > Profile resolution
  /api/workplaces/*  Workplace management
  /api/roles/*       Role management
  /api/profile       The single user profile
  /api/summary       Day/week/month bucket totals
  /api/backup        Export blob; /api/restore replaces wholesale

SECURITY NOTE:
  Single-user local app; no authentication middleware.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Punch lifecycle
		r.Route("/punch", func(r chi.Router) {
			r.Get("/", h.GetPunch)
			r.Patch("/", h.EditPunch)
			r.Post("/start", h.StartPunch)
			r.Post("/stop", h.StopPunch)
			r.Post("/cancel", h.CancelPunch)
			r.Post("/check", h.CheckPunch)
		})

		// Shifts
		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/", h.CreateShift)
			r.Get("/{id}", h.GetShift)
			r.Put("/{id}", h.UpdateShift)
			r.Delete("/{id}", h.DeleteShift)
		})

		// Defaults resolution (form pre-fill)
		r.Get("/defaults", h.GetDefaults)

		// Workplaces
		r.Route("/workplaces", func(r chi.Router) {
			r.Get("/", h.ListWorkplaces)
			r.Post("/", h.CreateWorkplace)
			r.Put("/{id}", h.UpdateWorkplace)
			r.Delete("/{id}", h.DeleteWorkplace)
		})

		// Roles
		r.Route("/roles", func(r chi.Router) {
			r.Get("/", h.ListRoles)
			r.Post("/", h.CreateRole)
			r.Put("/{id}", h.UpdateRole)
			r.Delete("/{id}", h.DeleteRole)
		})

		// Profile
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)

		// Views
		r.Get("/summary", h.GetSummary)

		// Backup / restore
		r.Get("/backup", h.Backup)
		r.Post("/restore", h.Restore)
	})

	return r
}
