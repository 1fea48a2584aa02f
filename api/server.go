/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:       Request logging
  2. Recoverer:    Panic recovery (500 instead of crash)
  3. RequestID:    Unique ID per request for tracing
  4. CORS:         Cross-origin requests for frontend
  5. Authenticate: Bearer token verification, actor loading

ROUTE GROUPS:
  /api/leaves/*   Leave requests and approvals
  /api/shifts/*   Shift assignments and active shift views
  /api/company/*  Manager views of the company

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
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(h.Authenticate)

		// Leave routes
		r.Route("/leaves", func(r chi.Router) {
			r.Post("/", h.CreateLeave)
			r.Get("/pending", h.ListPendingLeaves)
			r.Get("/mine", h.ListOwnLeaves)
			r.Post("/{id}/approve", h.ApproveLeave)
			r.Post("/{id}/reject", h.RejectLeave)
		})

		// Shift routes
		r.Route("/shifts", func(r chi.Router) {
			r.Post("/assignments", h.AssignShift)
			r.Get("/active", h.GetActiveShifts)
			r.Get("/active/{employeeID}", h.GetEmployeeActiveShift)
		})

		// Company routes
		r.Route("/company", func(r chi.Router) {
			r.Get("/personnel", h.ListPersonnel)
			r.Get("/assignments", h.ListCompanyAssignments)
		})
	})

	return r
}
