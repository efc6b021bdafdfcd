/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. RequireAuth on /api/v1 (except /auth/login); disabled when the JWT
     secret is empty

ROUTE GROUPS:
  /health                 Liveness probe (public)
  /api/v1/auth/*          Login (public)
  /api/v1/employees/*     Employees, absences, availability
  /api/v1/companies/*     Companies
  /api/v1/projects/*      Projects, their work packages and assignments
  /api/v1/work-packages/* Work package CRUD
  /api/v1/assignments/*   Assignments, allocation, schedule
  /api/v1/documents/*     Document download and delete
  /api/v1/trash/*         Removed records (restore/purge)
  /api/v1/holidays/*      Holiday calendar
  /api/v1/demo/*          Demo dataset loader

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

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

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Login)

		// Everything below needs a bearer token (unless auth is disabled).
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.ListEmployees)
				r.Post("/", h.SaveEmployee)
				r.Get("/{id}", h.GetEmployee)
				r.Delete("/{id}", h.DeleteEmployee)
				r.Post("/{id}/absences", h.AddAbsence)
				r.Get("/{id}/assignments", h.ListEmployeeAssignments)
				r.Get("/{id}/availability", h.GetAvailability)
			})

			r.Delete("/absences/{id}", h.DeleteAbsence)

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.ListHolidays)
				r.Post("/", h.SaveHoliday)
				r.Delete("/{id}", h.DeleteHoliday)
			})

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", h.ListCompanies)
				r.Post("/", h.SaveCompany)
				r.Get("/{id}", h.GetCompany)
				r.Delete("/{id}", h.DeleteCompany)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.ListProjects)
				r.Post("/", h.SaveProject)
				r.Get("/{id}", h.GetProject)
				r.Delete("/{id}", h.DeleteProject)
				r.Get("/{id}/work-packages", h.ListWorkPackages)
				r.Get("/{id}/assignments", h.ListProjectAssignments)
				r.Get("/{id}/documents", h.ListDocuments)
				r.Post("/{id}/documents", h.UploadDocument)
			})

			r.Get("/documents/{id}", h.DownloadDocument)
			r.Delete("/documents/{id}", h.DeleteDocument)

			r.Route("/trash", func(r chi.Router) {
				r.Get("/", h.ListTrash)
				r.Post("/{id}/restore", h.RestoreTrashEntry)
				r.Delete("/{id}", h.PurgeTrashEntry)
			})

			r.Route("/work-packages", func(r chi.Router) {
				r.Post("/", h.SaveWorkPackage)
				r.Get("/{id}", h.GetWorkPackage)
				r.Delete("/{id}", h.DeleteWorkPackage)
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Post("/", h.SaveAssignment)
				r.Get("/{id}", h.GetAssignment)
				r.Delete("/{id}", h.DeleteAssignment)
				r.Get("/{id}/allocation", h.GetAllocation)
				r.Get("/{id}/schedule/{workPackageID}", h.GetSchedule)
			})

			r.Post("/demo/seed", h.SeedDemo)
		})
	})

	return r
}
