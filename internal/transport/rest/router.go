package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/frahmantamala/leave-management/internal/vacation"
	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
)

// RegisterAllRoutes wires the HTTP surface. Identity is resolved per
// request from the gateway header; everything under /api/v1 except health
// requires it.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, vacationHandler *vacation.Handler, employeeHandler *employee.Handler, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: splitOrigins(allowedOrigins),
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Employee-ID", "X-Trace-ID"},
		MaxAge:         300,
	}))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// OpenAPI spec and swagger UI at root, outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Identity)

			pr.Route("/requests", func(rr chi.Router) {
				rr.Post("/", vacationHandler.SubmitRequest)
				rr.Get("/", vacationHandler.ListMyRequests)
				rr.Get("/pending", vacationHandler.ListPendingRequests)
				rr.Get("/{id}", vacationHandler.GetRequest)
				rr.Patch("/{id}/approve", vacationHandler.ApproveRequest)
				rr.Patch("/{id}/reject", vacationHandler.RejectRequest)
			})

			pr.Get("/employees/me", employeeHandler.GetCurrentEmployee)
			pr.Get("/employees/me/balance", employeeHandler.GetBalance)
		})
	})
}

func splitOrigins(allowed string) []string {
	if allowed == "" {
		return []string{"*"}
	}
	parts := strings.Split(allowed, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
