package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/alshifa/hospital-management/internal/auth"
	"github.com/alshifa/hospital-management/internal/department"
	"github.com/alshifa/hospital-management/internal/rbac"
	"github.com/alshifa/hospital-management/internal/transport/middleware"
	"github.com/alshifa/hospital-management/internal/transport/swagger"
	"github.com/alshifa/hospital-management/internal/user"
)

// RouterDeps carries everything RegisterAllRoutes wires together.
type RouterDeps struct {
	DB                *sql.DB
	AuthHandler       *auth.Handler
	Authorizer        *rbac.Authorizer
	UserHandler       *user.Handler
	DepartmentHandler *department.Handler
	AuthRateLimiter   *middleware.RateLimiter
	Logger            *slog.Logger
}

// RegisterAllRoutes mounts the API under /api/v1. The credential endpoints
// are rate limited; everything behind the auth middleware relies on the
// authorizer for role and permission gating.
func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.DB)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Group(func(ar chi.Router) {
			if deps.AuthRateLimiter != nil {
				ar.Use(deps.AuthRateLimiter.Middleware)
			}
			ar.Post("/auth/register", deps.AuthHandler.Register)
			ar.Post("/auth/login", deps.AuthHandler.Login)
			ar.Post("/auth/refresh", deps.AuthHandler.Refresh)
		})

		// Department directory is readable without a session.
		r.Get("/departments", deps.DepartmentHandler.GetAll)
		r.Get("/departments/{id}", deps.DepartmentHandler.GetByID)

		r.Group(func(pr chi.Router) {
			pr.Use(deps.AuthHandler.AuthMiddleware)

			pr.Get("/auth/me", deps.AuthHandler.CurrentUser)
			pr.Get("/auth/permissions", deps.Authorizer.Permissions)

			pr.Route("/users", func(ur chi.Router) {
				ur.Group(func(lr chi.Router) {
					lr.Use(deps.Authorizer.RequireRole(rbac.RoleAdmin, rbac.RoleManager))
					lr.Get("/", deps.UserHandler.List)
				})

				ur.Group(func(cr chi.Router) {
					cr.Use(deps.Authorizer.RequireRole(rbac.RoleAdmin, rbac.RoleManager, rbac.RoleReceptionist))
					cr.Post("/", deps.UserHandler.Create)
				})

				ur.Group(func(sr chi.Router) {
					sr.Use(deps.Authorizer.RequireSelfOrPermission("users", rbac.ActionRead))
					sr.Get("/{id}", deps.UserHandler.GetByID)
				})

				ur.Group(func(sr chi.Router) {
					sr.Use(deps.Authorizer.RequireSelfOrPermission("users", rbac.ActionUpdate))
					sr.Patch("/{id}", deps.UserHandler.Update)
				})

				ur.Group(func(mr chi.Router) {
					mr.Use(deps.Authorizer.RequireRole(rbac.RoleAdmin))
					mr.Delete("/{id}", deps.UserHandler.Delete)
					mr.Patch("/{id}/role", deps.UserHandler.ChangeRole)
				})

				ur.Group(func(mr chi.Router) {
					mr.Use(deps.Authorizer.RequireRole(rbac.RoleAdmin, rbac.RoleManager))
					mr.Patch("/{id}/department", deps.UserHandler.AssignDepartment)
				})
			})

			pr.Group(func(mr chi.Router) {
				mr.Use(deps.Authorizer.RequireRole(rbac.RoleAdmin))
				mr.Post("/departments", deps.DepartmentHandler.Create)
				mr.Delete("/departments/{id}", deps.DepartmentHandler.Delete)
			})

			pr.Group(func(mr chi.Router) {
				mr.Use(deps.Authorizer.RequireRole(rbac.RoleAdmin, rbac.RoleManager))
				mr.Patch("/departments/{id}", deps.DepartmentHandler.Update)
			})
		})
	})
}
