package rbac

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/alshifa/hospital-management/internal"
)

// ModuleAction names one (module, action) pair for any-of checks.
type ModuleAction struct {
	Module string
	Action Action
}

// Authorizer builds route middleware around the permission registry. Every
// variant expects authentication middleware to have attached a Principal
// already; a missing principal is rejected as unauthorized, an insufficient
// one as forbidden.
type Authorizer struct {
	registry *Registry
	logger   *slog.Logger
}

func NewAuthorizer(registry *Registry, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		registry: registry,
		logger:   logger,
	}
}

func (a *Authorizer) writeUnauthorized(w http.ResponseWriter) {
	writeAppError(w, errors.ErrInvalidToken)
}

func (a *Authorizer) writeForbidden(w http.ResponseWriter) {
	writeAppError(w, errors.ErrForbidden)
}

func writeAppError(w http.ResponseWriter, appErr *errors.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// RequireRole admits only principals whose role is in the allow-list.
func (a *Authorizer) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				a.logger.Warn("role check failed: no principal in context")
				a.writeUnauthorized(w)
				return
			}

			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			a.logger.WarnContext(r.Context(), "access denied: role not allowed",
				"user_id", principal.UserID,
				"role", principal.Role,
				"allowed_roles", roles)
			a.writeForbidden(w)
		})
	}
}

// RequirePermission admits principals whose role holds the (module, action)
// grant in the registry.
func (a *Authorizer) RequirePermission(module string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				a.logger.Warn("permission check failed: no principal in context")
				a.writeUnauthorized(w)
				return
			}

			if !a.registry.HasPermission(principal.Role, module, action) {
				a.logger.WarnContext(r.Context(), "access denied: missing permission",
					"user_id", principal.UserID,
					"role", principal.Role,
					"module", module,
					"action", action)
				a.writeForbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission admits principals holding at least one of the listed
// grants.
func (a *Authorizer) RequireAnyPermission(grants ...ModuleAction) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				a.logger.Warn("permission check failed: no principal in context")
				a.writeUnauthorized(w)
				return
			}

			for _, grant := range grants {
				if a.registry.HasPermission(principal.Role, grant.Module, grant.Action) {
					next.ServeHTTP(w, r)
					return
				}
			}

			a.logger.WarnContext(r.Context(), "access denied: none of the required permissions held",
				"user_id", principal.UserID,
				"role", principal.Role)
			a.writeForbidden(w)
		})
	}
}

// RequireSelfOrPermission admits the owner of the resource (URL {id} equal to
// the principal's subject id) without consulting the registry, and everyone
// else only via the (module, action) grant. The two conditions are checked
// separately so each stays independently testable.
func (a *Authorizer) RequireSelfOrPermission(module string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				a.logger.Warn("self-or-permission check failed: no principal in context")
				a.writeUnauthorized(w)
				return
			}

			resourceID := chi.URLParam(r, "id")
			if resourceID != "" && resourceID == principal.UserID {
				next.ServeHTTP(w, r)
				return
			}

			if a.registry.HasPermission(principal.Role, module, action) {
				next.ServeHTTP(w, r)
				return
			}

			a.logger.WarnContext(r.Context(), "access denied: not owner and missing permission",
				"user_id", principal.UserID,
				"role", principal.Role,
				"resource_id", resourceID,
				"module", module,
				"action", action)
			a.writeForbidden(w)
		})
	}
}
