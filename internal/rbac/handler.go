package rbac

import (
	"encoding/json"
	"net/http"
)

// PermissionsResponse enumerates what the caller's role may do, for
// UI-driven visibility decisions.
type PermissionsResponse struct {
	Role    Role                `json:"role"`
	Modules []string            `json:"modules"`
	Actions map[string][]Action `json:"actions"`
}

// Permissions handles GET /auth/permissions. It answers from the static
// registry only; no datastore round trip.
func (a *Authorizer) Permissions(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		a.writeUnauthorized(w)
		return
	}

	modules := a.registry.AccessibleModules(principal.Role)
	actions := make(map[string][]Action, len(modules))
	for _, module := range modules {
		actions[module] = a.registry.AllowedActions(principal.Role, module)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(PermissionsResponse{
		Role:    principal.Role,
		Modules: modules,
		Actions: actions,
	})
}
