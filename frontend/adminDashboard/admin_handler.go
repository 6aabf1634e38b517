package admindashboard

import (
	"net/http"

	"dentastock/frontend/shared/context"
	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/rbac"
	"dentastock/infrastructure/sqlite"
)

// DashboardQueryHandler serves the cross-clinic overview. Route access is
// enforced by RBAC; the role check here is a second guard.
func DashboardQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		if !hasRole(session.UserRoles, rbac.RoleAdmin) {
			respond.Error(w, http.StatusForbidden, "admin only")
			return
		}
		data, err := LoadPageData(r.Context(), db)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to load dashboard")
			return
		}
		respond.JSON(w, http.StatusOK, data)
	}
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
