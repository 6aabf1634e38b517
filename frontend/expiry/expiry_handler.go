package expiry

import (
	"net/http"

	"dentastock/frontend/shared/context"
	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/sqlite"
)

func ExpiryQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		data, err := LoadPageData(r.Context(), db, session.UserID)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to load expiry report")
			return
		}
		respond.JSON(w, http.StatusOK, data)
	}
}
