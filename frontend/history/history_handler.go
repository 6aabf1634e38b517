package history

import (
	"net/http"

	"dentastock/frontend/shared/context"
	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/sqlite"
)

// HistoryQueryHandler returns the purchase log, filtered by the optional
// ?category=, ?vendor= and ?q= query parameters.
func HistoryQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		filter := Filter{
			Category: r.URL.Query().Get("category"),
			Vendor:   r.URL.Query().Get("vendor"),
			Search:   r.URL.Query().Get("q"),
		}
		data, err := LoadPageData(r.Context(), db, session.UserID, filter)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to load history")
			return
		}
		respond.JSON(w, http.StatusOK, data)
	}
}
