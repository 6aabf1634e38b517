package analytics

import (
	"net/http"

	"dentastock/frontend/shared/context"
	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/sqlite"
)

// AnalyticsQueryHandler serves the spend report. Query parameters: ?month=
// (YYYY-MM, defaults to the most recent month with data), ?compare= for a
// second period, ?category= and ?vendor= to narrow.
func AnalyticsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		q := r.URL.Query()
		filter := Filter{Category: q.Get("category"), Vendor: q.Get("vendor")}
		data, err := LoadPageData(r.Context(), db, session.UserID, q.Get("month"), q.Get("compare"), filter)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, data)
	}
}
