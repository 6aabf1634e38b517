package activity

import (
	"net/http"
	"strconv"
	"strings"

	"dentastock/frontend/shared/context"
	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/sqlite"
)

// ActivityQueryHandler returns the recent activity feed, optionally filtered
// by ?room_id=.
func ActivityQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}

		var roomID int64
		if raw := strings.TrimSpace(r.URL.Query().Get("room_id")); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				respond.Error(w, http.StatusBadRequest, "invalid room_id")
				return
			}
			roomID = id
		}

		entries, err := ListRecent(r.Context(), db, session.UserID, roomID)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to load activity")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"logs": entries})
	}
}
