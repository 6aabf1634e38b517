package profile

import (
	"encoding/json"
	"net/http"

	"dentastock/frontend/shared/context"
	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/sqlite"
)

func ProfileQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		view, err := Load(r.Context(), db, session.UserID)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to load profile")
			return
		}
		respond.JSON(w, http.StatusOK, view)
	}
}

func UpdateProfileCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		var input UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid body")
			return
		}
		view, err := Update(r.Context(), db, session.UserID, input)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, view)
	}
}
