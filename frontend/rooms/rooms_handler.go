package rooms

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dentastock/frontend/inventory"
	"dentastock/frontend/shared/context"
	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/audit"
	"dentastock/infrastructure/sqlite"
)

// RoomsQueryHandler returns the floor plan: all rooms with their contents.
func RoomsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		data, err := LoadPageData(r.Context(), db, session.UserID)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to load rooms")
			return
		}
		respond.JSON(w, http.StatusOK, data)
	}
}

type createRoomRequest struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func CreateRoomCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid body")
			return
		}
		room, err := CreateRoom(r.Context(), db, auditSvc, session.UserID, req.Name, req.X, req.Y)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to create room")
			return
		}
		respond.JSON(w, http.StatusCreated, room)
	}
}

type renameRoomRequest struct {
	Name string `json:"name"`
}

func RenameRoomCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		roomID, err := parseRoomID(r)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid room id")
			return
		}
		var req renameRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid body")
			return
		}
		if err := RenameRoom(r.Context(), db, auditSvc, session.UserID, roomID, req.Name); err != nil {
			if inventory.IsNotFound(err) {
				respond.Error(w, http.StatusNotFound, "room not found")
				return
			}
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"renamed": true})
	}
}

type moveRoomRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func MoveRoomCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		roomID, err := parseRoomID(r)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid room id")
			return
		}
		var req moveRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid body")
			return
		}
		if err := MoveRoom(r.Context(), db, session.UserID, roomID, req.X, req.Y); err != nil {
			if inventory.IsNotFound(err) {
				respond.Error(w, http.StatusNotFound, "room not found")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "failed to move room")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"moved": true})
	}
}

func DeleteRoomCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		roomID, err := parseRoomID(r)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid room id")
			return
		}
		if err := DeleteRoom(r.Context(), db, auditSvc, session.UserID, roomID); err != nil {
			if inventory.IsNotFound(err) {
				respond.Error(w, http.StatusNotFound, "room not found")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "failed to delete room")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

// BlueprintPresetsQueryHandler lists the bundled floor-plan presets.
func BlueprintPresetsQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]any{"presets": BlueprintPresets})
	}
}

type setBlueprintRequest struct {
	URL string `json:"url"`
}

func SetBlueprintCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		var req setBlueprintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid body")
			return
		}
		url, err := SetBlueprint(r.Context(), db, session.UserID, req.URL)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"blueprintUrl": url})
	}
}

func parseRoomID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
}
