package inventory

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dentastock/frontend/shared/context"
	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/audit"
	"dentastock/infrastructure/sqlite"
)

// MasterListQueryHandler returns the flattened inventory, filtered by ?q=.
func MasterListQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		data, err := ListMaster(r.Context(), db, session.UserID, r.URL.Query().Get("q"))
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to load inventory")
			return
		}
		respond.JSON(w, http.StatusOK, data)
	}
}

type adjustRequest struct {
	Delta      int  `json:"delta"`
	BatchIndex *int `json:"batchIndex"`
}

// AdjustQtyCommandHandler applies a +/- adjustment to an item, either
// whole-item or targeted at one batch when batchIndex is given.
func AdjustQtyCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		roomID, itemID, err := parseRoomItemIDs(r)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		var req adjustRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid body")
			return
		}
		if req.Delta == 0 {
			respond.Error(w, http.StatusBadRequest, "delta must be non-zero")
			return
		}

		var result any
		if req.BatchIndex != nil {
			result, err = AdjustBatchQty(r.Context(), db, auditSvc, session.UserID, roomID, itemID, *req.BatchIndex, req.Delta)
		} else {
			result, err = AdjustItemQty(r.Context(), db, auditSvc, session.UserID, roomID, itemID, req.Delta)
		}
		if err != nil {
			if IsNotFound(err) {
				respond.Error(w, http.StatusNotFound, "item not found")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "failed to adjust quantity")
			return
		}
		respond.JSON(w, http.StatusOK, result)
	}
}

// DeleteItemCommandHandler removes an item from a room.
func DeleteItemCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		roomID, itemID, err := parseRoomItemIDs(r)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := DeleteItem(r.Context(), db, auditSvc, session.UserID, roomID, itemID); err != nil {
			if IsNotFound(err) {
				respond.Error(w, http.StatusNotFound, "item not found")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "failed to delete item")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

type transferRequest struct {
	ToRoomID int64 `json:"toRoomId"`
}

// TransferItemCommandHandler moves an item to another room.
func TransferItemCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		roomID, itemID, err := parseRoomItemIDs(r)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		var req transferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ToRoomID <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid destination room")
			return
		}

		if err := TransferItem(r.Context(), db, auditSvc, session.UserID, roomID, req.ToRoomID, itemID); err != nil {
			if IsNotFound(err) {
				respond.Error(w, http.StatusNotFound, "room or item not found")
				return
			}
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"transferred": true})
	}
}

func parseRoomItemIDs(r *http.Request) (roomID, itemID int64, err error) {
	roomID, err = strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
	if err != nil || roomID <= 0 {
		return 0, 0, errInvalidID
	}
	itemID, err = strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil || itemID <= 0 {
		return 0, 0, errInvalidID
	}
	return roomID, itemID, nil
}
