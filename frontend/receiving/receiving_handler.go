package receiving

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"net/http"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/go-chi/chi/v5"

	"dentastock/frontend/inventory"
	"dentastock/frontend/shared/context"
	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/audit"
	"dentastock/infrastructure/sqlite"
)

// ReceiveCommandHandler records a delivery line posted against a room.
func ReceiveCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		roomID, err := strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
		if err != nil || roomID <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid room id")
			return
		}

		var input ReceiveInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid body")
			return
		}
		input.RoomID = roomID

		item, err := ReceiveStock(r.Context(), db, auditSvc, session.UserID, input)
		if err != nil {
			if inventory.IsNotFound(err) {
				respond.Error(w, http.StatusNotFound, "room not found")
				return
			}
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, item)
	}
}

// IntakeQRHandler renders a QR code PNG pointing at the room's intake form,
// for printing next to the storage location.
func IntakeQRHandler(baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
		if err != nil || roomID <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid room id")
			return
		}

		target := fmt.Sprintf("%s/app/rooms/%d/receive", strings.TrimRight(baseURL, "/"), roomID)
		qrPNG, err := renderQRPNG(target, 512)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to render QR code")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="room-%d-intake.png"`, roomID))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(qrPNG)
	}
}

func renderQRPNG(value string, size int) ([]byte, error) {
	code, err := qr.Encode(value, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var buf bytes.Buffer
	if err := png.Encode(&buf, normalized); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
