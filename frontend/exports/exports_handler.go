package exports

import (
	"net/http"
	"time"

	"dentastock/frontend/shared/context"
	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/sqlite"
)

// InventoryCSVHandler streams the caller's full inventory as CSV.
func InventoryCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=inventory.csv")
		if err := writeInventoryCSV(r.Context(), db, w, session.UserID); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
	}
}

// HistoryCSVHandler streams the caller's purchase history as CSV.
func HistoryCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=purchase-history.csv")
		if err := writeHistoryCSV(r.Context(), db, w, session.UserID); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
	}
}

// InventoryPDFHandler renders the full inventory as a printable PDF table.
func InventoryPDFHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no session")
			return
		}
		rows, err := loadInventoryRows(r.Context(), db, session.UserID)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to load inventory")
			return
		}
		pdfBytes, err := renderInventoryPDF(rows, session.User.CompanyName, time.Now())
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to render pdf")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=inventory.pdf")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdfBytes)
	}
}
