package exports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	"dentastock/infrastructure/sqlite"
)

type inventoryRow struct {
	Brand      string `bun:"brand"`
	Product    string `bun:"product"`
	Code       string `bun:"code"`
	Qty        int64  `bun:"qty"`
	UOM        string `bun:"uom"`
	UnitPrice  string `bun:"unit_price"`
	TotalValue string `bun:"total_value"`
	Vendor     string `bun:"vendor"`
	Category   string `bun:"category"`
	Expiry     string `bun:"expiry"`
	Location   string `bun:"location"`
}

func loadInventoryRows(ctx context.Context, db *sqlite.DB, userID int64) ([]inventoryRow, error) {
	rows := make([]inventoryRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT COALESCE(i.brand, '') AS brand,
       i.name AS product,
       COALESCE(i.code, '') AS code,
       i.quantity AS qty,
       i.uom AS uom,
       i.price AS unit_price,
       CAST(i.quantity * CAST(i.price AS REAL) AS TEXT) AS total_value,
       COALESCE(i.vendor, '') AS vendor,
       i.category AS category,
       COALESCE(i.expiry_date, '') AS expiry,
       r.name AS location
FROM items i
JOIN rooms r ON r.id = i.room_id
WHERE r.user_id = ?
ORDER BY r.name COLLATE NOCASE ASC, i.name COLLATE NOCASE ASC`, userID).Scan(ctx, &rows)
	})
	return rows, err
}

func writeInventoryCSV(ctx context.Context, db *sqlite.DB, w io.Writer, userID int64) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"brand", "product", "code", "qty", "uom", "unit_price", "total_value", "vendor", "category", "expiry", "location"}
	if err := writer.Write(header); err != nil {
		return err
	}

	rows, err := loadInventoryRows(ctx, db, userID)
	if err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Brand,
			r.Product,
			r.Code,
			toString(r.Qty),
			r.UOM,
			r.UnitPrice,
			r.TotalValue,
			r.Vendor,
			r.Category,
			r.Expiry,
			r.Location,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func writeHistoryCSV(ctx context.Context, db *sqlite.DB, w io.Writer, userID int64) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"date", "product", "brand", "code", "vendor", "category", "uom", "qty", "unit_price", "total_price", "expiry", "location"}
	if err := writer.Write(header); err != nil {
		return err
	}

	type row struct {
		Date       string `bun:"date"`
		Product    string `bun:"product"`
		Brand      string `bun:"brand"`
		Code       string `bun:"code"`
		Vendor     string `bun:"vendor"`
		Category   string `bun:"category"`
		UOM        string `bun:"uom"`
		Qty        int64  `bun:"qty"`
		UnitPrice  string `bun:"unit_price"`
		TotalPrice string `bun:"total_price"`
		Expiry     string `bun:"expiry"`
		Location   string `bun:"location"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT strftime('%Y-%m-%d', timestamp) AS date,
       product_name AS product,
       COALESCE(brand, '') AS brand,
       COALESCE(code, '') AS code,
       COALESCE(vendor, '') AS vendor,
       category,
       uom,
       qty,
       unit_price,
       total_price,
       COALESCE(expiry_date, '') AS expiry,
       location
FROM purchase_history
WHERE user_id = ?
ORDER BY timestamp DESC`, userID).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.Date,
			r.Product,
			r.Brand,
			r.Code,
			r.Vendor,
			r.Category,
			r.UOM,
			toString(r.Qty),
			r.UnitPrice,
			r.TotalPrice,
			r.Expiry,
			r.Location,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func toString(n int64) string {
	return strconv.FormatInt(n, 10)
}
