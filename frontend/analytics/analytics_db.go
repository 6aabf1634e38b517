package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"dentastock/infrastructure/sqlite"
	"dentastock/models"
)

// LoadPageData assembles the analytics screen for one month, or for a
// side-by-side comparison when compareMonth is set.
func LoadPageData(ctx context.Context, db *sqlite.DB, userID int64, month, compareMonth string, filter Filter) (PageData, error) {
	data := PageData{Mode: "single"}

	months, err := AvailableMonths(ctx, db, userID)
	if err != nil {
		return data, err
	}
	data.AvailableMonths = months

	if month == "" {
		if len(months) > 0 {
			month = months[0]
		} else {
			month = time.Now().Format(MonthKey)
		}
	}
	if _, err := time.Parse(MonthKey, month); err != nil {
		return data, fmt.Errorf("invalid month %q: %w", month, err)
	}

	entries, err := loadMonthEntries(ctx, db, userID, month)
	if err != nil {
		return data, err
	}
	data.PeriodA = ComputePeriodStats(month, entries, filter)

	if compareMonth != "" {
		if _, err := time.Parse(MonthKey, compareMonth); err != nil {
			return data, fmt.Errorf("invalid month %q: %w", compareMonth, err)
		}
		compareEntries, err := loadMonthEntries(ctx, db, userID, compareMonth)
		if err != nil {
			return data, err
		}
		stats := ComputePeriodStats(compareMonth, compareEntries, filter)
		data.PeriodB = &stats
		data.Mode = "compare"
	}
	return data, nil
}

// AvailableMonths lists months with at least one purchase, newest first.
func AvailableMonths(ctx context.Context, db *sqlite.DB, userID int64) ([]string, error) {
	months := make([]string, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT DISTINCT strftime('%Y-%m', timestamp) AS month
FROM purchase_history
WHERE user_id = ?
ORDER BY month DESC`, userID).Scan(ctx, &months)
	})
	return months, err
}

func loadMonthEntries(ctx context.Context, db *sqlite.DB, userID int64, month string) ([]models.PurchaseEntry, error) {
	entries := make([]models.PurchaseEntry, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&entries).
			Where("user_id = ?", userID).
			Where("strftime('%Y-%m', timestamp) = ?", month).
			OrderExpr("timestamp ASC").
			Scan(ctx)
	})
	return entries, err
}
