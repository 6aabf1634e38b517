package history

import (
	"context"
	"sort"
	"strings"

	"github.com/uptrace/bun"

	"dentastock/infrastructure/sqlite"
	"dentastock/models"
)

const monthLabelLayout = "January 2006"

// LoadPageData returns the user's purchase log grouped by calendar month,
// newest first, with the distinct vendor list for the filter dropdown.
func LoadPageData(ctx context.Context, db *sqlite.DB, userID int64, filter Filter) (PageData, error) {
	data := PageData{Months: make([]MonthGroup, 0), Vendors: make([]string, 0)}

	var entries []models.PurchaseEntry
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().
			Model(&entries).
			Where("user_id = ?", userID).
			OrderExpr("timestamp DESC")
		if filter.Category != "" {
			q = q.Where("LOWER(category) = ?", strings.ToLower(filter.Category))
		}
		if filter.Vendor != "" {
			q = q.Where("LOWER(COALESCE(vendor, '')) = ?", strings.ToLower(filter.Vendor))
		}
		if err := q.Scan(ctx); err != nil {
			return err
		}
		return tx.NewRaw(`
SELECT DISTINCT vendor FROM purchase_history
WHERE user_id = ? AND COALESCE(vendor, '') <> ''
ORDER BY vendor COLLATE NOCASE`, userID).Scan(ctx, &data.Vendors)
	})
	if err != nil {
		return data, err
	}

	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	filtered := entries[:0]
	for _, e := range entries {
		if needle != "" && !matchesSearch(e, needle) {
			continue
		}
		filtered = append(filtered, e)
	}

	data.Total = len(filtered)
	data.Months = groupByMonth(filtered)
	return data, nil
}

func matchesSearch(e models.PurchaseEntry, needle string) bool {
	for _, field := range []string{e.ProductName, e.Brand, e.Code, e.Vendor, e.Location} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// groupByMonth keeps the incoming newest-first order within each group and
// orders groups by their newest entry.
func groupByMonth(entries []models.PurchaseEntry) []MonthGroup {
	byLabel := make(map[string]*MonthGroup)
	order := make([]string, 0)
	for _, e := range entries {
		label := e.Timestamp.Format(monthLabelLayout)
		group, ok := byLabel[label]
		if !ok {
			group = &MonthGroup{Label: label, Entries: make([]models.PurchaseEntry, 0)}
			byLabel[label] = group
			order = append(order, label)
		}
		group.Entries = append(group.Entries, e)
	}

	groups := make([]MonthGroup, 0, len(order))
	for _, label := range order {
		groups = append(groups, *byLabel[label])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Entries[0].Timestamp.After(groups[j].Entries[0].Timestamp)
	})
	return groups
}
