// Package analytics aggregates purchase history into the spend reports shown
// on the analytics screen. The aggregation itself is pure so it can be tested
// without a database.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dentastock/models"
)

const topRows = 5

// ComputePeriodStats aggregates one month of purchases. Entries are assumed
// to already be scoped to the month; the filter narrows them further.
func ComputePeriodStats(month string, entries []models.PurchaseEntry, filter Filter) PeriodStats {
	entries = applyFilter(entries, filter)

	stats := PeriodStats{
		Month:       month,
		TotalSpend:  decimal.Zero,
		ByCategory:  make([]BreakdownRow, 0),
		ByVendor:    make([]BreakdownRow, 0),
		ByProduct:   make([]BreakdownRow, 0),
		Reorders:    make([]ReorderRow, 0),
		DailySeries: buildDailySeries(month, entries),
	}
	for _, e := range entries {
		stats.TotalSpend = stats.TotalSpend.Add(e.TotalPrice)
		stats.TotalQty += e.Qty
	}
	stats.OrderCount = len(entries)

	stats.ByCategory = buildBreakdown(entries, stats.TotalSpend, func(e models.PurchaseEntry) string {
		return strings.ToUpper(e.Category)
	})
	stats.ByVendor = buildBreakdown(entries, stats.TotalSpend, func(e models.PurchaseEntry) string {
		if e.Vendor == "" {
			return "Unknown"
		}
		return e.Vendor
	})
	stats.ByProduct = buildBreakdown(entries, stats.TotalSpend, func(e models.PurchaseEntry) string {
		return e.ProductName
	})
	stats.Reorders = buildReorders(entries)
	stats.ReorderCnt = len(stats.Reorders)
	return stats
}

func applyFilter(entries []models.PurchaseEntry, filter Filter) []models.PurchaseEntry {
	if filter.Category == "" && filter.Vendor == "" {
		return entries
	}
	out := make([]models.PurchaseEntry, 0, len(entries))
	for _, e := range entries {
		if filter.Category != "" && !strings.EqualFold(e.Category, filter.Category) {
			continue
		}
		if filter.Vendor != "" && !strings.EqualFold(e.Vendor, filter.Vendor) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// buildBreakdown totals spend per key, keeps the five largest rows and folds
// the rest into "Others". Percentages are shares of the period total, one
// decimal place.
func buildBreakdown(entries []models.PurchaseEntry, total decimal.Decimal, key func(models.PurchaseEntry) string) []BreakdownRow {
	amounts := make(map[string]decimal.Decimal)
	qtys := make(map[string]int)
	order := make([]string, 0)
	for _, e := range entries {
		k := key(e)
		if _, seen := amounts[k]; !seen {
			order = append(order, k)
		}
		amounts[k] = amounts[k].Add(e.TotalPrice)
		qtys[k] += e.Qty
	}

	rows := make([]BreakdownRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, BreakdownRow{Label: k, Amount: amounts[k], Qty: qtys[k]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount.GreaterThan(rows[j].Amount)
	})

	if len(rows) > topRows {
		others := BreakdownRow{Label: "Others", Amount: decimal.Zero}
		for _, row := range rows[topRows:] {
			others.Amount = others.Amount.Add(row.Amount)
			others.Qty += row.Qty
		}
		rows = append(rows[:topRows:topRows], others)
	}

	for i := range rows {
		rows[i].Percent = percentOf(rows[i].Amount, total)
	}
	return rows
}

func percentOf(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	pct, _ := part.Div(total).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	return pct
}

// buildReorders lists products delivered more than once in the period,
// most-reordered first.
func buildReorders(entries []models.PurchaseEntry) []ReorderRow {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, e := range entries {
		if _, seen := counts[e.ProductName]; !seen {
			order = append(order, e.ProductName)
		}
		counts[e.ProductName]++
	}

	rows := make([]ReorderRow, 0)
	for _, product := range order {
		if counts[product] >= 2 {
			rows = append(rows, ReorderRow{Product: product, Orders: counts[product]})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Orders > rows[j].Orders })
	if len(rows) > topRows {
		rows = rows[:topRows]
	}
	return rows
}

// buildDailySeries returns one point per calendar day of the month, zero for
// days without purchases.
func buildDailySeries(month string, entries []models.PurchaseEntry) []DailyPoint {
	start, err := time.Parse(MonthKey, month)
	if err != nil {
		return []DailyPoint{}
	}
	days := start.AddDate(0, 1, -1).Day()

	series := make([]DailyPoint, days)
	for i := range series {
		series[i] = DailyPoint{Day: i + 1, Amount: decimal.Zero}
	}
	for _, e := range entries {
		day := e.Timestamp.Day()
		if day < 1 || day > days {
			continue
		}
		series[day-1].Amount = series[day-1].Amount.Add(e.TotalPrice)
	}
	return series
}
