package analytics

import "github.com/shopspring/decimal"

// MonthKey is the wire format for selecting a reporting period.
const MonthKey = "2006-01"

// BreakdownRow is one slice of a spend breakdown. At most five named rows
// are returned per breakdown; the remainder folds into an "Others" row.
type BreakdownRow struct {
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
	Qty     int             `json:"qty"`
	Percent float64         `json:"percent"`
}

// ReorderRow counts how many separate deliveries a product had in the
// period. Two or more marks a reorder.
type ReorderRow struct {
	Product string `json:"product"`
	Orders  int    `json:"orders"`
}

// DailyPoint is one day of the per-day spending series.
type DailyPoint struct {
	Day    int             `json:"day"`
	Amount decimal.Decimal `json:"amount"`
}

// PeriodStats is everything the analytics screen shows for one month.
type PeriodStats struct {
	Month       string          `json:"month"`
	TotalSpend  decimal.Decimal `json:"totalSpend"`
	TotalQty    int             `json:"totalQty"`
	OrderCount  int             `json:"orderCount"`
	ReorderCnt  int             `json:"reorderCount"`
	ByCategory  []BreakdownRow  `json:"byCategory"`
	ByVendor    []BreakdownRow  `json:"byVendor"`
	ByProduct   []BreakdownRow  `json:"byProduct"`
	Reorders    []ReorderRow    `json:"reorders"`
	DailySeries []DailyPoint    `json:"dailySeries"`
}

type PageData struct {
	Mode            string       `json:"mode"`
	PeriodA         PeriodStats  `json:"periodA"`
	PeriodB         *PeriodStats `json:"periodB,omitempty"`
	AvailableMonths []string     `json:"availableMonths"`
}

// Filter narrows the daily series and breakdowns. Zero values mean all.
type Filter struct {
	Category string
	Vendor   string
}
