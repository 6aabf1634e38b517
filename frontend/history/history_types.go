package history

import "dentastock/models"

// Filter narrows the purchase log. Zero values mean "no filter".
type Filter struct {
	Category string
	Vendor   string
	Search   string
}

// MonthGroup holds one calendar month of purchases, newest month first in
// PageData.Months.
type MonthGroup struct {
	Label   string                 `json:"label"`
	Entries []models.PurchaseEntry `json:"entries"`
}

type PageData struct {
	Months  []MonthGroup `json:"months"`
	Vendors []string     `json:"vendors"`
	Total   int          `json:"total"`
}
