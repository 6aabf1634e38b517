// Package stock implements batch-aware inventory reconciliation: receipts fold
// into per-lot batches keyed by expiry date, and every mutation recomputes the
// item's derived quantity, weighted-average price and earliest-expiry rollup.
package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical expiry-date representation used throughout the
// item model. Merge-key comparison is exact string equality on this format.
const DateLayout = "2006-01-02"

// Category classifies an item. Closed enumeration.
type Category string

const (
	CategoryConsumables Category = "consumables"
	CategoryEquipment   Category = "equipment"
	CategoryInstruments Category = "instruments"
	CategoryMaterials   Category = "materials"
	CategoryMedication  Category = "medication"
	CategoryPPE         Category = "ppe"
	CategoryOther       Category = "other"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryConsumables,
		CategoryEquipment,
		CategoryInstruments,
		CategoryMaterials,
		CategoryMedication,
		CategoryPPE,
		CategoryOther,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// UOM is the unit of measure an item is counted in. Closed enumeration.
type UOM string

const (
	UOMPieces UOM = "pcs"
	UOMBox    UOM = "box"
	UOMUnit   UOM = "unit"
	UOMKit    UOM = "kit"
)

// UOMs lists all valid units of measure.
func UOMs() []UOM {
	return []UOM{UOMPieces, UOMBox, UOMUnit, UOMKit}
}

// Valid reports whether u is a known unit of measure.
func (u UOM) Valid() bool {
	for _, known := range UOMs() {
		if u == known {
			return true
		}
	}
	return false
}

// Batch is one receiving lot: a sub-quantity received at a specific price,
// optionally carrying an expiry date. A nil ExpiryDate means "no expiry
// tracked" and is itself a valid merge key.
type Batch struct {
	Qty        int             `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	ExpiryDate *string         `json:"expiryDate"`
}

// Item is a distinct product held at one storage location. Quantity, Price and
// ExpiryDate are derived from Batches and must never be treated as the source
// of truth once a batch list exists.
type Item struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Code        string          `json:"code"`
	Vendor      string          `json:"vendor"`
	Category    Category        `json:"category"`
	UOM         UOM             `json:"uom"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ExpiryDate  *string         `json:"expiryDate"`
	Batches     []Batch         `json:"batches"`
}

// Summary is the read-side projection of a batch list.
type Summary struct {
	TotalQty       int
	AvgPrice       decimal.Decimal
	EarliestExpiry *string
}

// expiryKey canonicalizes an expiry date for merge-key comparison: nil and
// empty both mean "no expiry".
func expiryKey(expiry *string) *string {
	if expiry == nil || *expiry == "" {
		return nil
	}
	v := *expiry
	return &v
}

func sameExpiry(a, b *string) bool {
	a, b = expiryKey(a), expiryKey(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// parseExpiry returns the zero time for nil or malformed dates.
func parseExpiry(expiry *string) time.Time {
	if expiry == nil {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, *expiry)
	if err != nil {
		return time.Time{}
	}
	return t
}

func cloneExpiry(expiry *string) *string {
	if expiry == nil {
		return nil
	}
	v := *expiry
	return &v
}

func cloneBatches(batches []Batch) []Batch {
	out := make([]Batch, len(batches))
	for i, b := range batches {
		out[i] = Batch{Qty: b.Qty, UnitPrice: b.UnitPrice, ExpiryDate: cloneExpiry(b.ExpiryDate)}
	}
	return out
}
