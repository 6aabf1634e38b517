package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"dentastock/models"
)

func entry(product, vendor, category, total string, qty, day int) models.PurchaseEntry {
	return models.PurchaseEntry{
		ProductName: product,
		Vendor:      vendor,
		Category:    category,
		Qty:         qty,
		TotalPrice:  decimal.RequireFromString(total),
		Timestamp:   time.Date(2026, 8, day, 10, 0, 0, 0, time.UTC),
	}
}

func TestComputePeriodStats_Totals(t *testing.T) {
	entries := []models.PurchaseEntry{
		entry("Gloves", "Henry Schein", "consumables", "20.00", 10, 3),
		entry("Carpules", "Patterson", "anesthetics", "92.50", 5, 15),
		entry("Gloves", "Henry Schein", "consumables", "40.00", 20, 28),
	}

	stats := ComputePeriodStats("2026-08", entries, Filter{})
	if stats.TotalSpend.StringFixed(2) != "152.50" {
		t.Fatalf("expected total spend 152.50, got %s", stats.TotalSpend.StringFixed(2))
	}
	if stats.TotalQty != 35 {
		t.Fatalf("expected total qty 35, got %d", stats.TotalQty)
	}
	if stats.OrderCount != 3 {
		t.Fatalf("expected 3 orders, got %d", stats.OrderCount)
	}
	if stats.ReorderCnt != 1 || stats.Reorders[0].Product != "Gloves" || stats.Reorders[0].Orders != 2 {
		t.Fatalf("unexpected reorders: %+v", stats.Reorders)
	}
}

func TestComputePeriodStats_BreakdownTopFiveFoldsOthers(t *testing.T) {
	entries := make([]models.PurchaseEntry, 0, 7)
	for i := 0; i < 7; i++ {
		amount := fmt.Sprintf("%d.00", (7-i)*10)
		entries = append(entries, entry(fmt.Sprintf("Product %d", i), fmt.Sprintf("Vendor %d", i), "consumables", amount, 1, i+1))
	}

	stats := ComputePeriodStats("2026-08", entries, Filter{})
	if len(stats.ByVendor) != 6 {
		t.Fatalf("expected 5 vendors plus Others, got %d rows", len(stats.ByVendor))
	}
	if stats.ByVendor[0].Label != "Vendor 0" {
		t.Fatalf("expected largest vendor first, got %q", stats.ByVendor[0].Label)
	}
	last := stats.ByVendor[5]
	if last.Label != "Others" {
		t.Fatalf("expected Others row last, got %q", last.Label)
	}
	// Vendors 5 and 6 contribute 20 + 10 of a 280 total.
	if last.Amount.StringFixed(2) != "30.00" {
		t.Fatalf("expected Others amount 30.00, got %s", last.Amount.StringFixed(2))
	}

	var pctSum float64
	for _, row := range stats.ByVendor {
		pctSum += row.Percent
	}
	if pctSum < 99.0 || pctSum > 101.0 {
		t.Fatalf("expected percentages to sum near 100, got %.1f", pctSum)
	}
}

func TestComputePeriodStats_FilterNarrowsEverything(t *testing.T) {
	entries := []models.PurchaseEntry{
		entry("Gloves", "Henry Schein", "consumables", "20.00", 10, 3),
		entry("Carpules", "Patterson", "anesthetics", "92.50", 5, 15),
	}

	stats := ComputePeriodStats("2026-08", entries, Filter{Vendor: "patterson"})
	if stats.OrderCount != 1 || stats.TotalSpend.StringFixed(2) != "92.50" {
		t.Fatalf("expected only the Patterson order, got %+v", stats)
	}
	if len(stats.ByCategory) != 1 || stats.ByCategory[0].Label != "ANESTHETICS" {
		t.Fatalf("unexpected category breakdown: %+v", stats.ByCategory)
	}
}

func TestBuildDailySeries_FullMonthWithZeroDays(t *testing.T) {
	entries := []models.PurchaseEntry{
		entry("Gloves", "Henry Schein", "consumables", "20.00", 10, 3),
		entry("Gloves", "Henry Schein", "consumables", "5.00", 2, 3),
		entry("Carpules", "Patterson", "anesthetics", "92.50", 5, 15),
	}

	series := buildDailySeries("2026-08", entries)
	if len(series) != 31 {
		t.Fatalf("expected 31 days for August, got %d", len(series))
	}
	if series[2].Amount.StringFixed(2) != "25.00" {
		t.Fatalf("expected day 3 amount 25.00, got %s", series[2].Amount.StringFixed(2))
	}
	if series[14].Amount.StringFixed(2) != "92.50" {
		t.Fatalf("expected day 15 amount 92.50, got %s", series[14].Amount.StringFixed(2))
	}
	if !series[0].Amount.IsZero() {
		t.Fatalf("expected zero for days without purchases")
	}

	feb := buildDailySeries("2027-02", nil)
	if len(feb) != 28 {
		t.Fatalf("expected 28 days for February 2027, got %d", len(feb))
	}
}

func TestComputePeriodStats_EmptyPeriod(t *testing.T) {
	stats := ComputePeriodStats("2026-08", nil, Filter{})
	if !stats.TotalSpend.IsZero() || stats.OrderCount != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if len(stats.ByCategory) != 0 || len(stats.DailySeries) != 31 {
		t.Fatalf("expected empty breakdowns and a full zero series")
	}
}
