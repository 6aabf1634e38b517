package analytics

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"dentastock/infrastructure/sqlite"
)

func openAnalyticsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "analytics-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	err = db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO users (id, email, password_hash, name, role)
VALUES (1, 'dentist@example.com', 'hash', 'Dr. Adams', 'clinic')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO purchase_history (id, user_id, room_id, location, product_name, brand, code, vendor, category, uom, qty, unit_price, total_price, timestamp)
VALUES
('a1', 1, 1, 'Operatory 1', 'Gloves', 'MedLine', 'GLV-100', 'Henry Schein', 'consumables', 'box', 10, '2.00', '20.00', '2026-08-03 10:00:00'),
('a2', 1, 1, 'Operatory 1', 'Carpules', 'Septodont', 'ANS-50', 'Patterson', 'anesthetics', 'pack', 5, '18.50', '92.50', '2026-08-15 10:00:00'),
('a3', 1, 1, 'Operatory 1', 'Gloves', 'MedLine', 'GLV-100', 'Henry Schein', 'consumables', 'box', 20, '2.00', '40.00', '2026-07-10 10:00:00')`)
		return err
	})
	if err != nil {
		t.Fatalf("seed data: %v", err)
	}
	return db
}

func TestLoadPageData_DefaultsToNewestMonth(t *testing.T) {
	db := openAnalyticsTestDB(t)

	data, err := LoadPageData(context.Background(), db, 1, "", "", Filter{})
	if err != nil {
		t.Fatalf("load analytics: %v", err)
	}
	if data.Mode != "single" {
		t.Fatalf("expected single mode, got %q", data.Mode)
	}
	if len(data.AvailableMonths) != 2 || data.AvailableMonths[0] != "2026-08" || data.AvailableMonths[1] != "2026-07" {
		t.Fatalf("unexpected available months: %v", data.AvailableMonths)
	}
	if data.PeriodA.Month != "2026-08" {
		t.Fatalf("expected newest month selected, got %q", data.PeriodA.Month)
	}
	if data.PeriodA.TotalSpend.StringFixed(2) != "112.50" {
		t.Fatalf("expected August spend 112.50, got %s", data.PeriodA.TotalSpend.StringFixed(2))
	}
}

func TestLoadPageData_CompareMode(t *testing.T) {
	db := openAnalyticsTestDB(t)

	data, err := LoadPageData(context.Background(), db, 1, "2026-08", "2026-07", Filter{})
	if err != nil {
		t.Fatalf("load analytics: %v", err)
	}
	if data.Mode != "compare" || data.PeriodB == nil {
		t.Fatalf("expected compare mode with a second period")
	}
	if data.PeriodB.TotalSpend.StringFixed(2) != "40.00" {
		t.Fatalf("expected July spend 40.00, got %s", data.PeriodB.TotalSpend.StringFixed(2))
	}
}

func TestLoadPageData_RejectsMalformedMonth(t *testing.T) {
	db := openAnalyticsTestDB(t)

	if _, err := LoadPageData(context.Background(), db, 1, "August 2026", "", Filter{}); err == nil {
		t.Fatalf("expected error for malformed month")
	}
}
