package admindashboard

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"dentastock/infrastructure/sqlite"
)

func openAdminTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "admin-test.db")
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
INSERT INTO users (id, email, password_hash, name, company_name, role)
VALUES
(1, 'admin@example.com', 'hash', 'Admin', '', 'admin'),
(2, 'a@clinic.com', 'hash', 'Dr. Adams', 'Bright Smile Dental', 'clinic'),
(3, 'b@clinic.com', 'hash', 'Dr. Baker', '', 'clinic')`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO rooms (id, user_id, name)
VALUES (1, 2, 'Operatory 1'), (2, 2, 'Sterilization'), (3, 3, 'Storage')`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO items (id, room_id, name, category, uom, quantity, price)
VALUES
(1, 1, 'Gloves', 'consumables', 'box', 10, '2.00'),
(2, 3, 'Carpules', 'anesthetics', 'pack', 4, '18.50')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO purchase_history (id, user_id, room_id, location, product_name, brand, code, vendor, category, uom, qty, unit_price, total_price, timestamp)
VALUES
('a1', 2, 1, 'Operatory 1', 'Gloves', '', '', 'Henry Schein', 'consumables', 'box', 10, '2.00', '20.00', '2026-08-15 10:00:00'),
('a2', 3, 3, 'Storage', 'Carpules', '', '', 'Patterson', 'anesthetics', 'pack', 4, '18.50', '74.00', '2026-08-16 10:00:00')`)
		return err
	})
	if err != nil {
		t.Fatalf("seed data: %v", err)
	}
	return db
}

func TestLoadPageData_StatCardsAndRollups(t *testing.T) {
	db := openAdminTestDB(t)

	data, err := LoadPageData(context.Background(), db)
	if err != nil {
		t.Fatalf("load dashboard: %v", err)
	}

	if data.Stats.ClinicCount != 2 {
		t.Fatalf("expected 2 clinics (admin excluded), got %d", data.Stats.ClinicCount)
	}
	// 10*2.00 + 4*18.50 = 94.00 inventory, 20.00 + 74.00 = 94.00 spend.
	if data.Stats.InventoryValue.StringFixed(2) != "94.00" {
		t.Fatalf("expected inventory value 94.00, got %s", data.Stats.InventoryValue.StringFixed(2))
	}
	if data.Stats.TotalSpend.StringFixed(2) != "94.00" {
		t.Fatalf("expected total spend 94.00, got %s", data.Stats.TotalSpend.StringFixed(2))
	}
	if data.Stats.OrderCount != 2 {
		t.Fatalf("expected 2 orders, got %d", data.Stats.OrderCount)
	}

	if len(data.Clinics) != 2 {
		t.Fatalf("expected 2 clinic rollups, got %d", len(data.Clinics))
	}
	adams := data.Clinics[0]
	if adams.Clinic != "Bright Smile Dental" || adams.RoomCount != 2 || adams.ItemCount != 1 {
		t.Fatalf("unexpected rollup for first clinic: %+v", adams)
	}
	// Clinics without a company name fall back to the user's name.
	baker := data.Clinics[1]
	if baker.Clinic != "Dr. Baker" {
		t.Fatalf("expected name fallback, got %q", baker.Clinic)
	}
	if baker.InventoryValue.StringFixed(2) != "74.00" {
		t.Fatalf("expected Baker inventory 74.00, got %s", baker.InventoryValue.StringFixed(2))
	}
}

func TestLoadPageData_GlobalInventoryAndOrders(t *testing.T) {
	db := openAdminTestDB(t)

	data, err := LoadPageData(context.Background(), db)
	if err != nil {
		t.Fatalf("load dashboard: %v", err)
	}
	if len(data.Inventory) != 2 {
		t.Fatalf("expected 2 global inventory rows, got %d", len(data.Inventory))
	}
	if data.Inventory[0].Clinic != "Bright Smile Dental" {
		t.Fatalf("expected clinic sort, got %q first", data.Inventory[0].Clinic)
	}
	if len(data.Orders) != 2 || data.Orders[0].ID != "a2" {
		t.Fatalf("expected newest order first, got %+v", data.Orders)
	}
	if len(data.Users) != 3 {
		t.Fatalf("expected all 3 users listed, got %d", len(data.Users))
	}
}
