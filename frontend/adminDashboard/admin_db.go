// Package admindashboard is the admin-only view across every clinic: global
// inventory, global orders and per-clinic rollups.
package admindashboard

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"dentastock/infrastructure/sqlite"
	"dentastock/models"
)

const recentOrdersLimit = 200

// LoadPageData builds the whole dashboard in one read transaction.
func LoadPageData(ctx context.Context, db *sqlite.DB) (PageData, error) {
	data := PageData{
		Clinics:   make([]ClinicRollup, 0),
		Inventory: make([]GlobalItemView, 0),
		Orders:    make([]models.PurchaseEntry, 0),
		Users:     make([]UserView, 0),
		Stats: StatCards{
			InventoryValue: decimal.Zero,
			TotalSpend:     decimal.Zero,
		},
	}

	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`
SELECT i.id AS item_id,
       COALESCE(NULLIF(u.company_name, ''), u.name) AS clinic,
       u.id AS user_id,
       r.name AS room_name,
       i.name AS product,
       COALESCE(i.brand, '') AS brand,
       i.category AS category,
       i.uom AS uom,
       i.quantity AS qty,
       i.price AS unit_price,
       CAST(i.quantity * CAST(i.price AS REAL) AS TEXT) AS total_value
FROM items i
JOIN rooms r ON r.id = i.room_id
JOIN users u ON u.id = r.user_id
ORDER BY clinic COLLATE NOCASE ASC, i.name COLLATE NOCASE ASC`).Scan(ctx, &data.Inventory); err != nil {
			return err
		}

		if err := tx.NewSelect().
			Model(&data.Orders).
			OrderExpr("timestamp DESC").
			Limit(recentOrdersLimit).
			Scan(ctx); err != nil {
			return err
		}

		if err := tx.NewRaw(`
SELECT id, email, name, COALESCE(company_name, '') AS company_name, role
FROM users
ORDER BY id ASC`).Scan(ctx, &data.Users); err != nil {
			return err
		}

		type spendRow struct {
			UserID     int64  `bun:"user_id"`
			TotalSpend string `bun:"total_spend"`
			OrderCount int    `bun:"order_count"`
		}
		spendRows := make([]spendRow, 0)
		if err := tx.NewRaw(`
SELECT user_id,
       CAST(COALESCE(SUM(CAST(total_price AS REAL)), 0) AS TEXT) AS total_spend,
       COUNT(*) AS order_count
FROM purchase_history
GROUP BY user_id`).Scan(ctx, &spendRows); err != nil {
			return err
		}
		spendByUser := make(map[int64]spendRow, len(spendRows))
		for _, row := range spendRows {
			spendByUser[row.UserID] = row
		}

		type roomRow struct {
			UserID    int64 `bun:"user_id"`
			RoomCount int   `bun:"room_count"`
		}
		roomRows := make([]roomRow, 0)
		if err := tx.NewRaw(`
SELECT user_id, COUNT(*) AS room_count FROM rooms GROUP BY user_id`).Scan(ctx, &roomRows); err != nil {
			return err
		}
		roomsByUser := make(map[int64]int, len(roomRows))
		for _, row := range roomRows {
			roomsByUser[row.UserID] = row.RoomCount
		}

		rollups := make(map[int64]*ClinicRollup)
		order := make([]int64, 0)
		for _, u := range data.Users {
			if u.Role == "admin" {
				continue
			}
			clinic := u.CompanyName
			if clinic == "" {
				clinic = u.Name
			}
			spend := decimal.Zero
			orders := 0
			if row, ok := spendByUser[u.ID]; ok {
				spend = decimal.RequireFromString(row.TotalSpend)
				orders = row.OrderCount
			}
			rollups[u.ID] = &ClinicRollup{
				UserID:         u.ID,
				Clinic:         clinic,
				Email:          u.Email,
				RoomCount:      roomsByUser[u.ID],
				InventoryValue: decimal.Zero,
				TotalSpend:     spend,
				OrderCount:     orders,
			}
			order = append(order, u.ID)
		}
		for _, item := range data.Inventory {
			if rollup, ok := rollups[item.UserID]; ok {
				rollup.ItemCount++
				rollup.InventoryValue = rollup.InventoryValue.Add(item.TotalValue)
			}
		}
		for _, id := range order {
			data.Clinics = append(data.Clinics, *rollups[id])
		}

		data.Stats.ClinicCount = len(data.Clinics)
		for _, c := range data.Clinics {
			data.Stats.InventoryValue = data.Stats.InventoryValue.Add(c.InventoryValue)
			data.Stats.TotalSpend = data.Stats.TotalSpend.Add(c.TotalSpend)
			data.Stats.OrderCount += c.OrderCount
		}
		return nil
	})
	return data, err
}
