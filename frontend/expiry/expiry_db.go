// Package expiry surfaces stock that is expired or approaching its expiry
// date so it can be used or discarded first.
package expiry

import (
	"context"
	"sort"
	"time"

	"github.com/uptrace/bun"

	"dentastock/frontend/inventory"
	"dentastock/infrastructure/sqlite"
	"dentastock/models"
	"dentastock/stock"
)

// Window is how far ahead the report looks for upcoming expiries.
const Window = 30 * 24 * time.Hour

// Alert is one batch that is expired or expiring inside the window.
type Alert struct {
	ItemID     int64  `json:"itemId"`
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	RoomID     int64  `json:"roomId"`
	RoomName   string `json:"roomName"`
	Qty        int    `json:"qty"`
	UOM        string `json:"uom"`
	ExpiryDate string `json:"expiryDate"`
	// DaysLeft is negative once the batch has expired.
	DaysLeft int `json:"daysLeft"`
}

type PageData struct {
	Expired  []Alert `json:"expired"`
	Expiring []Alert `json:"expiring"`
}

// LoadPageData scans every batch the user holds and reports the ones at or
// past their expiry horizon, soonest first.
func LoadPageData(ctx context.Context, db *sqlite.DB, userID int64) (PageData, error) {
	return loadPageDataAt(ctx, db, userID, time.Now())
}

func loadPageDataAt(ctx context.Context, db *sqlite.DB, userID int64, now time.Time) (PageData, error) {
	data := PageData{Expired: make([]Alert, 0), Expiring: make([]Alert, 0)}

	var items []models.Item
	roomNames := make(map[int64]string)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var rooms []models.Room
		if err := tx.NewSelect().Model(&rooms).Where("user_id = ?", userID).Scan(ctx); err != nil {
			return err
		}
		if len(rooms) == 0 {
			return nil
		}
		roomIDs := make([]int64, 0, len(rooms))
		for _, r := range rooms {
			roomNames[r.ID] = r.Name
			roomIDs = append(roomIDs, r.ID)
		}
		return tx.NewSelect().
			Model(&items).
			Relation("Batches", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.OrderExpr("position ASC")
			}).
			Where("i.room_id IN (?)", bun.In(roomIDs)).
			Scan(ctx)
	})
	if err != nil {
		return data, err
	}

	today := now.Truncate(24 * time.Hour)
	horizon := today.Add(Window)
	for _, item := range items {
		normalized := stock.Normalize(inventory.ToStockItem(item))
		for _, batch := range normalized.Batches {
			if batch.ExpiryDate == nil || *batch.ExpiryDate == "" {
				continue
			}
			expiry, err := time.Parse(stock.DateLayout, *batch.ExpiryDate)
			if err != nil {
				continue
			}
			if expiry.After(horizon) {
				continue
			}
			alert := Alert{
				ItemID:     item.ID,
				Name:       item.Name,
				Brand:      item.Brand,
				RoomID:     item.RoomID,
				RoomName:   roomNames[item.RoomID],
				Qty:        batch.Qty,
				UOM:        item.UOM,
				ExpiryDate: *batch.ExpiryDate,
				DaysLeft:   int(expiry.Sub(today).Hours() / 24),
			}
			if expiry.Before(today) {
				data.Expired = append(data.Expired, alert)
			} else {
				data.Expiring = append(data.Expiring, alert)
			}
		}
	}

	sort.SliceStable(data.Expired, func(i, j int) bool { return data.Expired[i].DaysLeft < data.Expired[j].DaysLeft })
	sort.SliceStable(data.Expiring, func(i, j int) bool { return data.Expiring[i].DaysLeft < data.Expiring[j].DaysLeft })
	return data, nil
}
