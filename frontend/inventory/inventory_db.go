package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"dentastock/frontend/activity"
	"dentastock/infrastructure/audit"
	"dentastock/infrastructure/sqlite"
	"dentastock/models"
	"dentastock/stock"
)

// LoadItemTx loads an item with its batch list inside a transaction,
// verifying the room belongs to the user.
func LoadItemTx(ctx context.Context, tx bun.Tx, userID, roomID, itemID int64) (models.Item, string, error) {
	var roomName string
	if err := tx.NewRaw(`SELECT name FROM rooms WHERE id = ? AND user_id = ?`, roomID, userID).Scan(ctx, &roomName); err != nil {
		return models.Item{}, "", err
	}

	var item models.Item
	err := tx.NewSelect().
		Model(&item).
		Relation("Batches", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("position ASC")
		}).
		Where("i.id = ?", itemID).
		Where("i.room_id = ?", roomID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return models.Item{}, "", err
	}
	return item, roomName, nil
}

// ToStockItem projects a stored item onto the reconciliation model.
func ToStockItem(item models.Item) stock.Item {
	batches := make([]stock.Batch, 0, len(item.Batches))
	for _, b := range item.Batches {
		batches = append(batches, stock.Batch{Qty: b.Qty, UnitPrice: b.UnitPrice, ExpiryDate: b.Expiry})
	}
	return stock.Item{
		ID:          item.ID,
		Name:        item.Name,
		Brand:       item.Brand,
		Code:        item.Code,
		Vendor:      item.Vendor,
		Category:    stock.Category(item.Category),
		UOM:         stock.UOM(item.UOM),
		Description: item.Description,
		Quantity:    item.Quantity,
		Price:       item.Price,
		ExpiryDate:  item.ExpiryDate,
		Batches:     batches,
	}
}

// SaveItemTx writes a reconciled item back: derived columns on the item row,
// and the batch list replaced wholesale so positions stay dense.
func SaveItemTx(ctx context.Context, tx bun.Tx, itemID int64, reconciled stock.Item) error {
	_, err := tx.NewUpdate().
		Model((*models.Item)(nil)).
		Set("quantity = ?", reconciled.Quantity).
		Set("price = ?", reconciled.Price).
		Set("expiry_date = ?", reconciled.ExpiryDate).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", itemID).
		Exec(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.NewDelete().Model((*models.ItemBatch)(nil)).Where("item_id = ?", itemID).Exec(ctx); err != nil {
		return err
	}
	for pos, b := range reconciled.Batches {
		row := &models.ItemBatch{ItemID: itemID, Position: pos, Qty: b.Qty, UnitPrice: b.UnitPrice, Expiry: b.ExpiryDate}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// AdjustItemQty applies a whole-item quantity delta through the depletion
// resolver. An activity entry is recorded only when the quantity actually
// changed.
func AdjustItemQty(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID, roomID, itemID int64, delta int) (stock.Item, error) {
	var result stock.Item
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		item, roomName, err := LoadItemTx(ctx, tx, userID, roomID, itemID)
		if err != nil {
			return err
		}

		before := ToStockItem(item)
		result = stock.ApplyDelta(before, delta)
		if err := SaveItemTx(ctx, tx, itemID, result); err != nil {
			return err
		}

		if result.Quantity != item.Quantity {
			details := fmt.Sprintf("Adjusted qty of %q to %d", item.Name, result.Quantity)
			if err := activity.Record(ctx, tx, userID, roomID, roomName, models.ActionEdit, details); err != nil {
				return err
			}
		}
		if auditSvc != nil {
			if err := auditSvc.Write(ctx, tx, userID, "item.adjust", "items", fmt.Sprintf("%d", itemID), before, result); err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

// AdjustBatchQty applies a delta to one batch by its position index.
func AdjustBatchQty(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID, roomID, itemID int64, batchIndex, delta int) (stock.Item, error) {
	var result stock.Item
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		item, roomName, err := LoadItemTx(ctx, tx, userID, roomID, itemID)
		if err != nil {
			return err
		}

		before := ToStockItem(item)
		result = stock.ApplyBatchDelta(before, batchIndex, delta)
		if err := SaveItemTx(ctx, tx, itemID, result); err != nil {
			return err
		}

		if result.Quantity != item.Quantity {
			details := fmt.Sprintf("Adjusted batch %d of %q to %d total", batchIndex+1, item.Name, result.Quantity)
			if err := activity.Record(ctx, tx, userID, roomID, roomName, models.ActionEdit, details); err != nil {
				return err
			}
		}
		if auditSvc != nil {
			if err := auditSvc.Write(ctx, tx, userID, "item.adjust_batch", "items", fmt.Sprintf("%d", itemID), before, result); err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

// DeleteItem removes an item and its batches. Deletion is explicit and
// independent of the remaining quantity.
func DeleteItem(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID, roomID, itemID int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		item, roomName, err := LoadItemTx(ctx, tx, userID, roomID, itemID)
		if err != nil {
			return err
		}

		if _, err := tx.NewDelete().Model((*models.ItemBatch)(nil)).Where("item_id = ?", itemID).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.Item)(nil)).Where("id = ?", itemID).Exec(ctx); err != nil {
			return err
		}

		details := fmt.Sprintf("Deleted %q", item.Name)
		if err := activity.Record(ctx, tx, userID, roomID, roomName, models.ActionDelete, details); err != nil {
			return err
		}
		if auditSvc != nil {
			if err := auditSvc.Write(ctx, tx, userID, "item.delete", "items", fmt.Sprintf("%d", itemID), item, nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// TransferItem moves an item wholesale to another room, batches intact.
func TransferItem(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID, fromRoomID, toRoomID, itemID int64) error {
	if fromRoomID == toRoomID {
		return errors.New("source and destination rooms are the same")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		item, fromName, err := LoadItemTx(ctx, tx, userID, fromRoomID, itemID)
		if err != nil {
			return err
		}
		var toName string
		if err := tx.NewRaw(`SELECT name FROM rooms WHERE id = ? AND user_id = ?`, toRoomID, userID).Scan(ctx, &toName); err != nil {
			return err
		}

		if _, err := tx.NewUpdate().
			Model((*models.Item)(nil)).
			Set("room_id = ?", toRoomID).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", itemID).
			Exec(ctx); err != nil {
			return err
		}

		out := fmt.Sprintf("Transferred %q to %s", item.Name, toName)
		if err := activity.Record(ctx, tx, userID, fromRoomID, fromName, models.ActionTransferOut, out); err != nil {
			return err
		}
		in := fmt.Sprintf("Received %q from %s", item.Name, fromName)
		if err := activity.Record(ctx, tx, userID, toRoomID, toName, models.ActionTransferIn, in); err != nil {
			return err
		}
		if auditSvc != nil {
			if err := auditSvc.Write(ctx, tx, userID, "item.transfer", "items", fmt.Sprintf("%d", itemID),
				map[string]int64{"room_id": fromRoomID}, map[string]int64{"room_id": toRoomID}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListMaster returns the flattened inventory across all of a user's rooms,
// filtered by a free-text search over name, brand, code and room name.
func ListMaster(ctx context.Context, db *sqlite.DB, userID int64, search string) (MasterListData, error) {
	data := MasterListData{Items: make([]ItemView, 0), ByCategory: make(map[string][]ItemView)}

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
			OrderExpr("i.name COLLATE NOCASE ASC").
			Scan(ctx)
	})
	if err != nil {
		return data, err
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	for _, item := range items {
		roomName := roomNames[item.RoomID]
		if needle != "" && !matchesSearch(item, roomName, needle) {
			continue
		}
		view := ItemView{Item: stock.Normalize(ToStockItem(item)), RoomID: item.RoomID, RoomName: roomName}
		data.Items = append(data.Items, view)
		cat := strings.ToUpper(item.Category)
		data.ByCategory[cat] = append(data.ByCategory[cat], view)
	}
	return data, nil
}

func matchesSearch(item models.Item, roomName, needle string) bool {
	for _, field := range []string{item.Name, item.Brand, item.Code, roomName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

var errInvalidID = errors.New("invalid id")

// IsNotFound reports whether err means the room or item does not exist (or is
// not owned by the caller).
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
