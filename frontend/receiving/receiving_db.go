package receiving

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"dentastock/frontend/activity"
	"dentastock/frontend/inventory"
	"dentastock/infrastructure/audit"
	"dentastock/infrastructure/sqlite"
	"dentastock/models"
	"dentastock/stock"
)

func validateInput(input ReceiveInput) error {
	if input.RoomID <= 0 {
		return fmt.Errorf("invalid room id")
	}
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if input.Qty <= 0 {
		return fmt.Errorf("qty must be positive")
	}
	if input.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price cannot be negative")
	}
	if !stock.Category(input.Category).Valid() {
		return fmt.Errorf("unknown category: %s", input.Category)
	}
	if !stock.UOM(input.UOM).Valid() {
		return fmt.Errorf("unknown unit of measure: %s", input.UOM)
	}
	if input.ExpiryDate != nil && *input.ExpiryDate != "" {
		if _, err := time.Parse(stock.DateLayout, *input.ExpiryDate); err != nil {
			return fmt.Errorf("expiry date must be %s", stock.DateLayout)
		}
	}
	return nil
}

// ReceiveStock records an incoming delivery line. The product is matched by
// name and brand (case-insensitive) within the room; a new item row is
// created when no match exists. The delivery folds into the item's batch
// list, and a purchase history row plus a receive activity entry are written
// in the same transaction.
func ReceiveStock(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, input ReceiveInput) (stock.Item, error) {
	var result stock.Item
	if err := validateInput(input); err != nil {
		return result, err
	}

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var roomName string
		if err := tx.NewRaw(`SELECT name FROM rooms WHERE id = ? AND user_id = ?`, input.RoomID, userID).Scan(ctx, &roomName); err != nil {
			return err
		}

		var item models.Item
		err := tx.NewSelect().
			Model(&item).
			Where("i.room_id = ?", input.RoomID).
			Where("LOWER(i.name) = ?", strings.ToLower(strings.TrimSpace(input.Name))).
			Where("LOWER(COALESCE(i.brand, '')) = ?", strings.ToLower(strings.TrimSpace(input.Brand))).
			Limit(1).
			Scan(ctx)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			item = models.Item{
				RoomID:      input.RoomID,
				Name:        strings.TrimSpace(input.Name),
				Brand:       strings.TrimSpace(input.Brand),
				Code:        input.Code,
				Vendor:      input.Vendor,
				Category:    input.Category,
				UOM:         input.UOM,
				Description: input.Description,
			}
			if _, err := tx.NewInsert().Model(&item).Exec(ctx); err != nil {
				return err
			}
		} else {
			err := tx.NewSelect().
				Model(&item.Batches).
				Where("item_id = ?", item.ID).
				OrderExpr("position ASC").
				Scan(ctx)
			if err != nil {
				return err
			}
			// A restock refreshes the sourcing metadata when the caller
			// supplies it.
			if err := refreshMetadata(ctx, tx, &item, input); err != nil {
				return err
			}
		}

		before := inventory.ToStockItem(item)
		result = stock.MergeReceipt(before, input.Qty, input.UnitPrice, normalizeExpiry(input.ExpiryDate))
		if err := inventory.SaveItemTx(ctx, tx, item.ID, result); err != nil {
			return err
		}

		entry := models.PurchaseEntry{
			ID:          uuid.NewString(),
			UserID:      userID,
			RoomID:      input.RoomID,
			Location:    roomName,
			ProductName: item.Name,
			Brand:       item.Brand,
			Code:        item.Code,
			Vendor:      item.Vendor,
			Category:    item.Category,
			UOM:         item.UOM,
			Qty:         input.Qty,
			UnitPrice:   input.UnitPrice,
			TotalPrice:  input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Qty))),
			ExpiryDate:  normalizeExpiry(input.ExpiryDate),
			Timestamp:   time.Now(),
		}
		if _, err := tx.NewInsert().Model(&entry).Exec(ctx); err != nil {
			return err
		}

		details := fmt.Sprintf("Received %d %s of %q [%s] @ $%s", input.Qty, item.UOM, item.Name, item.Brand, input.UnitPrice.StringFixed(2))
		if err := activity.Record(ctx, tx, userID, input.RoomID, roomName, models.ActionReceive, details); err != nil {
			return err
		}
		if auditSvc != nil {
			if err := auditSvc.Write(ctx, tx, userID, "item.receive", "items", fmt.Sprintf("%d", item.ID), before, result); err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

func refreshMetadata(ctx context.Context, tx bun.Tx, item *models.Item, input ReceiveInput) error {
	changed := false
	if input.Code != "" && input.Code != item.Code {
		item.Code = input.Code
		changed = true
	}
	if input.Vendor != "" && input.Vendor != item.Vendor {
		item.Vendor = input.Vendor
		changed = true
	}
	if input.Description != "" && input.Description != item.Description {
		item.Description = input.Description
		changed = true
	}
	if !changed {
		return nil
	}
	_, err := tx.NewUpdate().
		Model((*models.Item)(nil)).
		Set("code = ?", item.Code).
		Set("vendor = ?", item.Vendor).
		Set("description = ?", item.Description).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", item.ID).
		Exec(ctx)
	return err
}

func normalizeExpiry(expiry *string) *string {
	if expiry == nil || *expiry == "" {
		return nil
	}
	v := *expiry
	return &v
}
