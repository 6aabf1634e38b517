package rooms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"dentastock/frontend/activity"
	"dentastock/frontend/inventory"
	"dentastock/infrastructure/audit"
	"dentastock/infrastructure/sqlite"
	"dentastock/models"
	"dentastock/stock"
)

// LoadPageData returns all of the user's rooms with their normalized
// contents, plus the active blueprint URL.
func LoadPageData(ctx context.Context, db *sqlite.DB, userID int64) (PageData, error) {
	data := PageData{Rooms: make([]RoomView, 0)}

	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var rooms []models.Room
		if err := tx.NewSelect().
			Model(&rooms).
			Where("user_id = ?", userID).
			OrderExpr("id ASC").
			Scan(ctx); err != nil {
			return err
		}

		for _, room := range rooms {
			var items []models.Item
			if err := tx.NewSelect().
				Model(&items).
				Relation("Batches", func(q *bun.SelectQuery) *bun.SelectQuery {
					return q.OrderExpr("position ASC")
				}).
				Where("i.room_id = ?", room.ID).
				OrderExpr("i.name COLLATE NOCASE ASC").
				Scan(ctx); err != nil {
				return err
			}

			view := RoomView{ID: room.ID, Name: room.Name, X: room.X, Y: room.Y, Items: make([]stock.Item, 0, len(items))}
			for _, item := range items {
				view.Items = append(view.Items, stock.Normalize(inventory.ToStockItem(item)))
			}
			data.Rooms = append(data.Rooms, view)
		}

		var bp models.Blueprint
		err := tx.NewSelect().Model(&bp).Where("user_id = ?", userID).Limit(1).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		data.BlueprintURL = bp.URL
		return nil
	})
	return data, err
}

// CreateRoom adds a room at the given floor-plan position.
func CreateRoom(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, name string, x, y float64) (models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultRoomName
	}
	room := models.Room{UserID: userID, Name: name, X: x, Y: y}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&room).Exec(ctx); err != nil {
			return err
		}
		details := fmt.Sprintf("Added room %q", room.Name)
		if err := activity.Record(ctx, tx, userID, room.ID, room.Name, models.ActionAdd, details); err != nil {
			return err
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, userID, "room.create", "rooms", fmt.Sprintf("%d", room.ID), nil, room)
		}
		return nil
	})
	return room, err
}

// RenameRoom updates a room's display name.
func RenameRoom(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID, roomID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("room name is required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var oldName string
		if err := tx.NewRaw(`SELECT name FROM rooms WHERE id = ? AND user_id = ?`, roomID, userID).Scan(ctx, &oldName); err != nil {
			return err
		}
		if _, err := tx.NewUpdate().
			Model((*models.Room)(nil)).
			Set("name = ?", name).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", roomID).
			Exec(ctx); err != nil {
			return err
		}
		details := fmt.Sprintf("Renamed room %q to %q", oldName, name)
		if err := activity.Record(ctx, tx, userID, roomID, name, models.ActionEdit, details); err != nil {
			return err
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, userID, "room.rename", "rooms", fmt.Sprintf("%d", roomID),
				map[string]string{"name": oldName}, map[string]string{"name": name})
		}
		return nil
	})
}

// MoveRoom repositions a room on the floor plan. Position edits are frequent
// drag-and-drop events so they skip the activity feed.
func MoveRoom(ctx context.Context, db *sqlite.DB, userID, roomID int64, x, y float64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Room)(nil)).
			Set("x = ?", x).
			Set("y = ?", y).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", roomID).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

// DeleteRoom removes a room and everything stored in it.
func DeleteRoom(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID, roomID int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var name string
		if err := tx.NewRaw(`SELECT name FROM rooms WHERE id = ? AND user_id = ?`, roomID, userID).Scan(ctx, &name); err != nil {
			return err
		}
		if _, err := tx.NewRaw(`DELETE FROM item_batches WHERE item_id IN (SELECT id FROM items WHERE room_id = ?)`, roomID).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.Item)(nil)).Where("room_id = ?", roomID).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.Room)(nil)).Where("id = ?", roomID).Exec(ctx); err != nil {
			return err
		}
		details := fmt.Sprintf("Removed room %q", name)
		if err := activity.Record(ctx, tx, userID, roomID, name, models.ActionRemove, details); err != nil {
			return err
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, userID, "room.delete", "rooms", fmt.Sprintf("%d", roomID),
				map[string]string{"name": name}, nil)
		}
		return nil
	})
}

// SetBlueprint stores the user's floor-plan image URL. Preset ids are
// resolved to their bundled URLs.
func SetBlueprint(ctx context.Context, db *sqlite.DB, userID int64, urlOrPreset string) (string, error) {
	url := strings.TrimSpace(urlOrPreset)
	if url == "" {
		return "", fmt.Errorf("blueprint url is required")
	}
	for _, preset := range BlueprintPresets {
		if preset.ID == url {
			url = preset.URL
			break
		}
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		bp := models.Blueprint{UserID: userID, URL: url}
		_, err := tx.NewInsert().
			Model(&bp).
			On("CONFLICT (user_id) DO UPDATE").
			Set("url = EXCLUDED.url").
			Set("updated_at = CURRENT_TIMESTAMP").
			Exec(ctx)
		return err
	})
	return url, err
}
