package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"dentastock/infrastructure/sqlite"
	"dentastock/models"
)

// keepLast caps the per-user activity feed.
const keepLast = 100

// Record appends an activity entry inside the caller's write transaction and
// prunes the feed beyond the retention cap.
func Record(ctx context.Context, tx bun.Tx, userID, roomID int64, roomName, action, details string) error {
	entry := &models.ActivityEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		RoomID:    roomID,
		RoomName:  roomName,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
	if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
		return err
	}

	_, err := tx.NewRaw(`
DELETE FROM activity_logs
WHERE user_id = ?
  AND id NOT IN (
    SELECT id FROM activity_logs WHERE user_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?
  )`, userID, userID, keepLast).Exec(ctx)
	return err
}

// ListRecent returns the newest entries for a user, optionally scoped to one
// room. A roomID of 0 means all rooms.
func ListRecent(ctx context.Context, db *sqlite.DB, userID, roomID int64) ([]models.ActivityEntry, error) {
	entries := make([]models.ActivityEntry, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().
			Model(&entries).
			Where("user_id = ?", userID).
			OrderExpr("timestamp DESC, id DESC").
			Limit(keepLast)
		if roomID > 0 {
			q = q.Where("room_id = ?", roomID)
		}
		return q.Scan(ctx)
	})
	return entries, err
}
