package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// User is an authenticated clinic account. Profile fields live on the user
// row directly; AccountType distinguishes individual practitioners from
// company-owned clinics.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Email        string    `bun:"email,unique,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Name         string    `bun:"name,notnull"`
	AccountType  string    `bun:"account_type,notnull,default:'individual'"`
	Phone        string    `bun:"phone"`
	Position     string    `bun:"position"`
	CompanyName  string    `bun:"company_name"`
	Role         string    `bun:"role,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Session is used by middleware and auth handlers.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID                string         `bun:"id,pk"`
	UserID            int64          `bun:"user_id,notnull"`
	User              User           `bun:"rel:belongs-to,join:user_id=id"`
	UserRoles         []string       `bun:"-"`
	ScreenPermissions map[string]int `bun:"-"`
	ExpiresAt         time.Time      `bun:"expires_at,notnull"`
	CreatedAt         time.Time      `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time      `bun:"updated_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Room is a named storage location placed on the clinic floor plan.
type Room struct {
	bun.BaseModel `bun:"table:rooms,alias:r"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	Name      string    `bun:"name,notnull"`
	X         float64   `bun:"x,notnull,default:0"`
	Y         float64   `bun:"y,notnull,default:0"`
	Items     []Item    `bun:"rel:has-many,join:id=room_id"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Item is a distinct product tracked in one room. Quantity, Price and
// ExpiryDate are derived columns recomputed from the batch list after every
// mutation; the batches are the source of truth.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID          int64           `bun:"id,pk,autoincrement"`
	RoomID      int64           `bun:"room_id,notnull"`
	Name        string          `bun:"name,notnull"`
	Brand       string          `bun:"brand"`
	Code        string          `bun:"code"`
	Vendor      string          `bun:"vendor"`
	Category    string          `bun:"category,notnull,default:'other'"`
	UOM         string          `bun:"uom,notnull,default:'pcs'"`
	Description string          `bun:"description"`
	Quantity    int             `bun:"quantity,notnull,default:0"`
	Price       decimal.Decimal `bun:"price,notnull,default:'0'"`
	ExpiryDate  *string         `bun:"expiry_date"`
	Batches     []ItemBatch     `bun:"rel:has-many,join:id=item_id"`
	CreatedAt   time.Time       `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}

// ItemBatch is one receiving lot. Position preserves insertion order, which
// the depletion policy depends on.
type ItemBatch struct {
	bun.BaseModel `bun:"table:item_batches,alias:ib"`

	ID        int64           `bun:"id,pk,autoincrement"`
	ItemID    int64           `bun:"item_id,notnull"`
	Position  int             `bun:"position,notnull"`
	Qty       int             `bun:"qty,notnull"`
	UnitPrice decimal.Decimal `bun:"unit_price,notnull,default:'0'"`
	Expiry    *string         `bun:"expiry_date"`
}

// PurchaseEntry is one row of the append-only receipt ledger. Room name and
// product metadata are snapshotted so history survives renames and deletions.
type PurchaseEntry struct {
	bun.BaseModel `bun:"table:purchase_history,alias:ph"`

	ID          string          `bun:"id,pk"`
	UserID      int64           `bun:"user_id,notnull"`
	RoomID      int64           `bun:"room_id,notnull"`
	Location    string          `bun:"location,notnull"`
	ProductName string          `bun:"product_name,notnull"`
	Brand       string          `bun:"brand"`
	Code        string          `bun:"code"`
	Vendor      string          `bun:"vendor"`
	Category    string          `bun:"category,notnull"`
	UOM         string          `bun:"uom,notnull,default:'pcs'"`
	Qty         int             `bun:"qty,notnull"`
	UnitPrice   decimal.Decimal `bun:"unit_price,notnull"`
	TotalPrice  decimal.Decimal `bun:"total_price,notnull"`
	ExpiryDate  *string         `bun:"expiry_date"`
	Timestamp   time.Time       `bun:"timestamp,notnull,default:current_timestamp"`
}

// Activity log actions.
const (
	ActionAdd         = "add"
	ActionRemove      = "remove"
	ActionDelete      = "delete"
	ActionTransferOut = "transfer_out"
	ActionTransferIn  = "transfer_in"
	ActionEdit        = "edit"
	ActionReceive     = "receive"
)

// ActivityEntry records a user-visible inventory event. Only the 100 most
// recent entries per user are retained.
type ActivityEntry struct {
	bun.BaseModel `bun:"table:activity_logs,alias:act"`

	ID        string    `bun:"id,pk"`
	UserID    int64     `bun:"user_id,notnull"`
	RoomID    int64     `bun:"room_id,notnull"`
	RoomName  string    `bun:"room_name,notnull"`
	Action    string    `bun:"action,notnull"`
	Details   string    `bun:"details,notnull"`
	Timestamp time.Time `bun:"timestamp,notnull,default:current_timestamp"`
}

// Blueprint stores the floor-plan image a user selected for the clinic map.
type Blueprint struct {
	bun.BaseModel `bun:"table:blueprints,alias:bp"`

	UserID    int64     `bun:"user_id,pk"`
	URL       string    `bun:"url,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for key operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
