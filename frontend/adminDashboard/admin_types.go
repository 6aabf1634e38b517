package admindashboard

import (
	"github.com/shopspring/decimal"

	"dentastock/models"
)

// GlobalItemView is one inventory line flattened across every clinic.
type GlobalItemView struct {
	ItemID     int64           `bun:"item_id" json:"itemId"`
	Clinic     string          `bun:"clinic" json:"clinic"`
	UserID     int64           `bun:"user_id" json:"userId"`
	RoomName   string          `bun:"room_name" json:"roomName"`
	Product    string          `bun:"product" json:"product"`
	Brand      string          `bun:"brand" json:"brand"`
	Category   string          `bun:"category" json:"category"`
	UOM        string          `bun:"uom" json:"uom"`
	Qty        int             `bun:"qty" json:"qty"`
	UnitPrice  decimal.Decimal `bun:"unit_price" json:"unitPrice"`
	TotalValue decimal.Decimal `bun:"total_value" json:"totalValue"`
}

// ClinicRollup summarizes one clinic's footprint.
type ClinicRollup struct {
	UserID         int64           `json:"userId"`
	Clinic         string          `json:"clinic"`
	Email          string          `json:"email"`
	RoomCount      int             `json:"roomCount"`
	ItemCount      int             `json:"itemCount"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	TotalSpend     decimal.Decimal `json:"totalSpend"`
	OrderCount     int             `json:"orderCount"`
}

// StatCards are the headline numbers at the top of the dashboard.
type StatCards struct {
	ClinicCount    int             `json:"clinicCount"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	TotalSpend     decimal.Decimal `json:"totalSpend"`
	OrderCount     int             `json:"orderCount"`
}

type UserView struct {
	ID          int64  `bun:"id" json:"id"`
	Email       string `bun:"email" json:"email"`
	Name        string `bun:"name" json:"name"`
	CompanyName string `bun:"company_name" json:"companyName"`
	Role        string `bun:"role" json:"role"`
}

type PageData struct {
	Stats     StatCards              `json:"stats"`
	Clinics   []ClinicRollup         `json:"clinics"`
	Inventory []GlobalItemView       `json:"inventory"`
	Orders    []models.PurchaseEntry `json:"orders"`
	Users     []UserView             `json:"users"`
}
