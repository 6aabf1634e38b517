package receiving

import "github.com/shopspring/decimal"

// ReceiveInput is one incoming delivery line for a room.
type ReceiveInput struct {
	RoomID      int64           `json:"roomId"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Code        string          `json:"code"`
	Vendor      string          `json:"vendor"`
	Category    string          `json:"category"`
	UOM         string          `json:"uom"`
	Description string          `json:"description"`
	Qty         int             `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	ExpiryDate  *string         `json:"expiryDate"`
}
