package inventory

import "dentastock/stock"

// ItemView is the API shape of an item in its room.
type ItemView struct {
	stock.Item
	RoomID   int64  `json:"roomId"`
	RoomName string `json:"roomName"`
}

// MasterListData is the flattened cross-room inventory, grouped by category
// the way the master table renders it.
type MasterListData struct {
	Items      []ItemView            `json:"items"`
	ByCategory map[string][]ItemView `json:"byCategory"`
}
