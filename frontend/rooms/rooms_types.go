package rooms

import "dentastock/stock"

// RoomView is one room with its normalized contents, positioned on the
// clinic floor plan.
type RoomView struct {
	ID    int64        `json:"id"`
	Name  string       `json:"name"`
	X     float64      `json:"x"`
	Y     float64      `json:"y"`
	Items []stock.Item `json:"items"`
}

type PageData struct {
	Rooms        []RoomView `json:"rooms"`
	BlueprintURL string     `json:"blueprintUrl"`
}

// BlueprintPreset is a ready-made floor plan users can pick instead of
// uploading their own.
type BlueprintPreset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

var BlueprintPresets = []BlueprintPreset{
	{ID: "clinical-hub", Name: "Clinical Hub", URL: "/static/blueprints/clinical-hub.svg"},
	{ID: "metropolis-precinct", Name: "Metropolis Precinct", URL: "/static/blueprints/metropolis-precinct.svg"},
}

const defaultRoomName = "New Room"
