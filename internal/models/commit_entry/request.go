package models

type CommitEntryRequest struct {
	Content      string   `json:"content"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	LocationName string   `json:"locationName,omitempty"`
}
