package models

type TombstoneEntryResponse struct {
	TombstoneID string `json:"tombstoneId"`
}
