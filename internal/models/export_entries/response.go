package models

import "time"

// ExportItem is one record of a user's complete history: a journal entry,
// or a tombstone when Type is "tombstone".
type ExportItem struct {
	Type           string    `json:"type,omitempty"`
	Content        string    `json:"content,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	LocationName   string    `json:"locationName,omitempty"`
	Digest         string    `json:"digest,omitempty"`
	Signature      string    `json:"signature,omitempty"`
	SigAlg         string    `json:"sigAlg,omitempty"`
	SigKid         string    `json:"sigKid,omitempty"`
	OriginalID     string    `json:"originalId,omitempty"`
	OriginalDigest string    `json:"originalDigest,omitempty"`
}

type ExportEntriesResponse struct {
	User       string       `json:"user"`
	ExportedAt time.Time    `json:"exportedAt"`
	Entries    []ExportItem `json:"entries"`
}
