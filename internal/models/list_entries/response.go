package models

import "time"

type EntryItem struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	LocationName string    `json:"locationName,omitempty"`
	Digest       string    `json:"digest"`
	Signature    string    `json:"signature,omitempty"`
	SigAlg       string    `json:"sigAlg,omitempty"`
	SigKid       string    `json:"sigKid,omitempty"`
	IsDeleted    bool      `json:"isDeleted"`
}

type ListEntriesResponse struct {
	Entries    []EntryItem `json:"entries"`
	NextCursor *string     `json:"nextCursor"`
}
