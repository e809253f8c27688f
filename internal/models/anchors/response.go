package models

import "github.com/hbuk-xyz/hbuk-server/internal/commitment"

// AnchorResponse is the daily Merkle anchor. Root is null when no entries
// were committed that day.
type AnchorResponse struct {
	Date  string  `json:"date"`
	Count int     `json:"count"`
	Root  *string `json:"root"`
}

// ProofResponse carries an inclusion proof: replaying Proof against Digest
// must reproduce Root.
type ProofResponse struct {
	Date   string                 `json:"date"`
	Digest string                 `json:"digest"`
	Root   string                 `json:"root"`
	Count  int                    `json:"count"`
	Proof  []commitment.ProofStep `json:"proof"`
}
