package commitment

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// Location is the coordinate pair that participates in an entry's canonical
// form. Display names are stored alongside entries but never hashed.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// canonicalEntry is the wire shape of the canonical string. The field order
// is a protocol constant: every digest ever issued was computed over exactly
// this key order, so it must never change while signed entries exist.
type canonicalEntry struct {
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"createdAt"`
	Location  *Location `json:"location"`
}

// timestampLayout renders ISO-8601 UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Canonicalize produces the deterministic byte string an entry's digest is
// computed over. It normalizes the timestamp to UTC milliseconds so that
// equivalent representations of the same instant hash identically.
func Canonicalize(ownerID, content string, createdAt time.Time, loc *Location) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(canonicalEntry{
		UserID:    ownerID,
		Content:   content,
		CreatedAt: createdAt.UTC().Format(timestampLayout),
		Location:  loc,
	})
	if err != nil {
		// The struct above has no unmarshalable fields; an error here is a
		// programming defect, not a runtime condition.
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Digest returns the lowercase hex SHA-256 of the canonical form. This is
// the entry's permanent, content-addressed identity.
func Digest(ownerID, content string, createdAt time.Time, loc *Location) string {
	return sha256Hex(Canonicalize(ownerID, content, createdAt, loc))
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
