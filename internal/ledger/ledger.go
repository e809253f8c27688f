// Package ledger is the append-only persistence layer for entries and
// tombstones. Records are inserted once and never updated or physically
// deleted; logical deletion happens through tombstones that reference the
// original entry without touching it.
package ledger

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups with no matching record.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateID is returned when an insert would reuse an existing id.
var ErrDuplicateID = errors.New("duplicate record id")

// Location is an optional coordinate pair with a display name. Only the
// coordinates take part in the entry's digest.
type Location struct {
	Latitude  float64
	Longitude float64
	Name      string
}

// Entry is immutable once created. Digest and Signature are fixed at commit
// time; correcting a defective entry means creating a new one.
type Entry struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	Location  *Location
	Digest    string
	Signature string
	SigAlg    string
	SigKid    string
}

// Tombstone marks an entry as logically deleted. Its CreatedAt records the
// deletion request, distinct from the entry's own timestamp.
type Tombstone struct {
	ID             string
	OwnerID        string
	OriginalID     string
	OriginalDigest string
	CreatedAt      time.Time
}

// ListedEntry is an entry decorated with its tombstone status for listing.
type ListedEntry struct {
	Entry
	IsDeleted bool
}

// ExportRecord is one row of a user's full export: either an entry (Type
// empty) or a tombstone (Type "tombstone"), in ascending creation order.
type ExportRecord struct {
	Type           string
	Content        string
	CreatedAt      time.Time
	Location       *Location
	Digest         string
	Signature      string
	SigAlg         string
	SigKid         string
	OriginalID     string
	OriginalDigest string
}

// Store is the contract the commit subsystem needs from persistence:
// insert-once writes, point-in-time reads, and a day-window digest query
// that never includes tombstones.
type Store interface {
	InsertEntry(ctx context.Context, entry *Entry) error
	InsertTombstone(ctx context.Context, ts *Tombstone) error

	// EntryByID returns an entry regardless of owner; used by the public
	// verifier, which never exposes more than digest equality.
	EntryByID(ctx context.Context, id string) (*Entry, error)

	// EntryByIDAndOwner scopes the lookup to the authoring account.
	EntryByIDAndOwner(ctx context.Context, id, ownerID string) (*Entry, error)

	// DigestsInWindow returns digests of all entries with CreatedAt in
	// [from, to). Tombstones are separate records and never appear here.
	DigestsInWindow(ctx context.Context, from, to time.Time) ([]string, error)

	// TombstonesFor returns the tombstones referencing an original entry.
	TombstonesFor(ctx context.Context, originalID string) ([]Tombstone, error)

	// ListByOwner pages an owner's entries newest-id first. A non-empty
	// beforeID restricts results to ids strictly below it.
	ListByOwner(ctx context.Context, ownerID, beforeID string, limit int) ([]ListedEntry, error)

	// ExportByOwner returns the owner's complete history, tombstones
	// included, in ascending creation order.
	ExportByOwner(ctx context.Context, ownerID string) ([]ExportRecord, error)

	Ping(ctx context.Context) error
}
