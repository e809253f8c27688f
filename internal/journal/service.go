// Package journal implements the tamper-evident commit subsystem: entry
// commits with content-addressed digests and witness signatures, append-only
// tombstones, daily Merkle anchors, and inclusion proofs.
package journal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hbuk-xyz/hbuk-server/internal/commitment"
	"github.com/hbuk-xyz/hbuk-server/internal/ledger"
)

// MaxContentBytes bounds entry content, matching the transport body limit.
const MaxContentBytes = 64 << 10

const dateLayout = "2006-01-02"

// Anchor is the Merkle root over one UTC day's entry digests. Root is nil
// when the day holds no entries. Anchors are derived, never persisted: the
// root for an in-progress day legitimately moves as commits land, and only
// fully elapsed days are final.
type Anchor struct {
	Date  string  `json:"date"`
	Count int     `json:"count"`
	Root  *string `json:"root"`
}

// InclusionProof carries the sibling path from one entry's digest to its
// day's anchor root, valid for the leaf set at query time.
type InclusionProof struct {
	Date   string                 `json:"date"`
	Digest string                 `json:"digest"`
	Root   string                 `json:"root"`
	Count  int                    `json:"count"`
	Proof  []commitment.ProofStep `json:"proof"`
}

// EntryPage is one page of an owner's entries, newest first.
type EntryPage struct {
	Entries    []ledger.ListedEntry
	NextCursor string
}

// AnchorCache stores anchors for closed UTC days. Implementations are best
// effort; a miss or failed write only costs a recompute.
type AnchorCache interface {
	Get(ctx context.Context, date string) (*Anchor, bool)
	Set(ctx context.Context, date string, anchor *Anchor)
}

// Service wires the pure commitment functions to the ledger. It holds no
// mutable state of its own, so methods are safe for concurrent use.
type Service struct {
	store  ledger.Store
	keys   *commitment.Keyring
	cache  AnchorCache
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewService builds the commit subsystem. cache may be nil, in which case
// every anchor is recomputed from the ledger.
func NewService(store ledger.Store, keys *commitment.Keyring, cache AnchorCache, logger *zap.SugaredLogger) *Service {
	return &Service{
		store:  store,
		keys:   keys,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Commit turns freeform content into an immutable entry. The digest is
// computed before signing and is final either way: if no signing secret is
// configured the entry persists unsigned, a degraded but valid state.
func (s *Service) Commit(ctx context.Context, ownerID, content string, loc *ledger.Location) (*ledger.Entry, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner required", ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content required", ErrValidation)
	}
	if len(content) > MaxContentBytes {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", ErrValidation, MaxContentBytes)
	}

	createdAt := s.now().UTC().Truncate(time.Millisecond)
	digest := commitment.Digest(ownerID, content, createdAt, digestLocation(loc))

	sig, alg, kid, err := s.keys.Sign(digest)
	if err != nil {
		if !errors.Is(err, commitment.ErrSigningUnavailable) {
			return nil, fmt.Errorf("sign digest: %w", err)
		}
		s.logger.Warnw("committing unsigned entry, witness secret unavailable",
			"owner_id", ownerID, "kid", s.keys.ActiveKid())
		sig, alg, kid = "", "", ""
	}

	entry := &ledger.Entry{
		ID:        ledger.NewID(),
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: createdAt,
		Location:  loc,
		Digest:    digest,
		Signature: sig,
		SigAlg:    alg,
		SigKid:    kid,
	}
	if err := s.store.InsertEntry(ctx, entry); err != nil {
		return nil, storageErr("insert entry", err)
	}
	return entry, nil
}

// Verify reports whether the stored entry's digest equals the supplied one.
// A false result is a valid negative, not an error. The witness signature is
// never exposed here.
func (s *Service) Verify(ctx context.Context, id, digest string) (bool, error) {
	if !isHex(id, 24) || !isHex(digest, 64) {
		return false, fmt.Errorf("%w: want 24-hex id and 64-hex digest", ErrFormat)
	}
	entry, err := s.store.EntryByID(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, storageErr("lookup entry", err)
	}
	return entry.Digest == digest, nil
}

// Tombstone appends a deletion marker for an owner's entry. The original
// record is never read back, rewritten, or invalidated; only list-type
// queries change. Returns the tombstone id.
func (s *Service) Tombstone(ctx context.Context, id, ownerID string) (string, error) {
	entry, err := s.store.EntryByIDAndOwner(ctx, id, ownerID)
	if errors.Is(err, ledger.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", storageErr("lookup entry", err)
	}

	ts := &ledger.Tombstone{
		ID:             ledger.NewID(),
		OwnerID:        ownerID,
		OriginalID:     entry.ID,
		OriginalDigest: entry.Digest,
		CreatedAt:      s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.store.InsertTombstone(ctx, ts); err != nil {
		return "", storageErr("insert tombstone", err)
	}
	return ts.ID, nil
}

// AnchorForDay builds the Merkle anchor for the UTC day containing at.
// Closed days are served from the cache when one is configured; the current
// day is always recomputed since its leaf set can still grow.
func (s *Service) AnchorForDay(ctx context.Context, at time.Time) (*Anchor, error) {
	dayStart, dayEnd := dayWindow(at)
	date := dayStart.Format(dateLayout)
	closed := !dayEnd.After(s.now().UTC())

	if closed && s.cache != nil {
		if anchor, ok := s.cache.Get(ctx, date); ok {
			return anchor, nil
		}
	}

	leaves, err := s.dayLeaves(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	anchor := &Anchor{Date: date, Count: len(leaves)}
	if root := commitment.MerkleRoot(leaves); root != "" {
		anchor.Root = &root
	}

	if closed && s.cache != nil {
		s.cache.Set(ctx, date, anchor)
	}
	return anchor, nil
}

// Proof generates the inclusion proof tying one entry to its day's anchor.
// The proof is computed over the same sorted leaf set as AnchorForDay, so a
// replay of the returned steps reproduces the returned root exactly.
func (s *Service) Proof(ctx context.Context, id, ownerID string) (*InclusionProof, error) {
	if !isHex(id, 24) {
		return nil, fmt.Errorf("%w: want 24-hex id", ErrFormat)
	}
	entry, err := s.store.EntryByIDAndOwner(ctx, id, ownerID)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("lookup entry", err)
	}

	dayStart, dayEnd := dayWindow(entry.CreatedAt)
	leaves, err := s.dayLeaves(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	proof := commitment.MerkleProof(leaves, entry.Digest)
	if proof == nil {
		// The digest is no longer a leaf of its day, e.g. clock skew pushed
		// the entry outside the window being anchored.
		return nil, fmt.Errorf("%w: digest not anchored", ErrNotFound)
	}
	return &InclusionProof{
		Date:   dayStart.Format(dateLayout),
		Digest: entry.Digest,
		Root:   commitment.MerkleRoot(leaves),
		Count:  len(leaves),
		Proof:  proof,
	}, nil
}

// List pages an owner's entries newest first, marking tombstoned ones.
func (s *Service) List(ctx context.Context, ownerID, cursor string, limit int) (*EntryPage, error) {
	if cursor != "" && !isHex(cursor, 24) {
		return nil, fmt.Errorf("%w: want 24-hex cursor", ErrFormat)
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	// Fetch one extra row to learn whether another page exists.
	listed, err := s.store.ListByOwner(ctx, ownerID, cursor, limit+1)
	if err != nil {
		return nil, storageErr("list entries", err)
	}
	page := &EntryPage{Entries: listed}
	if len(listed) > limit {
		page.Entries = listed[:limit]
		page.NextCursor = page.Entries[limit-1].ID
	}
	return page, nil
}

// Export returns the owner's complete append-only history, tombstones
// included, in ascending creation order.
func (s *Service) Export(ctx context.Context, ownerID string) ([]ledger.ExportRecord, error) {
	records, err := s.store.ExportByOwner(ctx, ownerID)
	if err != nil {
		return nil, storageErr("export entries", err)
	}
	return records, nil
}

// SealPreviousDay caches the anchor for the most recently closed UTC day.
// Run daily shortly after midnight UTC.
func (s *Service) SealPreviousDay(ctx context.Context) error {
	yesterday := s.now().UTC().AddDate(0, 0, -1)
	anchor, err := s.AnchorForDay(ctx, yesterday)
	if err != nil {
		return err
	}
	s.logger.Infow("sealed daily anchor", "date", anchor.Date, "count", anchor.Count)
	return nil
}

// dayLeaves returns the sorted digest leaf set for one UTC day window. The
// lexicographic sort is mandatory: insertion order is not stable across
// re-reads and the root must be a pure function of the leaf set.
func (s *Service) dayLeaves(ctx context.Context, from, to time.Time) ([]string, error) {
	digests, err := s.store.DigestsInWindow(ctx, from, to)
	if err != nil {
		return nil, storageErr("query day digests", err)
	}
	sort.Strings(digests)
	return digests, nil
}

func dayWindow(at time.Time) (time.Time, time.Time) {
	at = at.UTC()
	start := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func digestLocation(loc *ledger.Location) *commitment.Location {
	if loc == nil {
		return nil
	}
	return &commitment.Location{Latitude: loc.Latitude, Longitude: loc.Longitude}
}

func isHex(s string, width int) bool {
	if len(s) != width {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
