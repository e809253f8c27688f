package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store with the same insert-once semantics as
// the Postgres implementation. It backs tests and local development.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    []Entry
	tombstones []Tombstone
	byID       map[string]int
}

// NewMemoryStore returns an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

func (s *MemoryStore) InsertEntry(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[entry.ID]; exists {
		return ErrDuplicateID
	}
	copied := *entry
	if entry.Location != nil {
		loc := *entry.Location
		copied.Location = &loc
	}
	s.byID[entry.ID] = len(s.entries)
	s.entries = append(s.entries, copied)
	return nil
}

func (s *MemoryStore) InsertTombstone(_ context.Context, ts *Tombstone) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[ts.ID]; exists {
		return ErrDuplicateID
	}
	s.byID[ts.ID] = -1
	s.tombstones = append(s.tombstones, *ts)
	return nil
}

func (s *MemoryStore) EntryByID(_ context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(id, "")
}

func (s *MemoryStore) EntryByIDAndOwner(_ context.Context, id, ownerID string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(id, ownerID)
}

func (s *MemoryStore) lookup(id, ownerID string) (*Entry, error) {
	idx, ok := s.byID[id]
	if !ok || idx < 0 {
		return nil, ErrNotFound
	}
	entry := s.entries[idx]
	if ownerID != "" && entry.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	if entry.Location != nil {
		loc := *entry.Location
		entry.Location = &loc
	}
	return &entry, nil
}

func (s *MemoryStore) DigestsInWindow(_ context.Context, from, to time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var digests []string
	for _, entry := range s.entries {
		if !entry.CreatedAt.Before(from) && entry.CreatedAt.Before(to) {
			digests = append(digests, entry.Digest)
		}
	}
	return digests, nil
}

func (s *MemoryStore) TombstonesFor(_ context.Context, originalID string) ([]Tombstone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []Tombstone
	for _, ts := range s.tombstones {
		if ts.OriginalID == originalID {
			matched = append(matched, ts)
		}
	}
	return matched, nil
}

func (s *MemoryStore) ListByOwner(_ context.Context, ownerID, beforeID string, limit int) ([]ListedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deleted := make(map[string]bool, len(s.tombstones))
	for _, ts := range s.tombstones {
		deleted[ts.OriginalID] = true
	}

	var listed []ListedEntry
	for _, entry := range s.entries {
		if entry.OwnerID != ownerID {
			continue
		}
		if beforeID != "" && entry.ID >= beforeID {
			continue
		}
		listed = append(listed, ListedEntry{Entry: entry, IsDeleted: deleted[entry.ID]})
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].ID > listed[j].ID })
	if len(listed) > limit {
		listed = listed[:limit]
	}
	return listed, nil
}

func (s *MemoryStore) ExportByOwner(_ context.Context, ownerID string) ([]ExportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []ExportRecord
	for _, entry := range s.entries {
		if entry.OwnerID != ownerID {
			continue
		}
		records = append(records, ExportRecord{
			Content:   entry.Content,
			CreatedAt: entry.CreatedAt,
			Location:  entry.Location,
			Digest:    entry.Digest,
			Signature: entry.Signature,
			SigAlg:    entry.SigAlg,
			SigKid:    entry.SigKid,
		})
	}
	for _, ts := range s.tombstones {
		if ts.OwnerID != ownerID {
			continue
		}
		records = append(records, ExportRecord{
			Type:           "tombstone",
			CreatedAt:      ts.CreatedAt,
			OriginalID:     ts.OriginalID,
			OriginalDigest: ts.OriginalDigest,
		})
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].CreatedAt.Before(records[j].CreatedAt) })
	return records, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
