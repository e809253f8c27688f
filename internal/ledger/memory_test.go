package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(id, owner string, at time.Time) *Entry {
	return &Entry{
		ID:        id,
		OwnerID:   owner,
		Content:   "content of " + id,
		CreatedAt: at,
		Digest:    "digest-" + id,
		Signature: "sig-" + id,
		SigAlg:    "HS256",
		SigKid:    "v1",
	}
}

func TestMemoryStoreInsertOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.InsertEntry(ctx, testEntry("aaaaaaaaaaaaaaaaaaaaaaaa", "U1", at)))
	err := store.InsertEntry(ctx, testEntry("aaaaaaaaaaaaaaaaaaaaaaaa", "U1", at))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestMemoryStoreLookups(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertEntry(ctx, testEntry("aaaaaaaaaaaaaaaaaaaaaaaa", "U1", at)))

	entry, err := store.EntryByID(ctx, "aaaaaaaaaaaaaaaaaaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, "U1", entry.OwnerID)

	_, err = store.EntryByID(ctx, "bbbbbbbbbbbbbbbbbbbbbbbb")
	assert.ErrorIs(t, err, ErrNotFound)

	// Owner-scoped lookup rejects foreign owners.
	_, err = store.EntryByIDAndOwner(ctx, "aaaaaaaaaaaaaaaaaaaaaaaa", "U2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDigestsInWindow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	dayStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	require.NoError(t, store.InsertEntry(ctx, testEntry("aaaaaaaaaaaaaaaaaaaaaaaa", "U1", dayStart)))                       // inclusive start
	require.NoError(t, store.InsertEntry(ctx, testEntry("bbbbbbbbbbbbbbbbbbbbbbbb", "U2", dayEnd.Add(-time.Millisecond)))) // last instant
	require.NoError(t, store.InsertEntry(ctx, testEntry("cccccccccccccccccccccccc", "U1", dayEnd)))                        // exclusive end
	require.NoError(t, store.InsertTombstone(ctx, &Tombstone{
		ID:             "dddddddddddddddddddddddd",
		OwnerID:        "U1",
		OriginalID:     "aaaaaaaaaaaaaaaaaaaaaaaa",
		OriginalDigest: "digest-aaaaaaaaaaaaaaaaaaaaaaaa",
		CreatedAt:      dayStart.Add(time.Hour),
	}))

	digests, err := store.DigestsInWindow(ctx, dayStart, dayEnd)
	require.NoError(t, err)
	// Tombstones never enter the leaf set, and the window is [start, end).
	assert.ElementsMatch(t, []string{"digest-aaaaaaaaaaaaaaaaaaaaaaaa", "digest-bbbbbbbbbbbbbbbbbbbbbbbb"}, digests)
}

func TestMemoryStoreListByOwner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	ids := []string{
		"aaaaaaaaaaaaaaaaaaaaaaa1",
		"aaaaaaaaaaaaaaaaaaaaaaa2",
		"aaaaaaaaaaaaaaaaaaaaaaa3",
	}
	for i, id := range ids {
		require.NoError(t, store.InsertEntry(ctx, testEntry(id, "U1", at.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, store.InsertEntry(ctx, testEntry("eeeeeeeeeeeeeeeeeeeeeee1", "U2", at)))
	require.NoError(t, store.InsertTombstone(ctx, &Tombstone{
		ID:         "ffffffffffffffffffffffff",
		OwnerID:    "U1",
		OriginalID: ids[1],
		CreatedAt:  at.Add(time.Hour),
	}))

	listed, err := store.ListByOwner(ctx, "U1", "", 10)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	// Newest id first, tombstoned entry flagged but present.
	assert.Equal(t, ids[2], listed[0].ID)
	assert.Equal(t, ids[1], listed[1].ID)
	assert.True(t, listed[1].IsDeleted)
	assert.False(t, listed[0].IsDeleted)

	// Cursor excludes ids at or above it.
	listed, err = store.ListByOwner(ctx, "U1", ids[2], 10)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, ids[1], listed[0].ID)
}

func TestMemoryStoreExportByOwner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.InsertEntry(ctx, testEntry("aaaaaaaaaaaaaaaaaaaaaaa1", "U1", at)))
	require.NoError(t, store.InsertTombstone(ctx, &Tombstone{
		ID:             "aaaaaaaaaaaaaaaaaaaaaaa2",
		OwnerID:        "U1",
		OriginalID:     "aaaaaaaaaaaaaaaaaaaaaaa1",
		OriginalDigest: "digest-aaaaaaaaaaaaaaaaaaaaaaa1",
		CreatedAt:      at.Add(time.Hour),
	}))

	records, err := store.ExportByOwner(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Empty(t, records[0].Type)
	assert.Equal(t, "tombstone", records[1].Type)
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaa1", records[1].OriginalID)
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		require.Len(t, id, 24)
		for _, c := range id {
			require.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'), "non-hex char %q in %s", c, id)
		}
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
