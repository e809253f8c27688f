package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a pgx connection pool. Both tables are
// insert-only; nothing in this file issues UPDATE or DELETE.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an initialized connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) InsertEntry(ctx context.Context, entry *Entry) error {
	var lat, lng *float64
	var name *string
	if entry.Location != nil {
		lat = &entry.Location.Latitude
		lng = &entry.Location.Longitude
		if entry.Location.Name != "" {
			name = &entry.Location.Name
		}
	}
	query := `
		INSERT INTO entries (id, owner_id, content, created_at, latitude, longitude, location_name, digest, signature, sig_alg, sig_kid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.pool.Exec(ctx, query,
		entry.ID, entry.OwnerID, entry.Content, entry.CreatedAt,
		lat, lng, name,
		entry.Digest, entry.Signature, entry.SigAlg, entry.SigKid,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertTombstone(ctx context.Context, ts *Tombstone) error {
	query := `
		INSERT INTO tombstones (id, owner_id, original_id, original_digest, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, query, ts.ID, ts.OwnerID, ts.OriginalID, ts.OriginalDigest, ts.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("insert tombstone: %w", err)
	}
	return nil
}

const entryColumns = `id, owner_id, content, created_at, latitude, longitude, location_name, digest, signature, sig_alg, sig_kid`

func (s *PostgresStore) EntryByID(ctx context.Context, id string) (*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	return s.scanEntry(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresStore) EntryByIDAndOwner(ctx context.Context, id, ownerID string) (*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 AND owner_id = $2`
	return s.scanEntry(s.pool.QueryRow(ctx, query, id, ownerID))
}

func (s *PostgresStore) scanEntry(row pgx.Row) (*Entry, error) {
	var entry Entry
	var lat, lng *float64
	var name *string
	err := row.Scan(
		&entry.ID, &entry.OwnerID, &entry.Content, &entry.CreatedAt,
		&lat, &lng, &name,
		&entry.Digest, &entry.Signature, &entry.SigAlg, &entry.SigKid,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan entry: %w", err)
	}
	entry.Location = locationFrom(lat, lng, name)
	entry.CreatedAt = entry.CreatedAt.UTC()
	return &entry, nil
}

func (s *PostgresStore) DigestsInWindow(ctx context.Context, from, to time.Time) ([]string, error) {
	query := `SELECT digest FROM entries WHERE created_at >= $1 AND created_at < $2`
	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query window digests: %w", err)
	}
	defer rows.Close()

	var digests []string
	for rows.Next() {
		var digest string
		if err := rows.Scan(&digest); err != nil {
			return nil, fmt.Errorf("scan digest: %w", err)
		}
		digests = append(digests, digest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate window digests: %w", err)
	}
	return digests, nil
}

func (s *PostgresStore) TombstonesFor(ctx context.Context, originalID string) ([]Tombstone, error) {
	query := `
		SELECT id, owner_id, original_id, original_digest, created_at
		FROM tombstones WHERE original_id = $1 ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, originalID)
	if err != nil {
		return nil, fmt.Errorf("query tombstones: %w", err)
	}
	defer rows.Close()

	var tombstones []Tombstone
	for rows.Next() {
		var ts Tombstone
		if err := rows.Scan(&ts.ID, &ts.OwnerID, &ts.OriginalID, &ts.OriginalDigest, &ts.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tombstone: %w", err)
		}
		ts.CreatedAt = ts.CreatedAt.UTC()
		tombstones = append(tombstones, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tombstones: %w", err)
	}
	return tombstones, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID, beforeID string, limit int) ([]ListedEntry, error) {
	query := `
		SELECT ` + entryColumns + `,
			EXISTS (SELECT 1 FROM tombstones t WHERE t.original_id = entries.id) AS is_deleted
		FROM entries
		WHERE owner_id = $1 AND ($2 = '' OR id < $2)
		ORDER BY id DESC
		LIMIT $3
	`
	rows, err := s.pool.Query(ctx, query, ownerID, beforeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var listed []ListedEntry
	for rows.Next() {
		var item ListedEntry
		var lat, lng *float64
		var name *string
		err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Content, &item.CreatedAt,
			&lat, &lng, &name,
			&item.Digest, &item.Signature, &item.SigAlg, &item.SigKid,
			&item.IsDeleted,
		)
		if err != nil {
			return nil, fmt.Errorf("scan listed entry: %w", err)
		}
		item.Location = locationFrom(lat, lng, name)
		item.CreatedAt = item.CreatedAt.UTC()
		listed = append(listed, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listed entries: %w", err)
	}
	return listed, nil
}

func (s *PostgresStore) ExportByOwner(ctx context.Context, ownerID string) ([]ExportRecord, error) {
	query := `
		SELECT '' AS type, content, created_at, latitude, longitude, location_name,
			digest, signature, sig_alg, sig_kid, '' AS original_id, '' AS original_digest
		FROM entries WHERE owner_id = $1
		UNION ALL
		SELECT 'tombstone', '', created_at, NULL, NULL, NULL,
			'', '', '', '', original_id, original_digest
		FROM tombstones WHERE owner_id = $1
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("export entries: %w", err)
	}
	defer rows.Close()

	var records []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		var lat, lng *float64
		var name *string
		err := rows.Scan(
			&rec.Type, &rec.Content, &rec.CreatedAt, &lat, &lng, &name,
			&rec.Digest, &rec.Signature, &rec.SigAlg, &rec.SigKid,
			&rec.OriginalID, &rec.OriginalDigest,
		)
		if err != nil {
			return nil, fmt.Errorf("scan export record: %w", err)
		}
		rec.Location = locationFrom(lat, lng, name)
		rec.CreatedAt = rec.CreatedAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export records: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func locationFrom(lat, lng *float64, name *string) *Location {
	if lat == nil || lng == nil {
		return nil
	}
	loc := &Location{Latitude: *lat, Longitude: *lng}
	if name != nil {
		loc.Name = *name
	}
	return loc
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
