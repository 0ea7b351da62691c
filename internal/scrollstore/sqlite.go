package scrollstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/sidenav/internal/db"
)

// SQLite keeps offsets in the scroll_offsets table so they survive a service restart.
type SQLite struct {
	db    *db.DB
	owned bool
	ttl   time.Duration
	now   func() time.Time
}

// NewSQLite wraps an open database. Close does not close it.
func NewSQLite(database *db.DB, ttl time.Duration) *SQLite {
	return &SQLite{db: database, ttl: ttl, now: time.Now}
}

// OpenSQLite opens (or creates) the database at path and owns it.
func OpenSQLite(path string, ttl time.Duration) (*SQLite, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scroll store: %w", err)
	}
	s := NewSQLite(database, ttl)
	s.owned = true
	return s, nil
}

func (s *SQLite) Take(ctx context.Context, key string) (Offset, bool, error) {
	var (
		v       float64
		expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM scroll_offsets WHERE key = ? RETURNING scroll_top, expires_at`, key,
	).Scan(&v, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("taking scroll offset: %w", err)
	}
	if expires != 0 && s.now().Unix() > expires {
		return 0, false, nil
	}
	return Offset(v), true, nil
}

func (s *SQLite) Put(ctx context.Context, key string, v Offset) error {
	var expires int64
	if s.ttl > 0 {
		expires = s.now().Add(s.ttl).Unix()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scroll_offsets (key, scroll_top, expires_at, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			scroll_top = excluded.scroll_top,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		key, float64(v), expires,
	)
	if err != nil {
		return fmt.Errorf("saving scroll offset: %w", err)
	}
	return nil
}

// Prune deletes expired offsets that were never read and returns how many it removed.
func (s *SQLite) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scroll_offsets WHERE expires_at != 0 AND expires_at < ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning scroll offsets: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database if this store opened it.
func (s *SQLite) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}
