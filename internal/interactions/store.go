package interactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrClosed is returned by every method after Close.
var ErrClosed = errors.New("interactions: store closed")

// Store keeps local likes and bookmarks per item ID.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	now    func() time.Time
}

// table names are fixed; they are never built from input.
const (
	tableLikes     = "likes"
	tableBookmarks = "bookmarks"
)

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("interactions: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("interactions: open database: %w", err)
	}
	// One connection: sqlite has a single writer, and each ":memory:"
	// connection would otherwise see its own database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	for _, table := range []string{tableLikes, tableBookmarks} {
		schema := `
		CREATE TABLE IF NOT EXISTS ` + table + ` (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL
		);`
		if _, err := s.db.Exec(schema); err != nil {
			return fmt.Errorf("interactions: create %s table: %w", table, err)
		}
	}
	return nil
}

// Close releases the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// ToggleLike likes or unlikes an item and returns the new state.
func (s *Store) ToggleLike(ctx context.Context, itemID string) (bool, error) {
	return s.toggle(ctx, tableLikes, itemID)
}

// ToggleBookmark bookmarks or unbookmarks an item and returns the new state.
func (s *Store) ToggleBookmark(ctx context.Context, itemID string) (bool, error) {
	return s.toggle(ctx, tableBookmarks, itemID)
}

func (s *Store) Liked(ctx context.Context, itemID string) (bool, error) {
	return s.has(ctx, tableLikes, itemID)
}

func (s *Store) Bookmarked(ctx context.Context, itemID string) (bool, error) {
	return s.has(ctx, tableBookmarks, itemID)
}

func (s *Store) toggle(ctx context.Context, table, itemID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("interactions: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE item_id = ?`, itemID)
	if err != nil {
		return false, fmt.Errorf("interactions: toggle %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("interactions: toggle %s: %w", table, err)
	}
	on := n == 0
	if on {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO `+table+` (id, item_id, created_at) VALUES (?, ?, ?)`,
			uuid.NewString(), itemID, s.now().UTC())
		if err != nil {
			return false, fmt.Errorf("interactions: toggle %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("interactions: commit: %w", err)
	}
	return on, nil
}

func (s *Store) has(ctx context.Context, table, itemID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE item_id = ?`, itemID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("interactions: query %s: %w", table, err)
	}
	return n > 0, nil
}

// Counts is the number of liked and bookmarked items.
type Counts struct {
	Likes     int
	Bookmarks int
}

func (s *Store) Counts(ctx context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Counts{}, ErrClosed
	}
	var c Counts
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM likes), (SELECT COUNT(*) FROM bookmarks)`).Scan(&c.Likes, &c.Bookmarks)
	if err != nil {
		return Counts{}, fmt.Errorf("interactions: counts: %w", err)
	}
	return c, nil
}

// State is the like/bookmark state of one item.
type State struct {
	Liked      bool
	Bookmarked bool
}

// State returns the state of each of ids. Items with neither flag are
// omitted from the map.
func (s *Store) State(ctx context.Context, ids []string) (map[string]State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make(map[string]State)
	for _, table := range []string{tableLikes, tableBookmarks} {
		rows, err := s.db.QueryContext(ctx, `SELECT item_id FROM `+table)
		if err != nil {
			return nil, fmt.Errorf("interactions: query %s: %w", table, err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("interactions: scan %s: %w", table, err)
			}
			if !want[id] {
				continue
			}
			st := out[id]
			if table == tableLikes {
				st.Liked = true
			} else {
				st.Bookmarked = true
			}
			out[id] = st
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("interactions: query %s: %w", table, err)
		}
	}
	return out, nil
}
