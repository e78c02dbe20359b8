// Package localstore is the durable local copy of each user's app state. The
// state is one JSON document per user in a SQLite file; it is the source of
// truth whenever the remote store disagrees or is unreachable.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dharsanguruparan/DocFlow/internal/model"
)

// ErrNoState is returned by Load when nothing was saved for the user yet.
var ErrNoState = errors.New("no saved state")

const schema = `
CREATE TABLE IF NOT EXISTS app_state (
	user_id TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

const keyUserID = "user_id"

// Store is a SQLite-backed state store.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database file at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved state for userID.
func (s *Store) Load(ctx context.Context, userID string) (*model.AppState, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM app_state WHERE user_id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}

	st := model.NewAppState(userID)
	if err := json.Unmarshal([]byte(data), st); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	st.UserID = userID
	return st, nil
}

// Save replaces the saved state for st.UserID.
func (s *Store) Save(ctx context.Context, st *model.AppState) error {
	if st.UserID == "" {
		return errors.New("saving state: empty user id")
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_state (user_id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		st.UserID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// UserID returns the user id persisted for this installation, creating it
// with gen on first use.
func (s *Store) UserID(ctx context.Context, gen func() string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, keyUserID).Scan(&id)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("loading user id: %w", err)
	}
	id = gen()
	if err := s.SetUserID(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// SetUserID pins the installation to a user id, e.g. after a Telegram login.
func (s *Store) SetUserID(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, keyUserID, id)
	if err != nil {
		return fmt.Errorf("saving user id: %w", err)
	}
	return nil
}
