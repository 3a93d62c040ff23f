// Package snapshot persists the current UserData to a local SQLite database,
// one row per username. The snapshot is an offline cache and restore
// mechanism only: it is rewritten on every store change and always
// overwritten by the next successful bulk load from the entity service. It
// is never authoritative.
// See docs/ARCHITECTURE.md § Local Snapshot.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/quill/pkg/types"
)

// ErrNoSnapshot is returned by Load when no snapshot exists for a username.
var ErrNoSnapshot = errors.New("no snapshot for user")

// dbFileName is the SQLite file created under the data directory.
const dbFileName = "quill.db"

const schemaSQL = `CREATE TABLE IF NOT EXISTS snapshots (
    username TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

// Store is a durable, per-username key-value slot for UserData snapshots.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates the data directory if needed, opens (or creates) the snapshot
// database inside it, and ensures the schema exists.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save writes the snapshot for username, replacing any previous one.
func (s *Store) Save(username string, data *types.UserData) error {
	if username == "" {
		return types.ErrInvalidID
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		`INSERT INTO snapshots (username, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		username, string(encoded), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot for username, or ErrNoSnapshot.
func (s *Store) Load(username string) (*types.UserData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var encoded string
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE username = ?`, username).Scan(&encoded)
	if err == sql.ErrNoRows {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var data types.UserData
	if err := json.Unmarshal([]byte(encoded), &data); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &data, nil
}

// Delete removes the snapshot for username. Deleting a missing snapshot is
// not an error.
func (s *Store) Delete(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE username = ?`, username); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Close releases the underlying database. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
