package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matheuscscp/splitbill/models"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type (
	sqliteStore struct {
		db *sql.DB
	}
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// NewSQLiteStore keeps the saved bills in one row of a key-value table.
// Parent directories of path are created.
func NewSQLiteStore(path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating kv table: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() {
	if err := s.db.Close(); err != nil {
		logrus.Errorf("error closing database: %v", err)
	}
}

func (s *sqliteStore) Load(ctx context.Context) ([]models.Snapshot, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", SlotName).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Snapshot{}, nil
		}
		return nil, fmt.Errorf("error querying saved bills: %w", err)
	}
	return decode([]byte(value))
}

func (s *sqliteStore) Save(ctx context.Context, snapshots []models.Snapshot) error {
	b, err := encode(snapshots)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		SlotName, string(b),
	)
	if err != nil {
		return fmt.Errorf("error storing saved bills: %w", err)
	}
	return nil
}
