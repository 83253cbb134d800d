package interest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/ywebstudio/newslist/pkg/models"
)

// Keys under which the profile is persisted in the settings table.
const (
	keySelected = "user_interests"
	keyChosen   = "interests_selected"
)

// LocalStore persists the interest profile in a durable on-device
// key-value table backed by SQLite.
type LocalStore struct {
	db *sql.DB
}

var _ Storage = (*LocalStore)(nil)

// OpenLocal opens (creating if needed) the local settings database.
func OpenLocal(dbPath string) (*LocalStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &LocalStore{db: db}, nil
}

// Close closes the underlying database.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// Load reads the persisted profile; never-saved keys yield the zero
// profile.
func (s *LocalStore) Load(ctx context.Context) (models.InterestProfile, error) {
	var profile models.InterestProfile

	raw, ok, err := s.get(ctx, keySelected)
	if err != nil {
		return profile, err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &profile.SelectedCategoryIDs); err != nil {
			return profile, fmt.Errorf("decoding stored interests: %w", err)
		}
	}

	chosen, ok, err := s.get(ctx, keyChosen)
	if err != nil {
		return profile, err
	}
	profile.HasChosen = ok && chosen == "true"

	return profile, nil
}

// Save persists the selection and the chosen flag in one transaction.
func (s *LocalStore) Save(ctx context.Context, selectedCategoryIDs []string) error {
	encoded, err := json.Marshal(selectedCategoryIDs)
	if err != nil {
		return fmt.Errorf("encoding interests: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, kv := range [][2]string{
		{keySelected, string(encoded)},
		{keyChosen, "true"},
	} {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = ?",
			kv[0], kv[1], kv[1],
		); err != nil {
			return fmt.Errorf("saving setting %s: %w", kv[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing interests: %w", err)
	}
	return nil
}

func (s *LocalStore) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}
