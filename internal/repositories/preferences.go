package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/desertthunder/scx/internal/shared"
)

// PreferenceRepository stores string preferences in the preferences table.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new [PreferenceRepository] with the given database connection
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get returns the value stored under key, or "" when no row exists.
func (r *PreferenceRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query preference %s: %w", key, err)
	}
	return value, nil
}

// Set upserts every key in values within one transaction. Either all keys are written or none are.
func (r *PreferenceRepository) Set(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "" {
			return fmt.Errorf("%w: empty preference key", shared.ErrInvalidInput)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := `
		INSERT INTO preferences (id, key, value, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	return withTx(r.db, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for _, k := range keys {
			if _, err := tx.Exec(query, shared.GenerateID(), k, values[k], now, now); err != nil {
				return fmt.Errorf("failed to write preference %s: %w", k, err)
			}
		}
		return nil
	})
}

// All returns every stored preference.
func (r *PreferenceRepository) All() (map[string]string, error) {
	rows, err := r.db.Query("SELECT key, value FROM preferences ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs[k] = v
	}
	return prefs, rows.Err()
}

// Delete removes the given keys.
func (r *PreferenceRepository) Delete(keys ...string) error {
	return withTx(r.db, func(tx *sql.Tx) error {
		for _, k := range keys {
			if _, err := tx.Exec("DELETE FROM preferences WHERE key = ?", k); err != nil {
				return fmt.Errorf("failed to delete preference %s: %w", k, err)
			}
		}
		return nil
	})
}
