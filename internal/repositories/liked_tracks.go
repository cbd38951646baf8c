package repositories

import (
	"database/sql"
	"fmt"
)

// LikedTrackRepository persists the set of liked track ids between runs.
type LikedTrackRepository struct {
	db *sql.DB
}

func NewLikedTrackRepository(db *sql.DB) *LikedTrackRepository {
	return &LikedTrackRepository{db: db}
}

// List returns every stored id in ascending order.
func (r *LikedTrackRepository) List() ([]int64, error) {
	rows, err := r.db.Query("SELECT track_id FROM liked_tracks ORDER BY track_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query liked tracks: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan liked track: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Replace swaps the stored set for ids.
func (r *LikedTrackRepository) Replace(ids []int64) error {
	return withTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM liked_tracks"); err != nil {
			return fmt.Errorf("failed to clear liked tracks: %w", err)
		}
		for _, id := range ids {
			if _, err := tx.Exec("INSERT OR IGNORE INTO liked_tracks (track_id) VALUES (?)", id); err != nil {
				return fmt.Errorf("failed to insert liked track %d: %w", id, err)
			}
		}
		return nil
	})
}
