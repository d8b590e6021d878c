package repository

import (
	"fmt"

	"spelldaily/internal/database"
	"spelldaily/internal/models"
)

// LifecycleRepository stores the started/completed beacons. Beacons are
// append-only counters; duplicates are expected and harmless.
type LifecycleRepository struct {
	db database.DBTX
}

// NewLifecycleRepository creates a new lifecycle repository
func NewLifecycleRepository(db database.DBTX) *LifecycleRepository {
	return &LifecycleRepository{db: db}
}

// Record appends one lifecycle event.
func (r *LifecycleRepository) Record(event, code string) error {
	_, err := r.db.Exec(
		`INSERT INTO lifecycle_events (event, code) VALUES (?, ?)`,
		event, code,
	)
	if err != nil {
		return fmt.Errorf("failed to record %s event for %s: %w", event, code, err)
	}
	return nil
}

// ListForCode retrieves all events for a code, oldest first.
func (r *LifecycleRepository) ListForCode(code string) ([]models.LifecycleEvent, error) {
	query := `
		SELECT id, event, code, created_at
		FROM lifecycle_events
		WHERE code = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query lifecycle events: %w", err)
	}
	defer rows.Close()

	var events []models.LifecycleEvent
	for rows.Next() {
		var e models.LifecycleEvent
		if err := rows.Scan(&e.ID, &e.Event, &e.Code, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountByEvent returns how many times each event fired for a code.
func (r *LifecycleRepository) CountByEvent(code string) (map[string]int, error) {
	query := `
		SELECT event, COUNT(*)
		FROM lifecycle_events
		WHERE code = ?
		GROUP BY event
	`

	rows, err := r.db.Query(query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to count lifecycle events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var event string
		var count int
		if err := rows.Scan(&event, &count); err != nil {
			return nil, err
		}
		counts[event] = count
	}
	return counts, rows.Err()
}
