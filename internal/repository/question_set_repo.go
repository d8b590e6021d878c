package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"spelldaily/internal/database"
	"spelldaily/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// QuestionSetRepository stores the authored question set documents. Each set
// is one JSON payload keyed by its code; the structure inside the payload is
// owned by the admin tooling and the game only reads it.
type QuestionSetRepository struct {
	db database.DBTX
}

// NewQuestionSetRepository creates a new question set repository
func NewQuestionSetRepository(db database.DBTX) *QuestionSetRepository {
	return &QuestionSetRepository{db: db}
}

// GetByCode retrieves the question set for a code.
func (r *QuestionSetRepository) GetByCode(code string) (*models.QuestionSet, error) {
	query := `SELECT payload FROM question_sets WHERE code = ?`

	var payload string
	err := r.db.QueryRow(query, code).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load question set %q: %w", code, err)
	}

	var set models.QuestionSet
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		return nil, fmt.Errorf("corrupt question set payload for %q: %w", code, err)
	}
	set.Code = code
	return &set, nil
}

// Save inserts or replaces the question set for its code.
func (r *QuestionSetRepository) Save(set *models.QuestionSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode question set %q: %w", set.Code, err)
	}

	now := time.Now()
	result, err := r.db.Exec(
		`UPDATE question_sets SET payload = ?, updated_at = ? WHERE code = ?`,
		string(payload), now, set.Code,
	)
	if err != nil {
		return fmt.Errorf("failed to update question set %q: %w", set.Code, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	_, err = r.db.Exec(
		`INSERT INTO question_sets (code, payload, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		set.Code, string(payload), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question set %q: %w", set.Code, err)
	}
	return nil
}

// Delete removes the question set for a code.
func (r *QuestionSetRepository) Delete(code string) error {
	result, err := r.db.Exec(`DELETE FROM question_sets WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("failed to delete question set %q: %w", code, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCodes returns every stored code with its last update time, newest
// first.
func (r *QuestionSetRepository) ListCodes() ([]models.QuestionSetSummary, error) {
	query := `SELECT code, updated_at FROM question_sets ORDER BY updated_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list question sets: %w", err)
	}
	defer rows.Close()

	var summaries []models.QuestionSetSummary
	for rows.Next() {
		var s models.QuestionSetSummary
		if err := rows.Scan(&s.Code, &s.UpdatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
