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

// AnalyticsRepository persists the write-once analytics records. All three
// tables share the same contract: the first write for the unique key wins and
// later writes are ignored at the database level, so a replayed flush or a
// duplicated unload save can never overwrite real data.
type AnalyticsRepository struct {
	db database.DBTX
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db database.DBTX) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// SaveWordAnalytics writes the per-word record, keyed on (code, word, day).
// Returns false when a record for that key already exists.
func (r *AnalyticsRepository) SaveWordAnalytics(a *models.WordAnalytics) (bool, error) {
	checks, err := json.Marshal(a.Checks)
	if err != nil {
		return false, fmt.Errorf("failed to encode checks: %w", err)
	}
	backspaces, err := json.Marshal(a.Backspaces)
	if err != nil {
		return false, fmt.Errorf("failed to encode backspaces: %w", err)
	}

	inserted, err := r.db.ExecInsertIgnore(
		"word_analytics",
		[]string{"code", "word", "day", "session_id", "game_type", "checks", "backspaces", "speaker_clicks", "start_time", "end_time"},
		[]string{"code", "word", "day"},
		a.Code, a.Word, a.Day, a.SessionID, string(a.GameType), string(checks), string(backspaces), a.SpeakerClicks, a.StartTime, a.EndTime,
	)
	if err != nil {
		return false, fmt.Errorf("failed to save word analytics for %s/%s: %w", a.Code, a.Word, err)
	}
	return inserted, nil
}

// SaveSessionCompletion writes the per-day completion record, keyed on
// (code, day). Returns false when the day's completion already exists.
func (r *AnalyticsRepository) SaveSessionCompletion(c *models.SessionCompletion) (bool, error) {
	failed, err := json.Marshal(c.FailedWords)
	if err != nil {
		return false, fmt.Errorf("failed to encode failed words: %w", err)
	}

	inserted, err := r.db.ExecInsertIgnore(
		"session_completions",
		[]string{"code", "day", "session_id", "correct", "total", "failed_words", "completed_at"},
		[]string{"code", "day"},
		c.Code, c.Day, c.SessionID, c.Correct, c.Total, string(failed), time.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to save completion for %s: %w", c.Code, err)
	}
	return inserted, nil
}

// SaveProgress writes the autosave snapshot, keyed on (code, day). The first
// snapshot of the day wins; later autosaves for the same key are dropped so a
// second device cannot clobber the first run.
func (r *AnalyticsRepository) SaveProgress(day string, p *models.SessionProgress) (bool, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("failed to encode progress: %w", err)
	}

	inserted, err := r.db.ExecInsertIgnore(
		"session_progress",
		[]string{"code", "day", "payload"},
		[]string{"code", "day"},
		p.Code, day, string(payload),
	)
	if err != nil {
		return false, fmt.Errorf("failed to save progress for %s: %w", p.Code, err)
	}
	return inserted, nil
}

// GetWordAnalytics retrieves every per-word record for a code on a day, in
// insert order.
func (r *AnalyticsRepository) GetWordAnalytics(code, day string) ([]models.WordAnalytics, error) {
	query := `
		SELECT id, code, word, day, session_id, game_type, checks, backspaces,
		       speaker_clicks, start_time, end_time, created_at
		FROM word_analytics
		WHERE code = ? AND day = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, code, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query word analytics: %w", err)
	}
	defer rows.Close()

	var records []models.WordAnalytics
	for rows.Next() {
		var a models.WordAnalytics
		var checks, backspaces string
		err := rows.Scan(
			&a.ID, &a.Code, &a.Word, &a.Day, &a.SessionID, &a.GameType,
			&checks, &backspaces, &a.SpeakerClicks, &a.StartTime, &a.EndTime, &a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(checks), &a.Checks); err != nil {
			return nil, fmt.Errorf("corrupt checks for %s/%s: %w", a.Code, a.Word, err)
		}
		if err := json.Unmarshal([]byte(backspaces), &a.Backspaces); err != nil {
			return nil, fmt.Errorf("corrupt backspaces for %s/%s: %w", a.Code, a.Word, err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// GetSessionCompletion retrieves the completion record for a code on a day.
func (r *AnalyticsRepository) GetSessionCompletion(code, day string) (*models.SessionCompletion, error) {
	query := `
		SELECT id, code, day, session_id, correct, total, failed_words, completed_at
		FROM session_completions
		WHERE code = ? AND day = ?
	`

	var c models.SessionCompletion
	var failed string
	err := r.db.QueryRow(query, code, day).Scan(
		&c.ID, &c.Code, &c.Day, &c.SessionID, &c.Correct, &c.Total, &failed, &c.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load completion for %s: %w", code, err)
	}
	if err := json.Unmarshal([]byte(failed), &c.FailedWords); err != nil {
		return nil, fmt.Errorf("corrupt failed words for %s: %w", code, err)
	}
	return &c, nil
}

// ListCompletionsForDay retrieves every completion recorded on a day, for the
// operator digest.
func (r *AnalyticsRepository) ListCompletionsForDay(day string) ([]models.SessionCompletion, error) {
	query := `
		SELECT id, code, day, session_id, correct, total, failed_words, completed_at
		FROM session_completions
		WHERE day = ?
		ORDER BY completed_at ASC
	`

	rows, err := r.db.Query(query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var completions []models.SessionCompletion
	for rows.Next() {
		var c models.SessionCompletion
		var failed string
		if err := rows.Scan(&c.ID, &c.Code, &c.Day, &c.SessionID, &c.Correct, &c.Total, &failed, &c.CompletedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(failed), &c.FailedWords); err != nil {
			return nil, fmt.Errorf("corrupt failed words for %s: %w", c.Code, err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}
