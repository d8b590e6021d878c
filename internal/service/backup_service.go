package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"spelldaily/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string             `json:"version"`
	ExportedAt   time.Time          `json:"exported_at"`
	QuestionSets []QuestionSetRow   `json:"question_sets"`
	WordRecords  []WordAnalyticsRow `json:"word_analytics"`
	Completions  []CompletionRow    `json:"session_completions"`
	Lifecycle    []LifecycleRow     `json:"lifecycle_events"`
	Admins       []AdminRow         `json:"admin_users"`
}

// QuestionSetRow is a question set record for backup. The payload stays as the
// stored JSON document.
type QuestionSetRow struct {
	Code    string          `json:"code"`
	Payload json.RawMessage `json:"payload"`
}

// WordAnalyticsRow is a per-word analytics record for backup.
type WordAnalyticsRow struct {
	Code          string          `json:"code"`
	Word          string          `json:"word"`
	Day           string          `json:"day"`
	GameType      string          `json:"game_type"`
	Checks        json.RawMessage `json:"checks"`
	Backspaces    json.RawMessage `json:"backspaces"`
	SpeakerClicks int             `json:"speaker_clicks"`
	StartTime     int64           `json:"start_time"`
	EndTime       int64           `json:"end_time"`
	SessionID     string          `json:"session_id"`
}

// CompletionRow is a session completion record for backup.
type CompletionRow struct {
	Code        string          `json:"code"`
	Day         string          `json:"day"`
	Correct     int             `json:"correct"`
	Total       int             `json:"total"`
	FailedWords json.RawMessage `json:"failed_words"`
	SessionID   string          `json:"session_id"`
}

// LifecycleRow is a lifecycle beacon record for backup.
type LifecycleRow struct {
	Event string `json:"event"`
	Code  string `json:"code"`
}

// AdminRow is an admin account record for backup.
type AdminRow struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	GoogleSub    string `json:"google_sub"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportQuestionSets(backup); err != nil {
		return fmt.Errorf("failed to export question sets: %w", err)
	}
	if err := s.exportWordAnalytics(backup); err != nil {
		return fmt.Errorf("failed to export word analytics: %w", err)
	}
	if err := s.exportCompletions(backup); err != nil {
		return fmt.Errorf("failed to export completions: %w", err)
	}
	if err := s.exportLifecycle(backup); err != nil {
		return fmt.Errorf("failed to export lifecycle events: %w", err)
	}
	if err := s.exportAdmins(backup); err != nil {
		return fmt.Errorf("failed to export admin users: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	log.Printf("Export complete: %d sets, %d word records, %d completions, %d beacons, %d admins",
		len(backup.QuestionSets), len(backup.WordRecords), len(backup.Completions),
		len(backup.Lifecycle), len(backup.Admins))
	return nil
}

// Import restores a backup file into the database. Existing write-once records
// win over imported ones.
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}

	log.Printf("Importing backup from %s (exported %s)", inputPath, backup.ExportedAt.Format(time.RFC3339))

	for _, row := range backup.QuestionSets {
		if _, err := s.db.ExecInsertIgnore("question_sets",
			[]string{"code", "payload"}, []string{"code"},
			row.Code, string(row.Payload)); err != nil {
			return fmt.Errorf("failed to import question set %s: %w", row.Code, err)
		}
	}
	for _, row := range backup.WordRecords {
		if _, err := s.db.ExecInsertIgnore("word_analytics",
			[]string{"code", "word", "day", "game_type", "checks", "backspaces", "speaker_clicks", "start_time", "end_time", "session_id"},
			[]string{"code", "word", "day"},
			row.Code, row.Word, row.Day, row.GameType, string(row.Checks), string(row.Backspaces),
			row.SpeakerClicks, row.StartTime, row.EndTime, row.SessionID); err != nil {
			return fmt.Errorf("failed to import word analytics for %s/%s: %w", row.Code, row.Word, err)
		}
	}
	for _, row := range backup.Completions {
		if _, err := s.db.ExecInsertIgnore("session_completions",
			[]string{"code", "day", "correct", "total", "failed_words", "session_id"},
			[]string{"code", "day"},
			row.Code, row.Day, row.Correct, row.Total, string(row.FailedWords), row.SessionID); err != nil {
			return fmt.Errorf("failed to import completion for %s: %w", row.Code, err)
		}
	}
	for _, row := range backup.Lifecycle {
		if _, err := s.db.Exec("INSERT INTO lifecycle_events (event, code) VALUES (?, ?)", row.Event, row.Code); err != nil {
			return fmt.Errorf("failed to import lifecycle event: %w", err)
		}
	}
	for _, row := range backup.Admins {
		if _, err := s.db.ExecInsertIgnore("admin_users",
			[]string{"email", "password_hash", "google_sub"}, []string{"email"},
			row.Email, row.PasswordHash, row.GoogleSub); err != nil {
			return fmt.Errorf("failed to import admin %s: %w", row.Email, err)
		}
	}

	log.Println("Import complete")
	return nil
}

func (s *BackupService) exportQuestionSets(backup *BackupData) error {
	rows, err := s.db.Query("SELECT code, payload FROM question_sets ORDER BY code")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row QuestionSetRow
		var payload string
		if err := rows.Scan(&row.Code, &payload); err != nil {
			return err
		}
		row.Payload = json.RawMessage(payload)
		backup.QuestionSets = append(backup.QuestionSets, row)
	}
	return rows.Err()
}

func (s *BackupService) exportWordAnalytics(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT code, word, day, game_type, checks, backspaces, speaker_clicks, start_time, end_time, session_id
		FROM word_analytics ORDER BY day, code, word`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row WordAnalyticsRow
		var checks, backspaces string
		if err := rows.Scan(&row.Code, &row.Word, &row.Day, &row.GameType, &checks, &backspaces,
			&row.SpeakerClicks, &row.StartTime, &row.EndTime, &row.SessionID); err != nil {
			return err
		}
		row.Checks = json.RawMessage(checks)
		row.Backspaces = json.RawMessage(backspaces)
		backup.WordRecords = append(backup.WordRecords, row)
	}
	return rows.Err()
}

func (s *BackupService) exportCompletions(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT code, day, correct, total, failed_words, session_id
		FROM session_completions ORDER BY day, code`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row CompletionRow
		var failed string
		if err := rows.Scan(&row.Code, &row.Day, &row.Correct, &row.Total, &failed, &row.SessionID); err != nil {
			return err
		}
		row.FailedWords = json.RawMessage(failed)
		backup.Completions = append(backup.Completions, row)
	}
	return rows.Err()
}

func (s *BackupService) exportLifecycle(backup *BackupData) error {
	rows, err := s.db.Query("SELECT event, code FROM lifecycle_events ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row LifecycleRow
		if err := rows.Scan(&row.Event, &row.Code); err != nil {
			return err
		}
		backup.Lifecycle = append(backup.Lifecycle, row)
	}
	return rows.Err()
}

func (s *BackupService) exportAdmins(backup *BackupData) error {
	rows, err := s.db.Query("SELECT email, password_hash, COALESCE(google_sub, '') FROM admin_users ORDER BY email")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row AdminRow
		if err := rows.Scan(&row.Email, &row.PasswordHash, &row.GoogleSub); err != nil {
			return err
		}
		backup.Admins = append(backup.Admins, row)
	}
	return rows.Err()
}
