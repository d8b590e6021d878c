package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"spelldaily/internal/database"
	"spelldaily/internal/game"
	"spelldaily/internal/models"
	"spelldaily/internal/repository"
)

// newFlowFixture wires a SessionService against a real SQLite database with
// one stored question set.
func newFlowFixture(t *testing.T, set *models.QuestionSet) (*SessionService, *AnalyticsService) {
	t.Helper()
	db, err := database.OpenSQLite(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := []string{
		`CREATE TABLE question_sets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL UNIQUE,
			payload TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE word_analytics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL,
			word TEXT NOT NULL,
			day TEXT NOT NULL,
			session_id TEXT NOT NULL,
			game_type TEXT NOT NULL,
			checks TEXT NOT NULL,
			backspaces TEXT NOT NULL,
			speaker_clicks INTEGER NOT NULL DEFAULT 0,
			start_time INTEGER NOT NULL,
			end_time INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(code, word, day)
		)`,
		`CREATE TABLE session_completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL,
			day TEXT NOT NULL,
			session_id TEXT NOT NULL,
			correct INTEGER NOT NULL,
			total INTEGER NOT NULL,
			failed_words TEXT NOT NULL,
			completed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(code, day)
		)`,
		`CREATE TABLE session_progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL,
			day TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(code, day)
		)`,
		`CREATE TABLE lifecycle_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event TEXT NOT NULL,
			code TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}

	setRepo := repository.NewQuestionSetRepository(db)
	if set != nil {
		payload, _ := json.Marshal(set)
		if _, err := db.Exec(`INSERT INTO question_sets (code, payload) VALUES (?, ?)`, set.Code, string(payload)); err != nil {
			t.Fatalf("failed to store question set: %v", err)
		}
	}

	analytics := NewAnalyticsService(repository.NewAnalyticsRepository(db), repository.NewLifecycleRepository(db))
	sessions := NewSessionService(setRepo, analytics, NewBeaconEmitter(""), time.Hour, time.Hour)
	t.Cleanup(sessions.Stop)
	return sessions, analytics
}

func flowSet() *models.QuestionSet {
	return &models.QuestionSet{
		Code:  "emma",
		Words: []string{"apple", "train"},
		GameSequence: []models.SequenceItem{
			{Word: "word1", Type: models.GameTyping},
			{Word: "word2", Type: models.GameTyping},
		},
	}
}

func TestSessionFlowWritesAnalytics(t *testing.T) {
	sessions, analytics := newFlowFixture(t, flowSet())

	state, err := sessions.Start("emma")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	id := state.SessionID

	// First word: wrong then right, with a backspace and a speaker click.
	if _, err := sessions.Submit(id, game.Submission{Typed: "aple"}, 3); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if err := sessions.RecordBackspace(id, "aple"); err != nil {
		t.Fatalf("RecordBackspace() error: %v", err)
	}
	if err := sessions.RecordSpeakerClick(id); err != nil {
		t.Fatalf("RecordSpeakerClick() error: %v", err)
	}
	if _, err := sessions.Submit(id, game.Submission{Typed: "apple"}, 6); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if _, err := sessions.Continue(id); err != nil {
		t.Fatalf("Continue() error: %v", err)
	}

	// Second word: correct first try.
	if _, err := sessions.Submit(id, game.Submission{Typed: "train"}, 4); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	state, err = sessions.Continue(id)
	if err != nil {
		t.Fatalf("Continue() error: %v", err)
	}
	if state.Phase != models.PhaseCompleted {
		t.Fatalf("phase = %s, want completed", state.Phase)
	}

	day := Day(time.Now())
	records, err := analytics.WordAnalyticsForDay("emma", day)
	if err != nil {
		t.Fatalf("WordAnalyticsForDay() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d word records, want 2", len(records))
	}
	apple := records[0]
	if apple.Word != "apple" || len(apple.Checks) != 2 {
		t.Errorf("apple record = %s with %d checks, want apple with 2", apple.Word, len(apple.Checks))
	}
	if len(apple.Backspaces) != 1 || apple.SpeakerClicks != 1 {
		t.Errorf("apple record backspaces=%v clicks=%d, want 1 and 1", apple.Backspaces, apple.SpeakerClicks)
	}
	if apple.Checks[0].IsCorrect || !apple.Checks[1].IsCorrect {
		t.Error("apple check outcomes are wrong")
	}

	completion, err := analytics.CompletionForDay("emma", day)
	if err != nil {
		t.Fatalf("CompletionForDay() error: %v", err)
	}
	if completion.Correct != 2 || completion.Total != 2 {
		t.Errorf("completion = %d/%d, want 2/2", completion.Correct, completion.Total)
	}
	if len(completion.FailedWords) != 0 {
		t.Errorf("failed words = %v, want none", completion.FailedWords)
	}
}

func TestSessionFlowTestModeWritesNothing(t *testing.T) {
	sessions, analytics := newFlowFixture(t, flowSet())

	state, err := sessions.Start("emmatest")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !state.TestMode {
		t.Fatal("session should be in test mode")
	}
	if state.Code != "emma" {
		t.Fatalf("code = %q, want emma", state.Code)
	}
	id := state.SessionID

	for _, word := range []string{"apple", "train"} {
		if _, err := sessions.Submit(id, game.Submission{Typed: word}, 2); err != nil {
			t.Fatalf("Submit(%s) error: %v", word, err)
		}
		if _, err := sessions.Continue(id); err != nil {
			t.Fatalf("Continue() error: %v", err)
		}
	}

	day := Day(time.Now())
	records, err := analytics.WordAnalyticsForDay("emma", day)
	if err != nil {
		t.Fatalf("WordAnalyticsForDay() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("test mode wrote %d word records", len(records))
	}
	if _, err := analytics.CompletionForDay("emma", day); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("test mode wrote a completion record: %v", err)
	}
}

func TestSessionFlowUnknownCode(t *testing.T) {
	sessions, _ := newFlowFixture(t, nil)

	if _, err := sessions.Start("ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Start() error = %v, want ErrNotFound", err)
	}
}

func TestSessionFlowSaveNow(t *testing.T) {
	sessions, _ := newFlowFixture(t, flowSet())

	state, err := sessions.Start("emma")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if _, err := sessions.Submit(state.SessionID, game.Submission{Typed: "apple"}, 2); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if err := sessions.SaveNow(state.SessionID); err != nil {
		t.Fatalf("SaveNow() error: %v", err)
	}
	if err := sessions.SaveNow("no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SaveNow() error = %v, want ErrSessionNotFound", err)
	}
}

func TestLifecycleBeaconsRecorded(t *testing.T) {
	_, analytics := newFlowFixture(t, nil)

	analytics.RecordLifecycle(models.LifecycleStarted, "emma", false)
	analytics.RecordLifecycle(models.LifecycleStarted, "emma", false)
	analytics.RecordLifecycle(models.LifecycleCompleted, "emma", false)
	analytics.RecordLifecycle(models.LifecycleStarted, "emma", true) // test mode, dropped

	counts, err := analytics.LifecycleCounts("emma")
	if err != nil {
		t.Fatalf("LifecycleCounts() error: %v", err)
	}
	if counts[models.LifecycleStarted] != 2 {
		t.Errorf("started count = %d, want 2", counts[models.LifecycleStarted])
	}
	if counts[models.LifecycleCompleted] != 1 {
		t.Errorf("completed count = %d, want 1", counts[models.LifecycleCompleted])
	}
}
