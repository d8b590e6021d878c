package service

import (
	"log"
	"time"

	"spelldaily/internal/models"
	"spelldaily/internal/repository"
)

// Day formats a time as the YYYY-MM-DD key the write-once tables use.
func Day(t time.Time) string {
	return t.Format("2006-01-02")
}

// WordRecorder accumulates keystroke-level analytics for the typing-family
// question currently on screen: every check, every backspace, every replay of
// the word audio. The recorder is owned by a live session and accessed under
// its lock.
type WordRecorder struct {
	code      string
	sessionID string
	testMode  bool

	word          string
	gameType      models.GameType
	startTime     int64
	checks        []models.CheckEntry
	backspaces    []string
	speakerClicks int
	active        bool
}

// NewWordRecorder creates a recorder for one session.
func NewWordRecorder(code, sessionID string, testMode bool) *WordRecorder {
	return &WordRecorder{code: code, sessionID: sessionID, testMode: testMode}
}

// BeginWord starts accumulation for a new typing-family question. Anything
// unflushed from the previous word is discarded.
func (r *WordRecorder) BeginWord(word string, gameType models.GameType) {
	r.word = word
	r.gameType = gameType
	r.startTime = time.Now().Unix()
	r.checks = nil
	r.backspaces = nil
	r.speakerClicks = 0
	r.active = true
}

// AddCheck records one press of the check button.
func (r *WordRecorder) AddCheck(entry models.CheckEntry) {
	if r.active {
		r.checks = append(r.checks, entry)
	}
}

// AddBackspace records a backspace with the input value it removed from.
func (r *WordRecorder) AddBackspace(value string) {
	if r.active {
		r.backspaces = append(r.backspaces, value)
	}
}

// AddSpeakerClick records a replay of the word audio.
func (r *WordRecorder) AddSpeakerClick() {
	if r.active {
		r.speakerClicks++
	}
}

// take closes out the current word and returns the accumulated record.
func (r *WordRecorder) take() *models.WordAnalytics {
	if !r.active {
		return nil
	}
	record := &models.WordAnalytics{
		Code:          r.code,
		Word:          r.word,
		GameType:      r.gameType,
		Day:           Day(time.Now()),
		Checks:        r.checks,
		Backspaces:    r.backspaces,
		SpeakerClicks: r.speakerClicks,
		StartTime:     r.startTime,
		EndTime:       time.Now().Unix(),
		SessionID:     r.sessionID,
	}
	if record.Checks == nil {
		record.Checks = []models.CheckEntry{}
	}
	if record.Backspaces == nil {
		record.Backspaces = []string{}
	}
	r.active = false
	return record
}

// CompletionNotifier receives the completion record after its first successful
// write. Notification is best-effort and must not block or fail the write.
type CompletionNotifier interface {
	NotifyCompletion(c *models.SessionCompletion)
}

// AnalyticsService persists session analytics. Every write path honors two
// rules: test-mode sessions never write, and each (key, day) record is
// written at most once.
type AnalyticsService struct {
	analyticsRepo *repository.AnalyticsRepository
	lifecycleRepo *repository.LifecycleRepository
	notifier      CompletionNotifier
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(analyticsRepo *repository.AnalyticsRepository, lifecycleRepo *repository.LifecycleRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo, lifecycleRepo: lifecycleRepo}
}

// SetCompletionNotifier registers the notifier called after the first
// completion write of the day.
func (s *AnalyticsService) SetCompletionNotifier(n CompletionNotifier) {
	s.notifier = n
}

// FlushWord persists the recorder's current word and resets it. Called when
// the player advances past a typing-family question.
func (s *AnalyticsService) FlushWord(rec *WordRecorder) {
	record := rec.take()
	if record == nil {
		return
	}
	if rec.testMode {
		log.Printf("Test mode: skipping analytics for word %q (code %s)", record.Word, record.Code)
		return
	}

	inserted, err := s.analyticsRepo.SaveWordAnalytics(record)
	if err != nil {
		// Analytics must never break gameplay.
		log.Printf("Error saving word analytics for %s/%s: %v", record.Code, record.Word, err)
		return
	}
	if !inserted {
		log.Printf("Word analytics already recorded today for %s/%s, keeping first record", record.Code, record.Word)
	}
}

// RecordCompletion persists the end-of-session record with the original
// pass's score.
func (s *AnalyticsService) RecordCompletion(code, sessionID string, testMode bool, correct, total int, failedWords []string) {
	if testMode {
		log.Printf("Test mode: skipping completion record for code %s", code)
		return
	}
	if failedWords == nil {
		failedWords = []string{}
	}

	completion := &models.SessionCompletion{
		Code:        code,
		Day:         Day(time.Now()),
		SessionID:   sessionID,
		Correct:     correct,
		Total:       total,
		FailedWords: failedWords,
	}
	inserted, err := s.analyticsRepo.SaveSessionCompletion(completion)
	if err != nil {
		log.Printf("Error saving completion for %s: %v", code, err)
		return
	}
	if !inserted {
		log.Printf("Completion already recorded today for %s, keeping first record", code)
		return
	}
	if s.notifier != nil {
		s.notifier.NotifyCompletion(completion)
	}
}

// SaveProgress persists an autosave snapshot. The first snapshot of the day
// for a code wins.
func (s *AnalyticsService) SaveProgress(testMode bool, p models.SessionProgress) {
	if testMode {
		return
	}
	if _, err := s.analyticsRepo.SaveProgress(Day(time.Now()), &p); err != nil {
		log.Printf("Error saving progress for %s: %v", p.Code, err)
	}
}

// RecordLifecycle stores a started/completed beacon.
func (s *AnalyticsService) RecordLifecycle(event, code string, testMode bool) {
	if testMode {
		log.Printf("Test mode: skipping %s beacon for code %s", event, code)
		return
	}
	if err := s.lifecycleRepo.Record(event, code); err != nil {
		log.Printf("Error recording %s beacon for %s: %v", event, code, err)
	}
}

// WordAnalyticsForDay exposes the stored per-word records for inspection.
func (s *AnalyticsService) WordAnalyticsForDay(code, day string) ([]models.WordAnalytics, error) {
	return s.analyticsRepo.GetWordAnalytics(code, day)
}

// CompletionForDay exposes the stored completion record for inspection.
func (s *AnalyticsService) CompletionForDay(code, day string) (*models.SessionCompletion, error) {
	return s.analyticsRepo.GetSessionCompletion(code, day)
}

// CompletionsForDay lists every completion on a day, for the operator digest.
func (s *AnalyticsService) CompletionsForDay(day string) ([]models.SessionCompletion, error) {
	return s.analyticsRepo.ListCompletionsForDay(day)
}

// LifecycleCounts returns per-event beacon counts for a code.
func (s *AnalyticsService) LifecycleCounts(code string) (map[string]int, error) {
	return s.lifecycleRepo.CountByEvent(code)
}
