package models

import "time"

// CheckEntry is one press of the check button during a typing-family question,
// captured for the per-word analytics record.
type CheckEntry struct {
	Word           string `json:"word"`
	TimeTakenSec   int    `json:"timeTaken"`
	IsCorrect      bool   `json:"isCorrect"`
	IsFirstAttempt bool   `json:"isFirstAttempt"`
}

// WordAnalytics is the durable per-(code, word, day) record for typing-family
// games. It is written at most once per day for a given code and word; later
// writes for the same key are silent no-ops.
type WordAnalytics struct {
	ID            int64        `json:"-"`
	Code          string       `json:"code"`
	Word          string       `json:"word"`
	GameType      GameType     `json:"gameType"`
	Day           string       `json:"submittedAt"` // YYYY-MM-DD
	Checks        []CheckEntry `json:"check"`
	Backspaces    []string     `json:"backspace"`
	SpeakerClicks int          `json:"speakerClicks"`
	StartTime     int64        `json:"startTime"` // unix seconds
	EndTime       int64        `json:"endTime"`
	SessionID     string       `json:"sessionId"`
	CreatedAt     time.Time    `json:"-"`
}

// SessionCompletion is the per-(code, day) completion record carrying the
// original-pass score. Review-pass stats are never blended in.
type SessionCompletion struct {
	ID          int64     `json:"-"`
	Code        string    `json:"code"`
	Day         string    `json:"day"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	FailedWords []string  `json:"failedWords"`
	SessionID   string    `json:"sessionId"`
	CompletedAt time.Time `json:"completedAt"`
}

// LifecycleEvent is a fire-and-forget "started"/"completed" beacon carrying
// only the user code.
type LifecycleEvent struct {
	ID        int64     `json:"-"`
	Code      string    `json:"testCode"`
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	LifecycleStarted   = "started"
	LifecycleCompleted = "completed"
)
