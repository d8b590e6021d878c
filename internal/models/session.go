package models

import "time"

// SessionPhase tracks where the player is inside the current question.
type SessionPhase string

const (
	// PhaseUnanswered means the current question is awaiting a submission.
	PhaseUnanswered SessionPhase = "unanswered"
	// PhaseAnswered means the question reached a terminal state and the
	// continue transition is unlocked.
	PhaseAnswered SessionPhase = "answered"
	// PhaseCelebrating means a streak celebration is being shown; the advance
	// to the next question is deferred until the client acknowledges it.
	PhaseCelebrating SessionPhase = "celebrating"
	// PhaseCompleted means the session (including any review pass) is done.
	PhaseCompleted SessionPhase = "completed"
)

// Stats is the running score for one pass over a question list.
type Stats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Attempt is one submitted answer for the current question.
type Attempt struct {
	Word          string `json:"word"`
	IsCorrect     bool   `json:"isCorrect"`
	AttemptNumber int    `json:"attempt"`
	TimeTakenSec  int    `json:"timeTaken"`
}

// SessionProgress is the autosaved snapshot of an in-flight session, persisted
// write-once per (code, day).
type SessionProgress struct {
	Code               string     `json:"usercode"`
	SessionID          string     `json:"sessionId"`
	CurrentIndex       int        `json:"currentQuestionIndex"`
	Stats              Stats      `json:"stats"`
	Questions          []Question `json:"allQuestions"`
	IsPracticeMode     bool       `json:"isPracticeMode"`
	ConsecutiveCorrect int        `json:"consecutiveCorrect"`
	FailedWords        []string   `json:"failedWords"`
	IsCompleted        bool       `json:"isCompleted"`
	StartedAt          time.Time  `json:"gameStarted"`
	UpdatedAt          time.Time  `json:"lastUpdated"`
}
