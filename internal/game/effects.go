package game

import "spelldaily/internal/models"

// SoundKind names the audio cues the presentation layer can play.
type SoundKind string

const (
	SoundCorrect   SoundKind = "correct"
	SoundIncorrect SoundKind = "incorrect"
)

// Effect is a side-effect requested by a session transition. The state
// machine never performs I/O itself; it emits effects and the caller
// (service layer, and ultimately the client) carries them out.
type Effect interface {
	isEffect()
}

// ShowFeedbackEffect displays a correctness banner.
type ShowFeedbackEffect struct {
	IsCorrect bool
	Message   string
}

// PlaySoundEffect plays a success or failure cue.
type PlaySoundEffect struct {
	Kind SoundKind
}

// RevealAnswerEffect shows the correct answer after a terminal incorrect,
// with per-letter highlights for typing-family questions.
type RevealAnswerEffect struct {
	Answer  string
	Letters []LetterStatus
}

// ShowCelebrationEffect interrupts the advance with a streak celebration.
// The next question must not be shown until the celebration is acknowledged.
type ShowCelebrationEffect struct {
	Streak int
}

// FlushAnalyticsEffect asks the recorder to persist the accumulated
// typing-family analytics for the question just left.
type FlushAnalyticsEffect struct {
	Word     string
	GameType models.GameType
}

// ReviewStartedEffect signals that a review pass over the failed words has
// begun.
type ReviewStartedEffect struct {
	Words []string
}

// CompletedEffect is the final completion signal. Correct/Total always carry
// the original pass's tally, never the review pass's.
type CompletedEffect struct {
	Correct     int
	Total       int
	FailedWords []string
}

func (ShowFeedbackEffect) isEffect()    {}
func (PlaySoundEffect) isEffect()       {}
func (RevealAnswerEffect) isEffect()    {}
func (ShowCelebrationEffect) isEffect() {}
func (FlushAnalyticsEffect) isEffect()  {}
func (ReviewStartedEffect) isEffect()   {}
func (CompletedEffect) isEffect()       {}
