package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"spelldaily/internal/models"
)

var (
	// ErrSessionCompleted is returned for answer and advance transitions on a
	// finished session. Review and practice passes remain available after
	// completion.
	ErrSessionCompleted = errors.New("session already completed")
	// ErrAlreadyAnswered is returned for a submit while the current question
	// is in a terminal state.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned for a continue before the current question
	// reached a terminal state.
	ErrNotAnswered = errors.New("question not answered yet")
	// ErrNotCelebrating is returned for a celebration acknowledgement when no
	// celebration is showing.
	ErrNotCelebrating = errors.New("no celebration in progress")
	// ErrNoQuestions is returned when a question set resolves to an empty
	// sequence.
	ErrNoQuestions = errors.New("question set produced no questions")
	// ErrNoFailedWords is returned when a review is requested with nothing to
	// review.
	ErrNoFailedWords = errors.New("no failed words to review")
)

// celebrationStreaks are the consecutive-correct counts that trigger a
// celebration, exactly once each per run.
var celebrationStreaks = map[int]bool{3: true, 5: true, 10: true}

// Session drives a player through one question sequence: scoring, attempt
// limits, streak celebrations, the automatic review pass over missed words,
// and completion. All transitions are pure with respect to I/O; side effects
// are emitted as Effect values for the caller to execute. Callers must
// serialize access; transitions assume single-threaded, run-to-completion
// event handling.
type Session struct {
	ID        string
	Code      string
	TestMode  bool
	StartedAt time.Time

	questions    []models.Question
	content      *models.ContentMaps
	streakByWord map[string]int
	rng          *rand.Rand

	currentIndex  int
	phase         models.SessionPhase
	practiceMode  bool
	effectiveType models.GameType
	currentView   *QuestionView

	stats          models.Stats
	originalStats  *models.Stats
	originalFailed []string

	consecutiveCorrect int
	pendingCelebration int

	failedWords map[string]bool
	failedOrder []string

	currentAttempt   int
	previousAttempts []models.Attempt
	keyboard         KeyboardState
}

// BuildQuestions resolves the authored game sequence against the word list.
// Unresolvable word slots are skipped with a warning, and word-parts
// questions whose word has no parts data are dropped (questions of other
// types with missing data are not dropped; they fail when displayed).
func BuildQuestions(set *models.QuestionSet) ([]models.Question, []string) {
	var questions []models.Question
	var warnings []string

	for i, item := range set.GameSequence {
		word, err := set.WordFor(item.Word)
		if err != nil || word == "" {
			warnings = append(warnings, fmt.Sprintf("skipping game %d: no word for slot %q", i+1, item.Word))
			continue
		}
		if !item.Type.Valid() {
			warnings = append(warnings, fmt.Sprintf("skipping game %d: unknown game type %q", i+1, item.Type))
			continue
		}
		if item.Type == models.GameWordParts {
			if _, ok := set.Content.WordParts[word]; !ok {
				warnings = append(warnings, fmt.Sprintf("dropping word-parts question for %q: no parts data", word))
				continue
			}
		}
		questions = append(questions, models.Question{Word: word, Type: item.Type})
	}

	return questions, warnings
}

// NewSession builds a session for a resolved question set. A missing content
// map for the first question's word is fatal to session start.
func NewSession(id, code string, testMode bool, set *models.QuestionSet, rng *rand.Rand) (*Session, []string, error) {
	questions, warnings := BuildQuestions(set)
	if len(questions) == 0 {
		return nil, warnings, ErrNoQuestions
	}

	s := &Session{
		ID:           id,
		Code:         code,
		TestMode:     testMode,
		StartedAt:    time.Now(),
		questions:    questions,
		content:      &set.Content,
		streakByWord: set.StreakByWord,
		rng:          rng,
		failedWords:  make(map[string]bool),
	}

	if err := s.enterQuestion(0); err != nil {
		return nil, warnings, fmt.Errorf("cannot start session: %w", err)
	}
	return s, warnings, nil
}

// enterQuestion prepares the question at idx for display. Nothing is
// committed unless the view builds successfully, so a failure leaves the
// session in its previous valid state.
func (s *Session) enterQuestion(idx int) error {
	q := s.questions[idx]
	effective := ClassifyQuestion(q, s.streakByWord)

	h, ok := HandlerFor(effective)
	if !ok {
		return fmt.Errorf("no handler for game type %q", effective)
	}
	view, err := h.BuildView(q, s.content, s.rng)
	if err != nil {
		return fmt.Errorf("question %d (%s %q): %w", idx+1, effective, q.Word, err)
	}
	view.Index = idx
	view.TotalQuestions = len(s.questions)
	view.PracticeMode = s.practiceMode

	s.currentIndex = idx
	s.effectiveType = effective
	s.currentView = view
	s.phase = models.PhaseUnanswered
	s.currentAttempt = 1
	s.previousAttempts = nil
	s.keyboard = NewKeyboardState()
	return nil
}

// CurrentQuestion returns the current question and the game type it is being
// displayed with.
func (s *Session) CurrentQuestion() (models.Question, models.GameType, bool) {
	if s.phase == models.PhaseCompleted {
		return models.Question{}, "", false
	}
	return s.questions[s.currentIndex], s.effectiveType, true
}

// View returns the render payload for the current question.
func (s *Session) View() *QuestionView { return s.currentView }

// Phase returns the session phase.
func (s *Session) Phase() models.SessionPhase { return s.phase }

// Stats returns the running score of the current pass.
func (s *Session) Stats() models.Stats { return s.stats }

// PracticeMode reports whether the session is in a review/practice pass.
func (s *Session) PracticeMode() bool { return s.practiceMode }

// ConsecutiveCorrect returns the in-session streak counter.
func (s *Session) ConsecutiveCorrect() int { return s.consecutiveCorrect }

// FailedWords returns the words missed in non-practice mode, in first-failure
// order. Words are never removed, even when answered correctly in review.
func (s *Session) FailedWords() []string {
	out := make([]string, len(s.failedOrder))
	copy(out, s.failedOrder)
	return out
}

// PreviousAttempts returns the attempt history for the current question.
func (s *Session) PreviousAttempts() []models.Attempt {
	out := make([]models.Attempt, len(s.previousAttempts))
	copy(out, s.previousAttempts)
	return out
}

// Keyboard returns the per-key coloring state for the current question.
func (s *Session) Keyboard() KeyboardState { return s.keyboard }

// Submit checks a submission against the current question. An incomplete
// submission produces a prompt without consuming an attempt; an incorrect
// answer with an attempt remaining (typing and fillups only) returns the
// question to the unanswered state; everything else reaches a terminal state
// and unlocks Continue.
func (s *Session) Submit(sub Submission, timeTakenSec int) ([]Effect, error) {
	if s.phase == models.PhaseCompleted {
		return nil, ErrSessionCompleted
	}
	if s.phase != models.PhaseUnanswered {
		return nil, ErrAlreadyAnswered
	}

	q := s.questions[s.currentIndex]
	h, _ := HandlerFor(s.effectiveType)

	eval, err := h.Evaluate(q, sub, s.currentView, s.content)
	if errors.Is(err, ErrIncomplete) {
		return []Effect{ShowFeedbackEffect{IsCorrect: false, Message: "Please select an option."}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("question %d (%s %q): %w", s.currentIndex+1, s.effectiveType, q.Word, err)
	}

	s.previousAttempts = append(s.previousAttempts, models.Attempt{
		Word:          eval.NormalizedAnswer,
		IsCorrect:     eval.IsCorrect,
		AttemptNumber: s.currentAttempt,
		TimeTakenSec:  timeTakenSec,
	})
	if s.effectiveType.IsTypingFamily() {
		s.keyboard.Apply(eval.NormalizedAnswer, q.Word)
	}

	if !eval.IsCorrect && s.currentAttempt < h.AttemptLimit() {
		s.currentAttempt++
		return []Effect{ShowFeedbackEffect{
			IsCorrect: false,
			Message:   fmt.Sprintf("Try again! Attempt %d of %d", s.currentAttempt, h.AttemptLimit()),
		}}, nil
	}

	return s.finishQuestion(eval, false), nil
}

// Timeout force-evaluates a full-typing question as incorrect with the
// partial input retained. A timeout arriving after the question already
// transitioned is a no-op, so a late timer cannot corrupt the session.
func (s *Session) Timeout(partialInput string) []Effect {
	if s.phase != models.PhaseUnanswered || s.effectiveType != models.GameFullTyping {
		return nil
	}

	q := s.questions[s.currentIndex]
	normalized := strings.ToLower(strings.TrimSpace(partialInput))

	s.previousAttempts = append(s.previousAttempts, models.Attempt{
		Word:          normalized,
		IsCorrect:     false,
		AttemptNumber: s.currentAttempt,
		TimeTakenSec:  FullTypingTimeLimitSec,
	})
	s.keyboard.Apply(normalized, q.Word)

	return s.finishQuestion(Evaluation{
		NormalizedAnswer: normalized,
		Letters:          LetterFeedback(normalized, strings.ToLower(q.Word)),
		CorrectAnswer:    q.Word,
	}, true)
}

// finishQuestion commits a terminal evaluation: scoring, streak tracking,
// failed-word accumulation, and the feedback effects.
func (s *Session) finishQuestion(eval Evaluation, timedOut bool) []Effect {
	q := s.questions[s.currentIndex]
	s.phase = models.PhaseAnswered
	s.stats.Total++

	var effects []Effect
	if eval.IsCorrect {
		s.stats.Correct++
		s.consecutiveCorrect++
		if celebrationStreaks[s.consecutiveCorrect] {
			s.pendingCelebration = s.consecutiveCorrect
		}
		effects = append(effects,
			PlaySoundEffect{Kind: SoundCorrect},
			ShowFeedbackEffect{IsCorrect: true, Message: "Correct! Well done!"},
		)
	} else {
		s.consecutiveCorrect = 0
		if !s.practiceMode && !s.failedWords[q.Word] {
			s.failedWords[q.Word] = true
			s.failedOrder = append(s.failedOrder, q.Word)
		}
		message := fmt.Sprintf("Incorrect. The correct answer is %q", strings.ToUpper(eval.CorrectAnswer))
		if timedOut {
			message = fmt.Sprintf("Time's up! The correct answer is %q", strings.ToUpper(eval.CorrectAnswer))
		}
		effects = append(effects,
			PlaySoundEffect{Kind: SoundIncorrect},
			RevealAnswerEffect{Answer: eval.CorrectAnswer, Letters: eval.Letters},
			ShowFeedbackEffect{IsCorrect: false, Message: message},
		)
	}
	return effects
}

// Continue advances past a terminally answered question. Typing-family
// analytics are flushed first; a pending streak celebration interrupts the
// advance and defers the index increment until CelebrationDone.
func (s *Session) Continue() ([]Effect, error) {
	if s.phase == models.PhaseCompleted {
		return nil, ErrSessionCompleted
	}
	if s.phase != models.PhaseAnswered {
		return nil, ErrNotAnswered
	}

	var effects []Effect
	if s.effectiveType.IsTypingFamily() {
		effects = append(effects, FlushAnalyticsEffect{
			Word:     s.questions[s.currentIndex].Word,
			GameType: s.effectiveType,
		})
	}

	if s.pendingCelebration > 0 {
		streak := s.pendingCelebration
		s.pendingCelebration = 0
		if streak == 10 {
			s.consecutiveCorrect = 0
		}
		s.phase = models.PhaseCelebrating
		return append(effects, ShowCelebrationEffect{Streak: streak}), nil
	}

	advanced, err := s.advance()
	return append(effects, advanced...), err
}

// CelebrationDone acknowledges a streak celebration and performs the
// deferred advance.
func (s *Session) CelebrationDone() ([]Effect, error) {
	if s.phase != models.PhaseCelebrating {
		return nil, ErrNotCelebrating
	}
	return s.advance()
}

// advance moves to the next question, or handles pass completion: an
// automatic review pass over the failed words after the main pass, and the
// final completion signal otherwise. The review pass never recurses.
func (s *Session) advance() ([]Effect, error) {
	next := s.currentIndex + 1
	if next < len(s.questions) {
		if err := s.enterQuestion(next); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if !s.practiceMode && len(s.failedOrder) > 0 {
		words := s.FailedWords()
		if err := s.startPass(words, models.GameTyping); err != nil {
			return nil, err
		}
		return []Effect{ReviewStartedEffect{Words: words}}, nil
	}

	s.phase = models.PhaseCompleted
	s.currentView = nil
	correct, total := s.stats.Correct, s.stats.Total
	if s.originalStats != nil {
		correct, total = s.originalStats.Correct, s.originalStats.Total
	}
	failed := s.originalFailed
	if failed == nil {
		failed = s.FailedWords()
	}
	return []Effect{CompletedEffect{Correct: correct, Total: total, FailedWords: failed}}, nil
}

// StartReview manually starts a review pass over the supplied words (or the
// session's failed words when none are given), with the same semantics as
// the automatic review: typing questions, stats reset for the pass, original
// stats preserved for final reporting. Available from the completion screen;
// completing the extra pass re-emits the completion effect, which downstream
// recording treats as a duplicate.
func (s *Session) StartReview(words []string) ([]Effect, error) {
	if len(words) == 0 {
		words = s.FailedWords()
	}
	if len(words) == 0 {
		return nil, ErrNoFailedWords
	}
	if err := s.startPass(words, models.GameTyping); err != nil {
		return nil, err
	}
	return []Effect{ReviewStartedEffect{Words: words}}, nil
}

// StartChoicePractice starts a practice pass of 4-option questions over the
// failed words. Unlike review, it is a drill the player opts into from the
// completion screen; the stats reset happens on entry and the original
// pass's score still drives the final report.
func (s *Session) StartChoicePractice() ([]Effect, error) {
	words := s.FailedWords()
	if len(words) == 0 {
		return nil, ErrNoFailedWords
	}
	if err := s.startPass(words, models.GameFourOption); err != nil {
		return nil, err
	}
	return []Effect{ReviewStartedEffect{Words: words}}, nil
}

// startPass swaps in a new linear question list over words and resets the
// per-pass counters. The original pass's stats and failed-word order are
// captured once, the first time a secondary pass begins.
func (s *Session) startPass(words []string, gameType models.GameType) error {
	questions := make([]models.Question, 0, len(words))
	for _, w := range words {
		questions = append(questions, models.Question{Word: w, Type: gameType})
	}

	prevQuestions := s.questions
	prevStats := s.stats
	s.questions = questions

	if s.originalStats == nil {
		s.originalStats = &prevStats
		s.originalFailed = s.FailedWords()
	}
	s.practiceMode = true
	s.stats = models.Stats{}

	if err := s.enterQuestion(0); err != nil {
		// Roll back so the session stays valid.
		s.questions = prevQuestions
		s.stats = prevStats
		return err
	}
	return nil
}

// Progress captures the autosave snapshot of the session.
func (s *Session) Progress() models.SessionProgress {
	return models.SessionProgress{
		Code:               s.Code,
		SessionID:          s.ID,
		CurrentIndex:       s.currentIndex,
		Stats:              s.stats,
		Questions:          append([]models.Question(nil), s.questions...),
		IsPracticeMode:     s.practiceMode,
		ConsecutiveCorrect: s.consecutiveCorrect,
		FailedWords:        s.FailedWords(),
		IsCompleted:        s.phase == models.PhaseCompleted,
		StartedAt:          s.StartedAt,
		UpdatedAt:          time.Now(),
	}
}
