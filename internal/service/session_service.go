package service

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"spelldaily/internal/game"
	"spelldaily/internal/models"
	"spelldaily/internal/repository"
)

// ErrSessionNotFound is returned when a session ID has no live session.
var ErrSessionNotFound = errors.New("session not found")

// testCodeSuffix marks a code as a dry run: the suffix is stripped before the
// question set lookup and every persistent write is suppressed.
const testCodeSuffix = "test"

// ResolveCode splits a player-entered code into the lookup code and the
// test-mode flag. The suffix check is case-insensitive; a bare "test"
// resolves to test mode with an empty lookup code, which no question set
// matches.
func ResolveCode(raw string) (string, bool) {
	code := strings.TrimSpace(raw)
	if len(code) >= len(testCodeSuffix) && strings.EqualFold(code[len(code)-len(testCodeSuffix):], testCodeSuffix) {
		return code[:len(code)-len(testCodeSuffix)], true
	}
	return code, false
}

// SessionState is the payload returned to the client after every transition.
type SessionState struct {
	SessionID    string               `json:"sessionId"`
	Code         string               `json:"code"`
	TestMode     bool                 `json:"testMode,omitempty"`
	Phase        models.SessionPhase  `json:"phase"`
	Stats        models.Stats         `json:"stats"`
	PracticeMode bool                 `json:"practiceMode"`
	View         *game.QuestionView   `json:"question,omitempty"`
	Keyboard     game.KeyboardState   `json:"keyboard,omitempty"`
	Attempts     []models.Attempt     `json:"attempts,omitempty"`
	Effects      []EffectPayload      `json:"effects,omitempty"`
}

// EffectPayload is the wire form of a session effect. Internal effects
// (analytics flushes) are executed server-side and never serialized.
type EffectPayload struct {
	Kind        string              `json:"kind"`
	IsCorrect   *bool               `json:"isCorrect,omitempty"`
	Message     string              `json:"message,omitempty"`
	Sound       string              `json:"sound,omitempty"`
	Answer      string              `json:"answer,omitempty"`
	Letters     []game.LetterStatus `json:"letters,omitempty"`
	Streak      int                 `json:"streak,omitempty"`
	Words       []string            `json:"words,omitempty"`
	Correct     int                 `json:"correct,omitempty"`
	Total       int                 `json:"total,omitempty"`
	FailedWords []string            `json:"failedWords,omitempty"`
}

// liveSession is one in-flight game plus its keystroke recorder and the
// full-typing timer. All access goes through mu; transitions run to
// completion under it.
type liveSession struct {
	mu          sync.Mutex
	game        *game.Session
	recorder    *WordRecorder
	timer       *time.Timer
	timerGen    int
	lastView    *game.QuestionView
	lastTouched time.Time
}

// SessionService owns the registry of live sessions: starting them, routing
// transitions, arming the full-typing timer, periodic autosave and idle
// eviction.
type SessionService struct {
	sets      *repository.QuestionSetRepository
	analytics *AnalyticsService
	beacons   *BeaconEmitter

	mu       sync.Mutex
	sessions map[string]*liveSession

	autosaveInterval time.Duration
	idleTimeout      time.Duration
	stop             chan struct{}
	stopOnce         sync.Once
}

// NewSessionService creates the service and starts its background autosave
// loop.
func NewSessionService(sets *repository.QuestionSetRepository, analytics *AnalyticsService, beacons *BeaconEmitter, autosaveInterval, idleTimeout time.Duration) *SessionService {
	s := &SessionService{
		sets:             sets,
		analytics:        analytics,
		beacons:          beacons,
		sessions:         make(map[string]*liveSession),
		autosaveInterval: autosaveInterval,
		idleTimeout:      idleTimeout,
		stop:             make(chan struct{}),
	}
	go s.autosaveLoop()
	return s
}

// Stop terminates the background loop. Live sessions get a final save.
func (s *SessionService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.saveAll()
	})
}

// Start creates a live session for a player-entered code.
func (s *SessionService) Start(rawCode string) (*SessionState, error) {
	code, testMode := ResolveCode(rawCode)
	if code == "" {
		return nil, fmt.Errorf("empty code")
	}

	set, err := s.sets.GetByCode(code)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gs, warnings, err := game.NewSession(id, code, testMode, set, rng)
	for _, w := range warnings {
		log.Printf("Session %s: %s", id, w)
	}
	if err != nil {
		return nil, err
	}

	live := &liveSession{
		game:        gs,
		recorder:    NewWordRecorder(code, id, testMode),
		lastTouched: time.Now(),
	}

	s.mu.Lock()
	s.sessions[id] = live
	s.mu.Unlock()

	s.beacons.Emit(models.LifecycleStarted, code, testMode)

	live.mu.Lock()
	defer live.mu.Unlock()
	s.onQuestionEntered(live, id)
	return s.stateLocked(live, nil), nil
}

// get returns the live session for an ID.
func (s *SessionService) get(id string) (*liveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return live, nil
}

// State returns the current state without a transition.
func (s *SessionService) State(id string) (*SessionState, error) {
	live, err := s.get(id)
	if err != nil {
		return nil, err
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	return s.stateLocked(live, nil), nil
}

// Submit checks an answer for the current question.
func (s *SessionService) Submit(id string, sub game.Submission, timeTakenSec int) (*SessionState, error) {
	live, err := s.get(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	live.lastTouched = time.Now()

	attemptsBefore := len(live.game.PreviousAttempts())
	effects, err := live.game.Submit(sub, timeTakenSec)
	if err != nil {
		return nil, err
	}

	// A consumed attempt on a typing-family question becomes a check entry.
	attempts := live.game.PreviousAttempts()
	if _, effective, ok := live.game.CurrentQuestion(); ok && effective.IsTypingFamily() && len(attempts) > attemptsBefore {
		last := attempts[len(attempts)-1]
		live.recorder.AddCheck(models.CheckEntry{
			Word:           last.Word,
			TimeTakenSec:   last.TimeTakenSec,
			IsCorrect:      last.IsCorrect,
			IsFirstAttempt: last.AttemptNumber == 1,
		})
	}

	s.afterTransition(live, id, effects)
	return s.stateLocked(live, effects), nil
}

// Continue advances past an answered question.
func (s *SessionService) Continue(id string) (*SessionState, error) {
	return s.transition(id, func(live *liveSession) ([]game.Effect, error) {
		return live.game.Continue()
	})
}

// CelebrationDone acknowledges a streak celebration.
func (s *SessionService) CelebrationDone(id string) (*SessionState, error) {
	return s.transition(id, func(live *liveSession) ([]game.Effect, error) {
		return live.game.CelebrationDone()
	})
}

// StartReview starts a manual review pass over words (failed words when nil).
func (s *SessionService) StartReview(id string, words []string) (*SessionState, error) {
	return s.transition(id, func(live *liveSession) ([]game.Effect, error) {
		return live.game.StartReview(words)
	})
}

// StartChoicePractice starts a 4-option drill over the failed words.
func (s *SessionService) StartChoicePractice(id string) (*SessionState, error) {
	return s.transition(id, func(live *liveSession) ([]game.Effect, error) {
		return live.game.StartChoicePractice()
	})
}

func (s *SessionService) transition(id string, fn func(*liveSession) ([]game.Effect, error)) (*SessionState, error) {
	live, err := s.get(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	live.lastTouched = time.Now()

	effects, err := fn(live)
	if err != nil {
		return nil, err
	}
	s.afterTransition(live, id, effects)
	return s.stateLocked(live, effects), nil
}

// RecordBackspace logs a backspace with the input it removed from.
func (s *SessionService) RecordBackspace(id, value string) error {
	live, err := s.get(id)
	if err != nil {
		return err
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	live.recorder.AddBackspace(value)
	return nil
}

// RecordSpeakerClick logs a replay of the word audio.
func (s *SessionService) RecordSpeakerClick(id string) error {
	live, err := s.get(id)
	if err != nil {
		return err
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	live.recorder.AddSpeakerClick()
	return nil
}

// SaveNow persists a progress snapshot immediately, for the page-unload path.
func (s *SessionService) SaveNow(id string) error {
	live, err := s.get(id)
	if err != nil {
		return err
	}
	live.mu.Lock()
	progress := live.game.Progress()
	testMode := live.game.TestMode
	live.mu.Unlock()

	s.analytics.SaveProgress(testMode, progress)
	return nil
}

// afterTransition executes server-side effects and re-arms the full-typing
// timer for whatever question is now showing.
func (s *SessionService) afterTransition(live *liveSession, id string, effects []game.Effect) {
	for _, e := range effects {
		switch eff := e.(type) {
		case game.FlushAnalyticsEffect:
			s.analytics.FlushWord(live.recorder)
		case game.CompletedEffect:
			s.analytics.RecordCompletion(
				live.game.Code, live.game.ID, live.game.TestMode,
				eff.Correct, eff.Total, eff.FailedWords,
			)
			s.beacons.Emit(models.LifecycleCompleted, live.game.Code, live.game.TestMode)
		case game.ReviewStartedEffect:
			log.Printf("Session %s: review pass over %d words", id, len(eff.Words))
		}
	}
	s.onQuestionEntered(live, id)
}

// onQuestionEntered detects that a new question is showing, begins keystroke
// recording for typing-family questions and manages the full-typing timer.
// Must hold live.mu.
func (s *SessionService) onQuestionEntered(live *liveSession, id string) {
	view := live.game.View()
	if view == live.lastView {
		return
	}
	live.lastView = view
	s.cancelTimer(live)
	if view == nil {
		return
	}

	for _, w := range view.Warnings {
		log.Printf("Session %s: %s", id, w)
	}

	q, effective, ok := live.game.CurrentQuestion()
	if !ok {
		return
	}
	if effective.IsTypingFamily() {
		live.recorder.BeginWord(q.Word, effective)
	}
	if view.TimeLimitSec > 0 {
		s.armTimer(live, id, time.Duration(view.TimeLimitSec)*time.Second)
	}
}

// armTimer schedules the server-side timeout for a full-typing question.
// Must hold live.mu.
func (s *SessionService) armTimer(live *liveSession, id string, d time.Duration) {
	live.timerGen++
	gen := live.timerGen
	live.timer = time.AfterFunc(d, func() {
		s.fireTimeout(id, gen)
	})
}

// cancelTimer stops any pending timeout. Must hold live.mu.
func (s *SessionService) cancelTimer(live *liveSession) {
	if live.timer != nil {
		live.timer.Stop()
		live.timer = nil
	}
	live.timerGen++
}

// fireTimeout is the timer callback. The generation check plus the state
// machine's own guard make a stale firing harmless.
func (s *SessionService) fireTimeout(id string, gen int) {
	live, err := s.get(id)
	if err != nil {
		return
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	if live.timerGen != gen {
		return
	}

	effects := live.game.Timeout("")
	if effects == nil {
		return
	}
	log.Printf("Session %s: full-typing timer expired", id)
	s.afterTransition(live, id, effects)
}

// Timeout applies a client-reported timer expiry with the partial input the
// player had typed.
func (s *SessionService) Timeout(id, partialInput string) (*SessionState, error) {
	live, err := s.get(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	live.lastTouched = time.Now()

	effects := live.game.Timeout(partialInput)
	if effects != nil {
		s.afterTransition(live, id, effects)
	}
	return s.stateLocked(live, effects), nil
}

// stateLocked builds the response payload. Must hold live.mu.
func (s *SessionService) stateLocked(live *liveSession, effects []game.Effect) *SessionState {
	return &SessionState{
		SessionID:    live.game.ID,
		Code:         live.game.Code,
		TestMode:     live.game.TestMode,
		Phase:        live.game.Phase(),
		Stats:        live.game.Stats(),
		PracticeMode: live.game.PracticeMode(),
		View:         live.game.View(),
		Keyboard:     live.game.Keyboard(),
		Attempts:     live.game.PreviousAttempts(),
		Effects:      convertEffects(effects),
	}
}

// convertEffects maps session effects to their wire form, dropping the
// server-internal ones.
func convertEffects(effects []game.Effect) []EffectPayload {
	var out []EffectPayload
	for _, e := range effects {
		switch eff := e.(type) {
		case game.ShowFeedbackEffect:
			v := eff.IsCorrect
			out = append(out, EffectPayload{Kind: "feedback", IsCorrect: &v, Message: eff.Message})
		case game.PlaySoundEffect:
			out = append(out, EffectPayload{Kind: "sound", Sound: string(eff.Kind)})
		case game.RevealAnswerEffect:
			out = append(out, EffectPayload{Kind: "reveal", Answer: eff.Answer, Letters: eff.Letters})
		case game.ShowCelebrationEffect:
			out = append(out, EffectPayload{Kind: "celebration", Streak: eff.Streak})
		case game.ReviewStartedEffect:
			out = append(out, EffectPayload{Kind: "reviewStarted", Words: eff.Words})
		case game.CompletedEffect:
			out = append(out, EffectPayload{Kind: "completed", Correct: eff.Correct, Total: eff.Total, FailedWords: eff.FailedWords})
		}
	}
	return out
}

// autosaveLoop periodically snapshots every live session and evicts the ones
// nobody has touched for a while.
func (s *SessionService) autosaveLoop() {
	ticker := time.NewTicker(s.autosaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.saveAll()
			s.evictIdle()
		}
	}
}

func (s *SessionService) saveAll() {
	s.mu.Lock()
	lives := make([]*liveSession, 0, len(s.sessions))
	for _, live := range s.sessions {
		lives = append(lives, live)
	}
	s.mu.Unlock()

	for _, live := range lives {
		live.mu.Lock()
		done := live.game.Phase() == models.PhaseCompleted
		progress := live.game.Progress()
		testMode := live.game.TestMode
		live.mu.Unlock()
		if done {
			continue
		}
		s.analytics.SaveProgress(testMode, progress)
	}
}

func (s *SessionService) evictIdle() {
	cutoff := time.Now().Add(-s.idleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, live := range s.sessions {
		live.mu.Lock()
		idle := live.lastTouched.Before(cutoff)
		if idle {
			s.cancelTimer(live)
		}
		live.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			log.Printf("Session %s evicted after idle timeout", id)
		}
	}
}
