package game

import (
	"errors"
	"math/rand"

	"spelldaily/internal/models"
)

// ErrIncomplete is returned by Evaluate when the submission is not ready to
// be checked (no option selected, a word-part slot left empty). An incomplete
// submission does not consume an attempt.
var ErrIncomplete = errors.New("submission incomplete")

// ErrMissingContent is returned when a question's word has no entry in the
// content map its game type requires.
var ErrMissingContent = errors.New("missing content for word")

// Submission is the raw player input for one check of the current question.
// Exactly one of the fields is meaningful for a given game type.
type Submission struct {
	// Typed is the letter input for the typing family, fillups and
	// letter-scramble games.
	Typed string `json:"typed,omitempty"`
	// Option is the selected option for single-select games.
	Option string `json:"option,omitempty"`
	// Parts holds one chosen option per part slot for the word-parts game.
	Parts []string `json:"parts,omitempty"`
}

// Evaluation is the outcome of checking a submission.
type Evaluation struct {
	IsCorrect        bool
	NormalizedAnswer string
	// Letters is the per-position feedback for typing-family and fillups
	// questions.
	Letters []LetterStatus
	// PartResults marks each word-parts slot independently red/green.
	PartResults []bool
	// CorrectAnswer is what to reveal when the question ends incorrect.
	CorrectAnswer string
}

// QuestionView is everything the (non-core) renderer needs to display the
// current question. It is built once when the question is entered so that
// shuffled options stay stable for the question's lifetime.
type QuestionView struct {
	Index          int             `json:"index"`
	TotalQuestions int             `json:"totalQuestions"`
	Type           models.GameType `json:"type"`
	WordLength     int             `json:"wordLength"`
	Hint           string          `json:"hint,omitempty"`
	AttemptLimit   int             `json:"attemptLimit"`
	PracticeMode   bool            `json:"practiceMode"`

	// Options carries the shuffled choices for option-based games and the
	// shuffled letter tiles for letter-scramble.
	Options []string `json:"options,omitempty"`
	// Sentence is the template for correct-word and the context sentence for
	// context-choice.
	Sentence string `json:"sentence,omitempty"`
	// Prompt is the authored question text for correct-sentence.
	Prompt string `json:"prompt,omitempty"`
	// BlankPositions are the fillups indices the player must fill; Pattern is
	// the word with those positions replaced by underscores.
	BlankPositions []int  `json:"blankPositions,omitempty"`
	Pattern        string `json:"pattern,omitempty"`
	// PartOptions is the candidate set per word-parts slot.
	PartOptions [][]string `json:"partOptions,omitempty"`
	// TimeLimitSec is non-zero only for full-typing.
	TimeLimitSec int `json:"timeLimitSec,omitempty"`

	// Warnings records degraded-content conditions (logged, never surfaced to
	// the player).
	Warnings []string `json:"-"`
}

// TypeHandler is the per-game-type strategy: what "correct" means for a
// submission, what the renderer needs, and how many attempts are allowed.
type TypeHandler interface {
	Type() models.GameType

	// AttemptLimit is 1 for every type except typing and fillups, which allow
	// a second try.
	AttemptLimit() int

	// Evaluate checks a submission against the question. view is the
	// QuestionView built when the question was entered (fillups needs its
	// blank layout).
	Evaluate(q models.Question, sub Submission, view *QuestionView, content *models.ContentMaps) (Evaluation, error)

	// BuildView prepares the render payload for the question.
	BuildView(q models.Question, content *models.ContentMaps, rng *rand.Rand) (*QuestionView, error)
}

// handlerRegistry maps every game type to its strategy. Adding a game type
// means adding a handler here, not touching the state machine.
var handlerRegistry = map[models.GameType]TypeHandler{
	models.GameTyping:          typingHandler{timed: false},
	models.GameFullTyping:      typingHandler{timed: true},
	models.GameFourOption:      choiceHandler{gameType: models.GameFourOption, optionCount: 4},
	models.GameTwoOption:       choiceHandler{gameType: models.GameTwoOption, optionCount: 2},
	models.GameCorrectWord:     choiceHandler{gameType: models.GameCorrectWord, optionCount: 4, withSentence: true},
	models.GameLetterScramble:  scrambleHandler{},
	models.GameFillups:         fillupsHandler{},
	models.GameWordParts:       wordPartsHandler{},
	models.GameWordsMeaning:    selectHandler{gameType: models.GameWordsMeaning},
	models.GameContextChoice:   selectHandler{gameType: models.GameContextChoice},
	models.GameCorrectSentence: selectHandler{gameType: models.GameCorrectSentence},
}

// HandlerFor returns the strategy for a game type.
func HandlerFor(t models.GameType) (TypeHandler, bool) {
	h, ok := handlerRegistry[t]
	return h, ok
}
