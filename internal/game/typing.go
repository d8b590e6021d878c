package game

import (
	"math/rand"
	"strings"

	"spelldaily/internal/models"
)

// FullTypingTimeLimitSec is the hard time budget for a full-typing question.
const FullTypingTimeLimitSec = 16

// typingHandler covers both typing (two attempts, untimed) and full-typing
// (single attempt, 16-second budget). Correctness is a case-insensitive exact
// match after trimming; letter feedback uses the shared two-pass diff.
type typingHandler struct {
	timed bool
}

func (h typingHandler) Type() models.GameType {
	if h.timed {
		return models.GameFullTyping
	}
	return models.GameTyping
}

func (h typingHandler) AttemptLimit() int {
	if h.timed {
		return 1
	}
	return 2
}

func (h typingHandler) Evaluate(q models.Question, sub Submission, _ *QuestionView, _ *models.ContentMaps) (Evaluation, error) {
	answer := strings.ToLower(strings.TrimSpace(sub.Typed))
	target := strings.ToLower(q.Word)

	return Evaluation{
		IsCorrect:        answer == target,
		NormalizedAnswer: answer,
		Letters:          LetterFeedback(answer, target),
		CorrectAnswer:    q.Word,
	}, nil
}

func (h typingHandler) BuildView(q models.Question, content *models.ContentMaps, _ *rand.Rand) (*QuestionView, error) {
	view := &QuestionView{
		Type:         h.Type(),
		WordLength:   len(q.Word),
		AttemptLimit: h.AttemptLimit(),
		Hint:         content.Hints[q.Word],
	}
	if h.timed {
		view.TimeLimitSec = FullTypingTimeLimitSec
	}
	return view, nil
}
