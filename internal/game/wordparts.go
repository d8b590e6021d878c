package game

import (
	"math/rand"
	"strings"

	"spelldaily/internal/models"
)

// wordPartsHandler is the build-the-word-from-parts puzzle: one option chosen
// per part slot, every slot must match its canonical part, no partial credit,
// single attempt. Each slot is marked red/green independently.
type wordPartsHandler struct{}

func (wordPartsHandler) Type() models.GameType { return models.GameWordParts }

func (wordPartsHandler) AttemptLimit() int { return 1 }

func (wordPartsHandler) Evaluate(q models.Question, sub Submission, _ *QuestionView, content *models.ContentMaps) (Evaluation, error) {
	entry, ok := content.WordParts[q.Word]
	if !ok {
		return Evaluation{}, ErrMissingContent
	}

	if len(sub.Parts) != len(entry.Parts) {
		return Evaluation{}, ErrIncomplete
	}
	for _, part := range sub.Parts {
		if part == "" {
			return Evaluation{}, ErrIncomplete
		}
	}

	results := make([]bool, len(entry.Parts))
	correct := true
	for i, part := range entry.Parts {
		results[i] = strings.EqualFold(strings.TrimSpace(sub.Parts[i]), strings.TrimSpace(part))
		if !results[i] {
			correct = false
		}
	}

	return Evaluation{
		IsCorrect:        correct,
		NormalizedAnswer: strings.ToLower(strings.Join(sub.Parts, "")),
		PartResults:      results,
		CorrectAnswer:    q.Word,
	}, nil
}

func (wordPartsHandler) BuildView(q models.Question, content *models.ContentMaps, _ *rand.Rand) (*QuestionView, error) {
	entry, ok := content.WordParts[q.Word]
	if !ok {
		// Questions without parts data are dropped at session-build time, so
		// reaching here means the content map changed underneath the session.
		return nil, ErrMissingContent
	}

	return &QuestionView{
		Type:         models.GameWordParts,
		WordLength:   len(q.Word),
		AttemptLimit: 1,
		PartOptions:  entry.Options,
		Hint:         content.Hints[q.Word],
	}, nil
}
