package game

import (
	"math/rand"

	"spelldaily/internal/models"
)

// selectHandler covers the single-select comprehension games (words-meaning,
// context-choice, correct-sentence): the player picks from a word-specific
// option list and correctness is an exact match against the entry's canonical
// correct field.
type selectHandler struct {
	gameType models.GameType
}

func (h selectHandler) Type() models.GameType { return h.gameType }

func (h selectHandler) AttemptLimit() int { return 1 }

func (h selectHandler) entry(word string, content *models.ContentMaps) (models.ChoiceEntry, bool) {
	switch h.gameType {
	case models.GameWordsMeaning:
		e, ok := content.WordMeanings[word]
		return e, ok
	case models.GameContextChoice:
		e, ok := content.ContextChoice[word]
		return e, ok
	default:
		e, ok := content.CorrectSentence[word]
		return e, ok
	}
}

func (h selectHandler) Evaluate(q models.Question, sub Submission, _ *QuestionView, content *models.ContentMaps) (Evaluation, error) {
	entry, ok := h.entry(q.Word, content)
	if !ok {
		return Evaluation{}, ErrMissingContent
	}
	if sub.Option == "" {
		return Evaluation{}, ErrIncomplete
	}

	return Evaluation{
		IsCorrect:        sub.Option == entry.Correct,
		NormalizedAnswer: sub.Option,
		CorrectAnswer:    entry.Correct,
	}, nil
}

func (h selectHandler) BuildView(q models.Question, content *models.ContentMaps, rng *rand.Rand) (*QuestionView, error) {
	entry, ok := h.entry(q.Word, content)
	if !ok {
		return nil, ErrMissingContent
	}

	options := make([]string, len(entry.Options))
	copy(options, entry.Options)
	shuffle(options, rng)

	view := &QuestionView{
		Type:         h.gameType,
		WordLength:   len(q.Word),
		AttemptLimit: 1,
		Options:      options,
	}

	// The hint is suppressed for the sentence-family games.
	switch h.gameType {
	case models.GameContextChoice:
		view.Sentence = entry.Sentence
	case models.GameCorrectSentence:
		view.Prompt = entry.Question
	}

	return view, nil
}
