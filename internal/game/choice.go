package game

import (
	"math/rand"
	"strings"

	"spelldaily/internal/models"
)

// choiceHandler covers the games where the player picks a spelling of the
// target word from a distractor set: 4-option, 2-option and correct-word
// (the sentence-template variant of 4-option).
type choiceHandler struct {
	gameType     models.GameType
	optionCount  int
	withSentence bool
}

func (h choiceHandler) Type() models.GameType { return h.gameType }

func (h choiceHandler) AttemptLimit() int { return 1 }

func (h choiceHandler) Evaluate(q models.Question, sub Submission, _ *QuestionView, _ *models.ContentMaps) (Evaluation, error) {
	if sub.Option == "" {
		return Evaluation{}, ErrIncomplete
	}
	answer := strings.ToLower(sub.Option)
	return Evaluation{
		IsCorrect:        answer == strings.ToLower(q.Word),
		NormalizedAnswer: answer,
		CorrectAnswer:    q.Word,
	}, nil
}

func (h choiceHandler) BuildView(q models.Question, content *models.ContentMaps, rng *rand.Rand) (*QuestionView, error) {
	view := &QuestionView{
		Type:         h.gameType,
		WordLength:   len(q.Word),
		AttemptLimit: 1,
	}

	if h.gameType == models.GameTwoOption {
		options, warnings := GenerateTwoOptionSet(q.Word, content.TwoOptionDistractor, content.Distractors, rng)
		view.Options = options
		view.Warnings = warnings
		view.Hint = content.Hints[q.Word]
		return view, nil
	}

	options, warnings := GenerateOptions(q.Word, h.optionCount, content.Distractors, rng)
	view.Options = options
	view.Warnings = warnings

	if h.withSentence {
		// correct-word shows a sentence with the word blanked out instead of
		// playing audio; the hint is suppressed for it.
		templates := content.SentenceTemplates[strings.ToLower(q.Word)]
		if len(templates) == 0 {
			view.Sentence = "The word is ____________."
		} else {
			view.Sentence = templates[rng.Intn(len(templates))]
		}
	} else {
		view.Hint = content.Hints[q.Word]
	}

	return view, nil
}

// scrambleHandler is the letter-scramble game: the word's letters are dealt
// as shuffled tiles and the player reassembles them. Single attempt; the
// assembled string must match the word case-insensitively.
type scrambleHandler struct{}

func (scrambleHandler) Type() models.GameType { return models.GameLetterScramble }

func (scrambleHandler) AttemptLimit() int { return 1 }

func (scrambleHandler) Evaluate(q models.Question, sub Submission, _ *QuestionView, _ *models.ContentMaps) (Evaluation, error) {
	if sub.Typed == "" {
		return Evaluation{}, ErrIncomplete
	}
	answer := strings.ToLower(strings.TrimSpace(sub.Typed))
	return Evaluation{
		IsCorrect:        answer == strings.ToLower(q.Word),
		NormalizedAnswer: answer,
		CorrectAnswer:    q.Word,
	}, nil
}

func (scrambleHandler) BuildView(q models.Question, content *models.ContentMaps, rng *rand.Rand) (*QuestionView, error) {
	letters := strings.Split(strings.ToUpper(q.Word), "")
	shuffle(letters, rng)

	return &QuestionView{
		Type:         models.GameLetterScramble,
		WordLength:   len(q.Word),
		AttemptLimit: 1,
		Options:      letters,
		Hint:         content.Hints[q.Word],
	}, nil
}
