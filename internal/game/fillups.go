package game

import (
	"fmt"
	"math/rand"
	"strings"

	"spelldaily/internal/models"
)

// fillupsHandler pre-fills the word at every position except a word-specific
// set of blank indices and evaluates the fully reconstructed string. Two
// attempts, like plain typing.
type fillupsHandler struct{}

func (fillupsHandler) Type() models.GameType { return models.GameFillups }

func (fillupsHandler) AttemptLimit() int { return 2 }

func (fillupsHandler) Evaluate(q models.Question, sub Submission, view *QuestionView, _ *models.ContentMaps) (Evaluation, error) {
	target := strings.ToLower(q.Word)
	typed := strings.ToLower(sub.Typed)

	// Reconstruct from the pre-filled letters plus the player's blank fills,
	// so tampering with a pre-filled position cannot change the outcome.
	blanks := make(map[int]bool, len(view.BlankPositions))
	for _, pos := range view.BlankPositions {
		blanks[pos] = true
	}
	reconstructed := make([]byte, len(target))
	for i := 0; i < len(target); i++ {
		if blanks[i] {
			if i < len(typed) && typed[i] != ' ' {
				reconstructed[i] = typed[i]
			} else {
				reconstructed[i] = ' '
			}
		} else {
			reconstructed[i] = target[i]
		}
	}
	answer := string(reconstructed)

	if strings.ContainsRune(answer, ' ') {
		return Evaluation{}, ErrIncomplete
	}

	return Evaluation{
		IsCorrect:        answer == target,
		NormalizedAnswer: answer,
		Letters:          LetterFeedback(answer, target),
		CorrectAnswer:    q.Word,
	}, nil
}

func (fillupsHandler) BuildView(q models.Question, content *models.ContentMaps, rng *rand.Rand) (*QuestionView, error) {
	view := &QuestionView{
		Type:         models.GameFillups,
		WordLength:   len(q.Word),
		AttemptLimit: 2,
		Hint:         content.Hints[q.Word],
	}

	blanks := content.FillupsBlanks[q.Word]
	if len(blanks) == 0 {
		view.Warnings = append(view.Warnings,
			fmt.Sprintf("no predefined blank positions for word %q, using fallback", q.Word))
		blanks = fallbackBlankPositions(len(q.Word), rng)
	}
	view.BlankPositions = blanks

	pattern := []byte(strings.ToUpper(q.Word))
	for _, pos := range blanks {
		if pos >= 0 && pos < len(pattern) {
			pattern[pos] = '_'
		}
	}
	view.Pattern = string(pattern)

	return view, nil
}

// fallbackBlankPositions picks ceil(length*0.25) positions, at least 2,
// random but returned in index order.
func fallbackBlankPositions(length int, rng *rand.Rand) []int {
	count := (length + 3) / 4
	if count < 2 {
		count = 2
	}
	if count > length {
		count = length
	}

	positions := rng.Perm(length)[:count]
	// Insertion sort; the slice is tiny.
	for i := 1; i < len(positions); i++ {
		for j := i; j > 0 && positions[j] < positions[j-1]; j-- {
			positions[j], positions[j-1] = positions[j-1], positions[j]
		}
	}
	return positions
}
