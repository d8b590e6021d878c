package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"spelldaily/internal/models"
	"spelldaily/internal/repository"
)

// ErrInvalidQuestionSet is returned when an authored set cannot be saved.
var ErrInvalidQuestionSet = errors.New("invalid question set")

var codePattern = regexp.MustCompile(`^[a-z0-9]{2,32}$`)

// QuestionSetService validates and stores the authored question set
// documents.
type QuestionSetService struct {
	sets *repository.QuestionSetRepository
}

// NewQuestionSetService creates a new question set service
func NewQuestionSetService(sets *repository.QuestionSetRepository) *QuestionSetService {
	return &QuestionSetService{sets: sets}
}

// Get loads a stored set.
func (s *QuestionSetService) Get(code string) (*models.QuestionSet, error) {
	return s.sets.GetByCode(strings.ToLower(strings.TrimSpace(code)))
}

// List returns every stored code.
func (s *QuestionSetService) List() ([]models.QuestionSetSummary, error) {
	return s.sets.ListCodes()
}

// Delete removes a stored set.
func (s *QuestionSetService) Delete(code string) error {
	return s.sets.Delete(strings.ToLower(strings.TrimSpace(code)))
}

// Save validates and stores a set. Hard problems reject the save; soft
// problems (content a question type would degrade without) come back as
// warnings for the author.
func (s *QuestionSetService) Save(set *models.QuestionSet) ([]string, error) {
	set.Code = strings.ToLower(strings.TrimSpace(set.Code))

	if !codePattern.MatchString(set.Code) {
		return nil, fmt.Errorf("%w: code must be 2-32 lowercase letters or digits", ErrInvalidQuestionSet)
	}
	// The suffix is reserved for dry runs against the un-suffixed code.
	if strings.HasSuffix(set.Code, testCodeSuffix) {
		return nil, fmt.Errorf("%w: code must not end in %q", ErrInvalidQuestionSet, testCodeSuffix)
	}
	if len(set.Words) == 0 {
		return nil, fmt.Errorf("%w: word list is empty", ErrInvalidQuestionSet)
	}
	if len(set.GameSequence) == 0 {
		return nil, fmt.Errorf("%w: game sequence is empty", ErrInvalidQuestionSet)
	}
	for i, w := range set.Words {
		if strings.TrimSpace(w) == "" {
			return nil, fmt.Errorf("%w: word %d is blank", ErrInvalidQuestionSet, i+1)
		}
	}

	warnings := s.lintSequence(set)
	if err := s.sets.Save(set); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// lintSequence reports the authoring problems that degrade or drop questions
// at play time.
func (s *QuestionSetService) lintSequence(set *models.QuestionSet) []string {
	var warnings []string

	for i, item := range set.GameSequence {
		word, err := set.WordFor(item.Word)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("game %d: %v, the question will be skipped", i+1, err))
			continue
		}
		if !item.Type.Valid() {
			warnings = append(warnings, fmt.Sprintf("game %d: unknown type %q, the question will be skipped", i+1, item.Type))
			continue
		}

		key := strings.ToLower(word)
		switch item.Type {
		case models.GameFourOption, models.GameCorrectWord:
			if len(set.Content.Distractors[key]) < 3 {
				warnings = append(warnings, fmt.Sprintf("game %d (%s): fewer than 3 distractors for %q, the option set will be reduced", i+1, item.Type, word))
			}
		case models.GameTwoOption:
			if set.Content.TwoOptionDistractor[key] == "" && len(set.Content.Distractors[key]) == 0 {
				warnings = append(warnings, fmt.Sprintf("game %d: no distractor for %q, the question degrades to one option", i+1, word))
			}
		case models.GameWordParts:
			if _, ok := set.Content.WordParts[word]; !ok {
				warnings = append(warnings, fmt.Sprintf("game %d: no parts data for %q, the question will be dropped", i+1, word))
			}
		case models.GameFillups:
			if len(set.Content.FillupsBlanks[word]) == 0 {
				warnings = append(warnings, fmt.Sprintf("game %d: no blank positions for %q, random blanks will be used", i+1, word))
			}
		case models.GameWordsMeaning:
			warnings = append(warnings, s.lintChoiceEntry(set.Content.WordMeanings, word, i, item.Type)...)
		case models.GameContextChoice:
			warnings = append(warnings, s.lintChoiceEntry(set.Content.ContextChoice, word, i, item.Type)...)
		case models.GameCorrectSentence:
			warnings = append(warnings, s.lintChoiceEntry(set.Content.CorrectSentence, word, i, item.Type)...)
		}
	}

	return warnings
}

func (s *QuestionSetService) lintChoiceEntry(entries map[string]models.ChoiceEntry, word string, index int, gameType models.GameType) []string {
	entry, ok := entries[word]
	if !ok {
		return []string{fmt.Sprintf("game %d (%s): no entry for %q, the question will fail at play time", index+1, gameType, word)}
	}

	var warnings []string
	if entry.Correct == "" {
		warnings = append(warnings, fmt.Sprintf("game %d (%s): entry for %q has no correct answer", index+1, gameType, word))
	}
	found := false
	for _, o := range entry.Options {
		if o == entry.Correct {
			found = true
			break
		}
	}
	if !found {
		warnings = append(warnings, fmt.Sprintf("game %d (%s): correct answer for %q is not among its options", index+1, gameType, word))
	}
	return warnings
}
