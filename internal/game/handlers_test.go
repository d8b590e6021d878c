package game

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"spelldaily/internal/models"
)

func TestHandlerRegistryCoversAllGameTypes(t *testing.T) {
	for _, gt := range models.AllGameTypes {
		h, ok := HandlerFor(gt)
		if !ok {
			t.Errorf("no handler registered for %q", gt)
			continue
		}
		if h.Type() != gt {
			t.Errorf("handler for %q reports type %q", gt, h.Type())
		}
	}
}

func TestAttemptLimits(t *testing.T) {
	tests := []struct {
		gameType models.GameType
		want     int
	}{
		{models.GameTyping, 2},
		{models.GameFillups, 2},
		{models.GameFullTyping, 1},
		{models.GameFourOption, 1},
		{models.GameTwoOption, 1},
		{models.GameCorrectWord, 1},
		{models.GameLetterScramble, 1},
		{models.GameWordParts, 1},
		{models.GameWordsMeaning, 1},
		{models.GameContextChoice, 1},
		{models.GameCorrectSentence, 1},
	}
	for _, tt := range tests {
		h, _ := HandlerFor(tt.gameType)
		if got := h.AttemptLimit(); got != tt.want {
			t.Errorf("%s: attempt limit = %d, want %d", tt.gameType, got, tt.want)
		}
	}
}

func TestTypingEvaluate(t *testing.T) {
	q := models.Question{Word: "Train", Type: models.GameTyping}
	h, _ := HandlerFor(models.GameTyping)

	tests := []struct {
		name        string
		typed       string
		wantCorrect bool
	}{
		{name: "exact", typed: "Train", wantCorrect: true},
		{name: "case insensitive", typed: "tRAIN", wantCorrect: true},
		{name: "surrounding whitespace trimmed", typed: "  train  ", wantCorrect: true},
		{name: "misspelling", typed: "trane", wantCorrect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := h.Evaluate(q, Submission{Typed: tt.typed}, nil, nil)
			if err != nil {
				t.Fatalf("Evaluate() error: %v", err)
			}
			if eval.IsCorrect != tt.wantCorrect {
				t.Errorf("correct = %v, want %v", eval.IsCorrect, tt.wantCorrect)
			}
			if len(eval.Letters) == 0 {
				t.Error("typing evaluation must carry letter feedback")
			}
		})
	}
}

func TestFullTypingViewHasTimeLimit(t *testing.T) {
	h, _ := HandlerFor(models.GameFullTyping)
	view, err := h.BuildView(models.Question{Word: "train", Type: models.GameFullTyping}, &models.ContentMaps{}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("BuildView() error: %v", err)
	}
	if view.TimeLimitSec != FullTypingTimeLimitSec {
		t.Errorf("time limit = %d, want %d", view.TimeLimitSec, FullTypingTimeLimitSec)
	}

	h, _ = HandlerFor(models.GameTyping)
	view, err = h.BuildView(models.Question{Word: "train", Type: models.GameTyping}, &models.ContentMaps{}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("BuildView() error: %v", err)
	}
	if view.TimeLimitSec != 0 {
		t.Errorf("untimed typing has time limit %d", view.TimeLimitSec)
	}
}

func TestScrambleView(t *testing.T) {
	h, _ := HandlerFor(models.GameLetterScramble)
	view, err := h.BuildView(models.Question{Word: "train", Type: models.GameLetterScramble}, &models.ContentMaps{}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("BuildView() error: %v", err)
	}

	tiles := append([]string(nil), view.Options...)
	sort.Strings(tiles)
	if strings.Join(tiles, "") != "AINRT" {
		t.Errorf("tiles = %v, want the letters of TRAIN", view.Options)
	}
}

func TestCorrectWordSentence(t *testing.T) {
	h, _ := HandlerFor(models.GameCorrectWord)
	content := &models.ContentMaps{
		Distractors:       map[string][]string{"train": {"trane", "trian", "tarin"}},
		SentenceTemplates: map[string][]string{"train": {"We rode the ____________ to town."}},
		Hints:             map[string]string{"train": "choo choo"},
	}

	view, err := h.BuildView(models.Question{Word: "train", Type: models.GameCorrectWord}, content, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("BuildView() error: %v", err)
	}
	if view.Sentence != "We rode the ____________ to town." {
		t.Errorf("sentence = %q", view.Sentence)
	}
	if view.Hint != "" {
		t.Errorf("hint must be suppressed for correct-word, got %q", view.Hint)
	}

	// Without a template the placeholder sentence is used.
	view, err = h.BuildView(models.Question{Word: "train", Type: models.GameCorrectWord}, &models.ContentMaps{
		Distractors: content.Distractors,
	}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("BuildView() error: %v", err)
	}
	if view.Sentence != "The word is ____________." {
		t.Errorf("fallback sentence = %q", view.Sentence)
	}
}

func TestWordPartsEvaluate(t *testing.T) {
	content := &models.ContentMaps{
		WordParts: map[string]models.WordPartsEntry{
			"sunset": {
				Parts:   []string{"sun", "set"},
				Options: [][]string{{"sun", "son"}, {"set", "sat"}},
			},
		},
	}
	q := models.Question{Word: "sunset", Type: models.GameWordParts}
	h, _ := HandlerFor(models.GameWordParts)

	tests := []struct {
		name        string
		parts       []string
		wantCorrect bool
		wantResults []bool
		wantErr     error
	}{
		{
			name:        "all parts right",
			parts:       []string{"sun", "set"},
			wantCorrect: true,
			wantResults: []bool{true, true},
		},
		{
			name:        "one part wrong",
			parts:       []string{"son", "set"},
			wantCorrect: false,
			wantResults: []bool{false, true},
		},
		{
			name:        "case insensitive per part",
			parts:       []string{"SUN", "Set"},
			wantCorrect: true,
			wantResults: []bool{true, true},
		},
		{
			name:    "missing slot is incomplete",
			parts:   []string{"sun", ""},
			wantErr: ErrIncomplete,
		},
		{
			name:    "wrong slot count is incomplete",
			parts:   []string{"sun"},
			wantErr: ErrIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := h.Evaluate(q, Submission{Parts: tt.parts}, nil, content)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Evaluate() error: %v", err)
			}
			if eval.IsCorrect != tt.wantCorrect {
				t.Errorf("correct = %v, want %v", eval.IsCorrect, tt.wantCorrect)
			}
			for i, r := range tt.wantResults {
				if eval.PartResults[i] != r {
					t.Errorf("part %d result = %v, want %v", i, eval.PartResults[i], r)
				}
			}
		})
	}
}

func TestSelectEvaluateExactMatch(t *testing.T) {
	content := &models.ContentMaps{
		WordMeanings: map[string]models.ChoiceEntry{
			"train": {
				Correct: "A line of connected railway carriages",
				Options: []string{"A line of connected railway carriages", "A small boat", "A type of bird", "A musical instrument"},
			},
		},
	}
	q := models.Question{Word: "train", Type: models.GameWordsMeaning}
	h, _ := HandlerFor(models.GameWordsMeaning)

	eval, err := h.Evaluate(q, Submission{Option: "A line of connected railway carriages"}, nil, content)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if !eval.IsCorrect {
		t.Error("exact option not accepted")
	}

	// The comprehension games match the canonical string exactly, including
	// case.
	eval, err = h.Evaluate(q, Submission{Option: "a line of connected railway carriages"}, nil, content)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if eval.IsCorrect {
		t.Error("case-differing option must not be accepted")
	}

	if _, err := h.Evaluate(q, Submission{}, nil, content); !errors.Is(err, ErrIncomplete) {
		t.Errorf("empty option: got %v, want ErrIncomplete", err)
	}
}

func TestSelectMissingContent(t *testing.T) {
	h, _ := HandlerFor(models.GameContextChoice)
	q := models.Question{Word: "train", Type: models.GameContextChoice}

	if _, err := h.Evaluate(q, Submission{Option: "x"}, nil, &models.ContentMaps{}); !errors.Is(err, ErrMissingContent) {
		t.Errorf("Evaluate: got %v, want ErrMissingContent", err)
	}
	if _, err := h.BuildView(q, &models.ContentMaps{}, rand.New(rand.NewSource(1))); !errors.Is(err, ErrMissingContent) {
		t.Errorf("BuildView: got %v, want ErrMissingContent", err)
	}
}

func TestContextChoiceView(t *testing.T) {
	content := &models.ContentMaps{
		ContextChoice: map[string]models.ChoiceEntry{
			"train": {
				Sentence: "We waited for the ___ at the station.",
				Correct:  "train",
				Options:  []string{"train", "plane", "boat", "car"},
			},
		},
	}
	h, _ := HandlerFor(models.GameContextChoice)

	view, err := h.BuildView(models.Question{Word: "train", Type: models.GameContextChoice}, content, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("BuildView() error: %v", err)
	}
	if view.Sentence != "We waited for the ___ at the station." {
		t.Errorf("sentence = %q", view.Sentence)
	}
	if len(view.Options) != 4 {
		t.Errorf("got %d options, want 4", len(view.Options))
	}
}
