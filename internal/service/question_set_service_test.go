package service

import (
	"errors"
	"strings"
	"testing"

	"spelldaily/internal/database"
	"spelldaily/internal/models"
	"spelldaily/internal/repository"
)

func newSetService(t *testing.T) *QuestionSetService {
	t.Helper()
	db, err := database.OpenSQLite(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE question_sets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		payload TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	return NewQuestionSetService(repository.NewQuestionSetRepository(db))
}

func validSet(code string) *models.QuestionSet {
	return &models.QuestionSet{
		Code:  code,
		Words: []string{"apple", "train"},
		GameSequence: []models.SequenceItem{
			{Word: "word1", Type: models.GameTyping},
			{Word: "word2", Type: models.GameTyping},
		},
	}
}

func TestSaveRejectsInvalidSets(t *testing.T) {
	svc := newSetService(t)

	tests := []struct {
		name   string
		mutate func(*models.QuestionSet)
	}{
		{
			name:   "bad code characters",
			mutate: func(s *models.QuestionSet) { s.Code = "Emma!" },
		},
		{
			name:   "code too short",
			mutate: func(s *models.QuestionSet) { s.Code = "a" },
		},
		{
			name:   "code ends in reserved suffix",
			mutate: func(s *models.QuestionSet) { s.Code = "emmatest" },
		},
		{
			name:   "empty word list",
			mutate: func(s *models.QuestionSet) { s.Words = nil },
		},
		{
			name:   "empty game sequence",
			mutate: func(s *models.QuestionSet) { s.GameSequence = nil },
		},
		{
			name:   "blank word",
			mutate: func(s *models.QuestionSet) { s.Words[1] = "   " },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := validSet("emma")
			tt.mutate(set)
			_, err := svc.Save(set)
			if !errors.Is(err, ErrInvalidQuestionSet) {
				t.Errorf("Save() error = %v, want ErrInvalidQuestionSet", err)
			}
		})
	}
}

func TestSaveNormalizesCode(t *testing.T) {
	svc := newSetService(t)

	set := validSet("  EMMA  ")
	if _, err := svc.Save(set); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if set.Code != "emma" {
		t.Errorf("code = %q, want emma", set.Code)
	}

	loaded, err := svc.Get("Emma")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if loaded.Code != "emma" {
		t.Errorf("loaded code = %q, want emma", loaded.Code)
	}
}

func TestSaveLintWarnings(t *testing.T) {
	svc := newSetService(t)

	set := &models.QuestionSet{
		Code:  "emma",
		Words: []string{"apple", "train"},
		GameSequence: []models.SequenceItem{
			{Word: "word9", Type: models.GameTyping},        // unresolvable slot
			{Word: "word1", Type: "word-search"},            // unknown type
			{Word: "word1", Type: models.GameFourOption},    // no distractors
			{Word: "word2", Type: models.GameWordParts},     // no parts data
			{Word: "word2", Type: models.GameFillups},       // no blank positions
			{Word: "word1", Type: models.GameWordsMeaning},  // no entry
			{Word: "word2", Type: models.GameContextChoice}, // correct missing from options
		},
		Content: models.ContentMaps{
			ContextChoice: map[string]models.ChoiceEntry{
				"train": {Correct: "on rails", Options: []string{"in the sky", "underwater"}},
			},
		},
	}

	warnings, err := svc.Save(set)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if len(warnings) != 7 {
		t.Fatalf("got %d warnings, want 7: %v", len(warnings), warnings)
	}

	wantFragments := []string{
		"will be skipped",
		"unknown type",
		"fewer than 3 distractors",
		"no parts data",
		"no blank positions",
		"no entry",
		"not among its options",
	}
	for _, fragment := range wantFragments {
		found := false
		for _, w := range warnings {
			if strings.Contains(w, fragment) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no warning contains %q in %v", fragment, warnings)
		}
	}
}

func TestSaveCleanSetHasNoWarnings(t *testing.T) {
	svc := newSetService(t)

	warnings, err := svc.Save(validSet("emma"))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("got warnings for a clean set: %v", warnings)
	}
}

func TestDeleteMissingSet(t *testing.T) {
	svc := newSetService(t)

	if err := svc.Delete("ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestListAfterSaves(t *testing.T) {
	svc := newSetService(t)

	for _, code := range []string{"emma", "liam"} {
		if _, err := svc.Save(validSet(code)); err != nil {
			t.Fatalf("Save(%s) error: %v", code, err)
		}
	}

	summaries, err := svc.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
}
