package game

import "testing"

func TestLetterFeedback(t *testing.T) {
	tests := []struct {
		name     string
		guess    string
		target   string
		expected []LetterStatus
	}{
		{
			name:     "all correct",
			guess:    "train",
			target:   "train",
			expected: []LetterStatus{LetterCorrect, LetterCorrect, LetterCorrect, LetterCorrect, LetterCorrect},
		},
		{
			name:     "anagram all present",
			guess:    "natri",
			target:   "train",
			expected: []LetterStatus{LetterPresent, LetterPresent, LetterPresent, LetterPresent, LetterPresent},
		},
		{
			name:   "duplicate letters not over-credited",
			guess:  "eppaa",
			target: "apple",
			// Both 'p's sit in their correct slots; 'e' and one 'a' are
			// present; the second 'a' exceeds the target's supply.
			expected: []LetterStatus{LetterPresent, LetterCorrect, LetterCorrect, LetterPresent, LetterAbsent},
		},
		{
			name:     "no overlap",
			guess:    "xyz",
			target:   "cat",
			expected: []LetterStatus{LetterAbsent, LetterAbsent, LetterAbsent},
		},
		{
			name:     "guess shorter than target",
			guess:    "ca",
			target:   "cat",
			expected: []LetterStatus{LetterCorrect, LetterCorrect, LetterAbsent},
		},
		{
			name:     "guess longer than target",
			guess:    "cats",
			target:   "cat",
			expected: []LetterStatus{LetterCorrect, LetterCorrect, LetterCorrect, LetterAbsent},
		},
		{
			name:     "empty guess",
			guess:    "",
			target:   "cat",
			expected: []LetterStatus{LetterAbsent, LetterAbsent, LetterAbsent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := LetterFeedback(tt.guess, tt.target)
			if len(result) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.expected))
			}
			for i, status := range result {
				if status != tt.expected[i] {
					t.Errorf("position %d: got %v, want %v", i, status, tt.expected[i])
				}
			}
		})
	}
}

func TestLetterFeedbackCorrectConsumesFirst(t *testing.T) {
	// The correct-position pass must claim target letters before the
	// present pass hands them out.
	result := LetterFeedback("alla", "ball")
	expected := []LetterStatus{LetterPresent, LetterPresent, LetterCorrect, LetterAbsent}
	for i, status := range result {
		if status != expected[i] {
			t.Errorf("position %d: got %v, want %v", i, status, expected[i])
		}
	}
}

func TestKeyboardStateApply(t *testing.T) {
	ks := NewKeyboardState()
	ks.Apply("natri", "train")

	for _, key := range []string{"n", "a", "t", "r", "i"} {
		if ks[key] != LetterPresent {
			t.Errorf("key %q: got %v, want present", key, ks[key])
		}
	}
}

func TestKeyboardStateNoDowngrade(t *testing.T) {
	ks := NewKeyboardState()

	// First guess puts 't' in the correct slot.
	ks.Apply("txxxx", "train")
	if ks["t"] != LetterCorrect {
		t.Fatalf("key t: got %v, want correct", ks["t"])
	}

	// A later guess with 't' misplaced must not demote it.
	ks.Apply("xtxxx", "train")
	if ks["t"] != LetterCorrect {
		t.Errorf("key t after misplaced guess: got %v, want correct", ks["t"])
	}

	// Present keys are not demoted to absent either.
	ks.Apply("xxxxr", "train")
	if ks["r"] != LetterPresent {
		t.Fatalf("key r: got %v, want present", ks["r"])
	}
	ks.Apply("rxxxx", "moose")
	if ks["r"] != LetterPresent {
		t.Errorf("key r after absent guess: got %v, want present", ks["r"])
	}
}

func TestKeyboardStateUpgrades(t *testing.T) {
	ks := NewKeyboardState()

	ks.Apply("xxxxt", "train")
	if ks["t"] != LetterPresent {
		t.Fatalf("key t: got %v, want present", ks["t"])
	}

	ks.Apply("txxxx", "train")
	if ks["t"] != LetterCorrect {
		t.Errorf("key t after correct guess: got %v, want correct", ks["t"])
	}
}
