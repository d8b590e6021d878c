package game

import "strings"

// LetterStatus classifies one position of a typed attempt against the target
// word.
type LetterStatus string

const (
	// LetterCorrect marks a letter in the right position.
	LetterCorrect LetterStatus = "correct"
	// LetterPresent marks a letter that occurs elsewhere in the target and
	// still has occurrences left to consume.
	LetterPresent LetterStatus = "present"
	// LetterAbsent marks a letter with no remaining occurrence in the target.
	LetterAbsent LetterStatus = "absent"
)

// LetterFeedback computes position-by-position feedback for a guess using a
// two-pass multiset diff. Pass one consumes exact-position matches from a
// per-letter remaining-count map seeded from the target; pass two classifies
// the rest as present (count still available) or absent. A fully correct
// guess short-circuits to all-correct. Both the letter boxes and the
// on-screen keyboard are colored from this same result.
func LetterFeedback(guess, target string) []LetterStatus {
	guess = strings.ToLower(guess)
	target = strings.ToLower(target)

	n := len(guess)
	if len(target) > n {
		n = len(target)
	}
	statuses := make([]LetterStatus, 0, n)

	if guess == target {
		for range guess {
			statuses = append(statuses, LetterCorrect)
		}
		return statuses
	}

	remaining := make(map[byte]int, len(target))
	for i := 0; i < len(target); i++ {
		remaining[target[i]]++
	}

	result := make([]LetterStatus, n)

	// First pass: exact-position matches consume from the count map.
	for i := 0; i < n; i++ {
		if i < len(guess) && i < len(target) && guess[i] == target[i] {
			result[i] = LetterCorrect
			remaining[guess[i]]--
		}
	}

	// Second pass: remaining positions are present or absent.
	for i := 0; i < n; i++ {
		if result[i] == LetterCorrect {
			continue
		}
		if i >= len(guess) {
			result[i] = LetterAbsent
			continue
		}
		c := guess[i]
		if strings.IndexByte(target, c) >= 0 && remaining[c] > 0 {
			result[i] = LetterPresent
			remaining[c]--
		} else {
			result[i] = LetterAbsent
		}
	}

	return result
}

// KeyboardState tracks per-letter key coloring across the attempts of a
// typing question. A key's status never downgrades: correct is sticky, and
// present cannot be overwritten by absent.
type KeyboardState map[string]LetterStatus

// NewKeyboardState returns an empty keyboard state.
func NewKeyboardState() KeyboardState {
	return make(KeyboardState)
}

// Apply folds one attempt's letter feedback into the keyboard state.
func (k KeyboardState) Apply(guess, target string) {
	if guess == "" || target == "" {
		return
	}
	guess = strings.ToLower(guess)
	target = strings.ToLower(target)
	feedback := LetterFeedback(guess, target)
	for i := 0; i < len(guess) && i < len(feedback); i++ {
		k.set(string(guess[i]), feedback[i])
	}
}

func (k KeyboardState) set(letter string, status LetterStatus) {
	current, ok := k[letter]
	if !ok {
		k[letter] = status
		return
	}
	if current == LetterCorrect {
		return
	}
	if current == LetterPresent && status == LetterAbsent {
		return
	}
	k[letter] = status
}
