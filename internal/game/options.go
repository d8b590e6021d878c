package game

import (
	"fmt"
	"math/rand"
	"strings"
)

// GenerateOptions assembles a shuffled option set of up to count entries (the
// correct word plus distractors sampled without replacement from the word's
// distractor table). Degraded modes, per the authored-content contract:
//   - no distractor entry for the word: returns just the correct word and a
//     warning, never an error
//   - table exhausted before count: returns the partial set and a warning;
//     callers must tolerate variable option-set size
//
// The returned order is always shuffled so the correct answer's position is
// not predictable.
func GenerateOptions(correctWord string, count int, distractors map[string][]string, rng *rand.Rand) ([]string, []string) {
	var warnings []string

	table := distractors[strings.ToLower(correctWord)]
	if len(table) == 0 {
		warnings = append(warnings, fmt.Sprintf("no distractors found for word %q", correctWord))
		return []string{correctWord}, warnings
	}

	options := []string{correctWord}
	available := make([]string, len(table))
	copy(available, table)

	for len(options) < count && len(available) > 0 {
		i := rng.Intn(len(available))
		candidate := available[i]
		available = append(available[:i], available[i+1:]...)
		if candidate == correctWord || contains(options, candidate) {
			continue
		}
		options = append(options, candidate)
	}

	if len(options) < count {
		warnings = append(warnings, fmt.Sprintf("not enough distractors for word %q: only %d options", correctWord, len(options)))
	}

	shuffle(options, rng)
	return options, warnings
}

// GenerateTwoOptionSet builds the [correct, distractor] pair for the 2-option
// game. It prefers the curated distractor keyed by word, falls back to a
// random pick from the general distractor table, and degrades to a
// single-element set when both are missing.
func GenerateTwoOptionSet(word string, curated map[string]string, distractors map[string][]string, rng *rand.Rand) ([]string, []string) {
	var warnings []string
	options := []string{word}

	key := strings.ToLower(word)
	if specific, ok := curated[key]; ok && specific != "" {
		options = append(options, specific)
	} else {
		warnings = append(warnings, fmt.Sprintf("no curated 2-option distractor for word %q, using fallback", word))
		if table := distractors[key]; len(table) > 0 {
			options = append(options, table[rng.Intn(len(table))])
		} else {
			warnings = append(warnings, fmt.Sprintf("no fallback distractors for word %q", word))
		}
	}

	shuffle(options, rng)
	return options, warnings
}

// shuffle is an in-place Fisher-Yates shuffle.
func shuffle(s []string, rng *rand.Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

func contains(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}
