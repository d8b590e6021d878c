package models

import "fmt"

// GameType identifies the mini-game used to drill a word.
type GameType string

const (
	GameTyping          GameType = "typing"
	GameFullTyping      GameType = "full-typing"
	GameFourOption      GameType = "4-option"
	GameTwoOption       GameType = "2-option"
	GameCorrectWord     GameType = "correct-word"
	GameLetterScramble  GameType = "letter-scramble"
	GameWordParts       GameType = "word-parts"
	GameFillups         GameType = "fillups"
	GameWordsMeaning    GameType = "words-meaning"
	GameContextChoice   GameType = "context-choice"
	GameCorrectSentence GameType = "correct-sentence"
)

// AllGameTypes lists every playable game type.
var AllGameTypes = []GameType{
	GameTyping,
	GameFullTyping,
	GameFourOption,
	GameTwoOption,
	GameCorrectWord,
	GameLetterScramble,
	GameWordParts,
	GameFillups,
	GameWordsMeaning,
	GameContextChoice,
	GameCorrectSentence,
}

// Valid reports whether t is a known game type.
func (t GameType) Valid() bool {
	for _, known := range AllGameTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsTypingFamily reports whether the game type collects keystroke-level
// analytics (attempt log, backspace log, speaker clicks).
func (t GameType) IsTypingFamily() bool {
	return t == GameTyping || t == GameFullTyping
}

// Question binds a word to the game type it is drilled with. Questions are
// immutable once the session is built; the typing-to-full-typing promotion is
// computed at display time and never written back.
type Question struct {
	Word string   `json:"word"`
	Type GameType `json:"type"`
}

// SequenceItem is one entry of the authored game sequence. The word is a
// logical slot ("word1", "word2", ...) resolved against the word list when the
// session is built.
type SequenceItem struct {
	Word string   `json:"word"`
	Type GameType `json:"type"`
}

// WordPartsEntry describes how a word decomposes into ordered parts and the
// candidate options offered for each part slot.
type WordPartsEntry struct {
	Parts   []string   `json:"parts"`
	Options [][]string `json:"options"`
}

// ChoiceEntry is the canonical answer plus the full option list for the
// meaning/context/sentence single-select games.
type ChoiceEntry struct {
	Sentence string   `json:"sentence,omitempty"`
	Question string   `json:"question,omitempty"`
	Correct  string   `json:"correct"`
	Options  []string `json:"options"`
}

// ContentMaps carries the per-word auxiliary data supplied with a question
// set. All maps are read-only for the lifetime of a session.
type ContentMaps struct {
	Hints               map[string]string         `json:"wordHints"`
	Distractors         map[string][]string       `json:"wordDistractors"`
	SentenceTemplates   map[string][]string       `json:"sentenceTemplates"`
	WordParts           map[string]WordPartsEntry `json:"wordPartsData"`
	FillupsBlanks       map[string][]int          `json:"fillupsBlankPositions"`
	TwoOptionDistractor map[string]string         `json:"twoOptionDistractors"`
	WordMeanings        map[string]ChoiceEntry    `json:"wordMeanings"`
	ContextChoice       map[string]ChoiceEntry    `json:"contextChoice"`
	CorrectSentence     map[string]ChoiceEntry    `json:"correctSentence"`
}

// QuestionSet is the per-user, per-day document authored in the admin panel
// and fetched by code when a player starts a session.
type QuestionSet struct {
	Code         string         `json:"code"`
	Words        []string       `json:"words"`
	GameSequence []SequenceItem `json:"gameSequence"`
	Content      ContentMaps    `json:"content"`
	// StreakByWord is the externally maintained cross-day mastery streak per
	// word, used to promote typing questions to full-typing at display time.
	StreakByWord map[string]int `json:"wordsWithStreak"`
}

// WordFor resolves a logical word slot ("word1", ...) to the actual word.
func (qs *QuestionSet) WordFor(slot string) (string, error) {
	var n int
	if _, err := fmt.Sscanf(slot, "word%d", &n); err != nil {
		return "", fmt.Errorf("invalid word slot %q", slot)
	}
	if n < 1 || n > len(qs.Words) {
		return "", fmt.Errorf("word slot %q out of range (have %d words)", slot, len(qs.Words))
	}
	return qs.Words[n-1], nil
}
