package game

import "spelldaily/internal/models"

// fullTypingStreakThreshold is the cross-day per-word mastery streak above
// which a typing question is shown as full-typing instead.
const fullTypingStreakThreshold = 3

// ClassifyQuestion returns the game type a question is actually displayed
// with. Typing questions for words whose cross-day streak exceeds the
// threshold are promoted to full-typing for that occurrence only; the stored
// question list is never mutated, keeping it replay-safe.
func ClassifyQuestion(q models.Question, streakByWord map[string]int) models.GameType {
	if q.Type == models.GameTyping && streakByWord[q.Word] > fullTypingStreakThreshold {
		return models.GameFullTyping
	}
	return q.Type
}
