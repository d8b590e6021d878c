package models

import (
	"testing"
)

func TestGameTypeValid(t *testing.T) {
	tests := []struct {
		name     string
		gameType GameType
		want     bool
	}{
		{
			name:     "typing",
			gameType: GameTyping,
			want:     true,
		},
		{
			name:     "correct-sentence",
			gameType: GameCorrectSentence,
			want:     true,
		},
		{
			name:     "unknown type",
			gameType: GameType("word-search"),
			want:     false,
		},
		{
			name:     "empty type",
			gameType: GameType(""),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.gameType.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTypingFamily(t *testing.T) {
	for _, gameType := range AllGameTypes {
		want := gameType == GameTyping || gameType == GameFullTyping
		if got := gameType.IsTypingFamily(); got != want {
			t.Errorf("%s.IsTypingFamily() = %v, want %v", gameType, got, want)
		}
	}
}

func TestWordFor(t *testing.T) {
	set := &QuestionSet{
		Code:  "emma",
		Words: []string{"apple", "train", "sunset"},
	}

	tests := []struct {
		name    string
		slot    string
		want    string
		wantErr bool
	}{
		{
			name: "first slot",
			slot: "word1",
			want: "apple",
		},
		{
			name: "last slot",
			slot: "word3",
			want: "sunset",
		},
		{
			name:    "slot zero",
			slot:    "word0",
			wantErr: true,
		},
		{
			name:    "slot past the list",
			slot:    "word4",
			wantErr: true,
		},
		{
			name:    "not a slot",
			slot:    "apple",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := set.WordFor(tt.slot)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("WordFor(%q) expected an error, got %q", tt.slot, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("WordFor(%q) error: %v", tt.slot, err)
			}
			if got != tt.want {
				t.Errorf("WordFor(%q) = %q, want %q", tt.slot, got, tt.want)
			}
		})
	}
}
