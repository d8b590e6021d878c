package service

import (
	"testing"
	"time"

	"spelldaily/internal/models"
)

func TestWordRecorderAccumulates(t *testing.T) {
	rec := NewWordRecorder("emma", "session-1", false)
	rec.BeginWord("train", models.GameTyping)

	rec.AddCheck(models.CheckEntry{Word: "trian", TimeTakenSec: 4, IsCorrect: false, IsFirstAttempt: true})
	rec.AddBackspace("trian")
	rec.AddCheck(models.CheckEntry{Word: "train", TimeTakenSec: 7, IsCorrect: true, IsFirstAttempt: false})
	rec.AddSpeakerClick()
	rec.AddSpeakerClick()

	record := rec.take()
	if record == nil {
		t.Fatal("take() returned nil after BeginWord")
	}
	if record.Code != "emma" || record.SessionID != "session-1" {
		t.Errorf("record identity = %s/%s, want emma/session-1", record.Code, record.SessionID)
	}
	if record.Word != "train" || record.GameType != models.GameTyping {
		t.Errorf("record word = %s (%s), want train (typing)", record.Word, record.GameType)
	}
	if len(record.Checks) != 2 {
		t.Fatalf("got %d checks, want 2", len(record.Checks))
	}
	if !record.Checks[0].IsFirstAttempt || record.Checks[1].IsFirstAttempt {
		t.Error("first-attempt flags are wrong")
	}
	if len(record.Backspaces) != 1 || record.Backspaces[0] != "trian" {
		t.Errorf("backspaces = %v, want [trian]", record.Backspaces)
	}
	if record.SpeakerClicks != 2 {
		t.Errorf("speaker clicks = %d, want 2", record.SpeakerClicks)
	}
	if record.Day != Day(time.Now()) {
		t.Errorf("day = %s, want %s", record.Day, Day(time.Now()))
	}
}

func TestWordRecorderTakeIsOneShot(t *testing.T) {
	rec := NewWordRecorder("emma", "session-1", false)
	rec.BeginWord("apple", models.GameFullTyping)

	if rec.take() == nil {
		t.Fatal("first take() returned nil")
	}
	if rec.take() != nil {
		t.Error("second take() should return nil")
	}
}

func TestWordRecorderInactiveIgnoresEvents(t *testing.T) {
	rec := NewWordRecorder("emma", "session-1", false)

	// No BeginWord yet: events between words are dropped.
	rec.AddCheck(models.CheckEntry{Word: "stray"})
	rec.AddBackspace("stray")
	rec.AddSpeakerClick()

	if rec.take() != nil {
		t.Error("take() without BeginWord should return nil")
	}

	rec.BeginWord("apple", models.GameTyping)
	record := rec.take()
	if record == nil {
		t.Fatal("take() returned nil")
	}
	if len(record.Checks) != 0 || len(record.Backspaces) != 0 || record.SpeakerClicks != 0 {
		t.Errorf("events recorded before BeginWord leaked into the record: %+v", record)
	}
}

func TestWordRecorderBeginWordDiscardsUnflushed(t *testing.T) {
	rec := NewWordRecorder("emma", "session-1", false)
	rec.BeginWord("apple", models.GameTyping)
	rec.AddCheck(models.CheckEntry{Word: "aple"})

	rec.BeginWord("train", models.GameTyping)
	record := rec.take()
	if record == nil {
		t.Fatal("take() returned nil")
	}
	if record.Word != "train" {
		t.Errorf("word = %s, want train", record.Word)
	}
	if len(record.Checks) != 0 {
		t.Errorf("checks from the previous word leaked: %v", record.Checks)
	}
}

func TestDayFormat(t *testing.T) {
	ts := time.Date(2026, time.March, 7, 23, 59, 0, 0, time.UTC)
	if got := Day(ts); got != "2026-03-07" {
		t.Errorf("Day() = %q, want 2026-03-07", got)
	}
}
