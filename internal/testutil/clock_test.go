package testutil

import (
	"testing"
	"time"
)

func TestClockNowIsStable(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := NewClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}
	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("second Now() = %v, want %v", got, start)
	}
}

func TestClockAdvance(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := NewClock(start)

	clock.Advance(48 * time.Hour)

	want := start.Add(48 * time.Hour)
	if got := clock.Now(); !got.Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestClockSetMovesBackwards(t *testing.T) {
	clock := NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	past := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	clock.Set(past)

	if got := clock.Now(); !got.Equal(past) {
		t.Errorf("Now() after Set = %v, want %v", got, past)
	}
}
