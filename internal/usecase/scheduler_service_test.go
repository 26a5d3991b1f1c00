package usecase

import (
	"testing"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
)

func kickoffAt(id int64, hour, minute int) match.Match {
	return match.Match{
		ID:      id,
		UTCDate: time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC),
	}
}

func TestBuildTodaysWindowsMergesOverlaps(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC)
	matches := []match.Match{
		kickoffAt(1, 5, 0),
		kickoffAt(2, 1, 0),
		kickoffAt(3, 1, 30),
	}

	windows := BuildTodaysWindows(matches, now)

	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d: %v", len(windows), windows)
	}
	wantStart := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 3, 10, 3, 48, 0, 0, time.UTC)
	if !windows[0].Start.Equal(wantStart) || !windows[0].End.Equal(wantEnd) {
		t.Fatalf("first window: got [%v, %v] want [%v, %v]", windows[0].Start, windows[0].End, wantStart, wantEnd)
	}
	wantStart = time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)
	wantEnd = time.Date(2026, 3, 10, 7, 18, 0, 0, time.UTC)
	if !windows[1].Start.Equal(wantStart) || !windows[1].End.Equal(wantEnd) {
		t.Fatalf("second window: got [%v, %v] want [%v, %v]", windows[1].Start, windows[1].End, wantStart, wantEnd)
	}
}

func TestBuildTodaysWindowsIgnoresOtherDays(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	matches := []match.Match{
		{ID: 1, UTCDate: time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)},
		{ID: 2, UTCDate: time.Date(2026, 3, 11, 1, 0, 0, 0, time.UTC)},
		{ID: 3, UTCDate: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)},
	}

	windows := BuildTodaysWindows(matches, now)

	if len(windows) != 1 {
		t.Fatalf("expected a single window for today's match, got %d", len(windows))
	}
	want := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	if !windows[0].Start.Equal(want) {
		t.Fatalf("window start: got %v want %v", windows[0].Start, want)
	}
	if !windows[0].End.Equal(want.Add(pollWindowLength)) {
		t.Fatalf("window end: got %v want %v", windows[0].End, want.Add(pollWindowLength))
	}
}

func TestBuildTodaysWindowsEmptyInput(t *testing.T) {
	t.Parallel()

	if got := BuildTodaysWindows(nil, time.Now()); got != nil {
		t.Fatalf("expected nil windows for no matches, got %v", got)
	}
}

func TestBuildTodaysWindowsSingleKickoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	windows := BuildTodaysWindows([]match.Match{kickoffAt(1, 20, 45)}, now)

	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if got := windows[0].End.Sub(windows[0].Start); got != pollWindowLength {
		t.Fatalf("window length: got %v want %v", got, pollWindowLength)
	}
}
