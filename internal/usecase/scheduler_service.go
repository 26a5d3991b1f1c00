package usecase

import (
	"sort"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/schedule"
)

// pollWindowLength covers a full match plus stoppage and a margin, so one
// window started at kickoff outlives the game it was opened for.
const pollWindowLength = 138 * time.Minute

// BuildTodaysWindows derives the live-polling windows for the matches that
// kick off today (UTC). Each kickoff opens a window of pollWindowLength;
// overlapping windows collapse into one. The result is sorted ascending by
// start.
func BuildTodaysWindows(matches []match.Match, now time.Time) []schedule.Window {
	now = now.UTC()
	today := matches[:0:0]
	for _, m := range matches {
		kickoff := m.UTCDate.UTC()
		if kickoff.Year() == now.Year() && kickoff.YearDay() == now.YearDay() {
			today = append(today, m)
		}
	}
	if len(today) == 0 {
		return nil
	}

	sort.SliceStable(today, func(i, j int) bool {
		return today[i].UTCDate.After(today[j].UTCDate)
	})

	var windows []schedule.Window
	for _, m := range today {
		start := m.UTCDate.UTC()
		end := start.Add(pollWindowLength)
		if len(windows) > 0 && windows[0].Start.Before(end) {
			windows[0].Start = start
			continue
		}
		windows = append([]schedule.Window{{Start: start, End: end}}, windows...)
	}

	return windows
}
