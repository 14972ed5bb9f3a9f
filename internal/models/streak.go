package models

import "time"

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the most recent Sunday midnight at or before t.
func WeekStart(t time.Time) time.Time {
	day := DayStart(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Streak computes the consecutive-day activity streak ending at now.
// completions must be sorted most-recent-first. Each completion is normalized
// to midnight and its whole-day gap from today compared against the running
// streak counter: a gap equal to the counter extends the streak, a larger gap
// terminates it, and a smaller gap (another completion on an already-counted
// day) is skipped without breaking the streak.
func Streak(completions []time.Time, now time.Time) int {
	today := DayStart(now)
	streak := 0
	for _, c := range completions {
		day := DayStart(c.In(now.Location()))
		gap := int(today.Sub(day).Hours() / 24)
		switch {
		case gap == streak:
			streak++
		case gap > streak:
			return streak
		}
	}
	return streak
}
