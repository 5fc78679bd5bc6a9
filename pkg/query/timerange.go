package query

import (
	"strconv"
	"time"
)

// Symbolic time range types produced by Classify.
const (
	TimeToday         = "today"
	TimeYesterday     = "yesterday"
	TimeThisMorning   = "this_morning"
	TimeThisAfternoon = "this_afternoon"
	TimeThisHour      = "this_hour"
	TimeLastHour      = "last_hour"
	TimeLastNHours    = "last_n_hours"
	TimeLastWeek      = "last_week"
	TimeThisWeek      = "this_week"
	TimeMinutesAgo    = "minutes_ago"
	TimeJustNow       = "just_now"
	TimeRecent        = "recent"
)

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ResolveTimeRange maps a symbolic time phrase to a concrete [start, end)
// pair anchored at now. Unknown types default to today.
func ResolveTimeRange(p Params, now time.Time) (time.Time, time.Time) {
	switch p.TimeType {
	case TimeToday:
		return startOfDay(now), now
	case TimeYesterday:
		y := now.AddDate(0, 0, -1)
		start := startOfDay(y)
		end := time.Date(y.Year(), y.Month(), y.Day(), 23, 59, 59, 0, y.Location())
		return start, end
	case TimeThisMorning:
		start := startOfDay(now)
		return start, start.Add(12 * time.Hour)
	case TimeThisAfternoon:
		return startOfDay(now).Add(12 * time.Hour), now
	case TimeThisHour:
		start := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
		return start, now
	case TimeLastHour:
		return now.Add(-time.Hour), now
	case TimeLastNHours:
		if n, err := strconv.Atoi(p.Value); err == nil {
			return now.Add(-time.Duration(n) * time.Hour), now
		}
	case TimeLastWeek:
		return now.AddDate(0, 0, -7), now
	case TimeThisWeek:
		// Monday 00:00 of the current week.
		weekday := int(now.Weekday()+6) % 7
		return startOfDay(now.AddDate(0, 0, -weekday)), now
	case TimeMinutesAgo:
		if n, err := strconv.Atoi(p.Value); err == nil {
			return now.Add(-time.Duration(n) * time.Minute), now
		}
	case TimeJustNow:
		return now.Add(-5 * time.Minute), now
	case TimeRecent:
		return now.Add(-2 * time.Hour), now
	}
	return startOfDay(now), now
}
