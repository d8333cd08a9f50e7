package utils

import "time"

const DateLayout = "2006-01-02"

// DateOnly keeps the calendar day t has in its own location and returns it
// as midnight UTC. No timezone conversion happens; convert t first if the day
// should be read in another zone.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in UTC.
func Today() time.Time {
	return DateOnly(time.Now())
}

const secondsPerDay = 24 * 60 * 60

// InclusiveDays counts calendar days in [start, end]. Returns 0 when end < start.
// Both ends are UTC midnights, so the Unix difference is a whole number of
// days for any range, including those longer than a time.Duration can hold.
func InclusiveDays(start, end time.Time) int {
	s, e := DateOnly(start), DateOnly(end)
	if e.Before(s) {
		return 0
	}
	return int((e.Unix()-s.Unix())/secondsPerDay) + 1
}

// EachDay returns every calendar day in [start, end].
func EachDay(start, end time.Time) []time.Time {
	n := InclusiveDays(start, end)
	days := make([]time.Time, 0, n)
	s := DateOnly(start)
	for i := 0; i < n; i++ {
		days = append(days, s.AddDate(0, 0, i))
	}
	return days
}

// RangesOverlap reports whether [aStart, aEnd] and [bStart, bEnd] share a day.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !DateOnly(aStart).After(DateOnly(bEnd)) && !DateOnly(aEnd).Before(DateOnly(bStart))
}

// FormatDate renders t as YYYY-MM-DD; nil renders as empty.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
