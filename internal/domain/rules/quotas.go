package rules

import "time"

const (
	FreeLikesPerDay = 10
	FreeUndosPerDay = 0
)

// DayKey is the calendar-day bucket daily quotas are stored under. Keying quota
// rows by day rather than resetting a counter makes the "first write of a new
// day" race moot: a new day is simply a new row.
func DayKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}

// NextResetAt is the next local midnight, returned in UTC.
func NextResetAt(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return next.UTC()
}
