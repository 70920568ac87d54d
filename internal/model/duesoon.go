package model

import "time"

const (
	// EndOfDay is assumed when a task has a due date but no due time.
	EndOfDay = "23:59"

	// DueSoonWindow is how far ahead a task counts as due soon.
	DueSoonWindow = 2 * 24 * time.Hour

	dueLayout = "2006-01-02T15:04"
)

// IsDueSoon reports whether the due instant lies within [now, now+2 days].
// Anything already past, even by a second, is not due soon. The date and time
// are read in now's location.
func IsDueSoon(dueDate string, dueTime any, now time.Time) bool {
	if dueDate == "" {
		return false
	}
	due, ok := DueInstant(dueDate, dueTime, now.Location())
	if !ok {
		return false
	}
	diff := due.Sub(now)
	return diff >= 0 && diff <= DueSoonWindow
}

// DueInstant combines a date and a raw due time into a point in time.
func DueInstant(dueDate string, dueTime any, loc *time.Location) (time.Time, bool) {
	if dueDate == "" {
		return time.Time{}, false
	}
	hhmm, ok := NormalizeTime(dueTime)
	if !ok {
		hhmm = EndOfDay
	}
	if loc == nil {
		loc = time.Local
	}
	due, err := time.ParseInLocation(dueLayout, dueDate+"T"+hhmm, loc)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}
