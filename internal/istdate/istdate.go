// Package istdate produces calendar dates in India Standard Time (fixed
// UTC+5:30) without depending on the host timezone database or locale. All
// "today" / "due" decisions in the service run on this calendar.
package istdate

import "time"

// Offset is the fixed IST offset. IST has no daylight saving, so shifting the
// instant and reading UTC fields is exact.
const Offset = 5*time.Hour + 30*time.Minute

const dateLayout = "2006-01-02"

// now is swapped out in tests.
var now = time.Now

// Now returns the current instant shifted into the IST calendar. Reading its
// UTC fields yields IST wall-clock values.
func Now() time.Time {
	return now().UTC().Add(Offset)
}

// Today returns the current IST date as "YYYY-MM-DD".
func Today() string {
	return Now().Format(dateLayout)
}

// FromTime converts an instant to its IST date string.
func FromTime(t time.Time) string {
	return t.UTC().Add(Offset).Format(dateLayout)
}

// IsAfterToday reports whether the given "YYYY-MM-DD" date is strictly after
// today's IST date. Lexicographic comparison is correct because the format is
// fixed-width, zero-padded and ordered year-month-day.
func IsAfterToday(date string) bool {
	return date > Today()
}

// Weekday returns the weekday of a "YYYY-MM-DD" date using the Mon=1 .. Sun=7
// convention shared with the washing-day encoding. Unparseable input returns 0,
// which matches no washing day.
func Weekday(date string) int {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0
	}
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7 // time.Sunday is 0
}

// Valid reports whether the string is a well-formed "YYYY-MM-DD" date.
func Valid(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}
