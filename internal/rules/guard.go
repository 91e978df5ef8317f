package rules

import "carwash-backend/internal/istdate"

// Date sentinels accepted by the dashboard in place of a concrete date.
const (
	DateToday = "today"
	DateAll   = "all"
)

// ShouldConfirmEarlyCompletion reports whether completing a wash on the
// selected date needs an explicit user confirmation: the date is a future IST
// date AND its weekday is one of the entity's washing days, i.e. the user is
// about to consume a scheduled wash ahead of time. Sentinel selections
// ("today", "all") and unparseable dates never prompt.
func ShouldConfirmEarlyCompletion(selectedDate string, src ScheduleSource) bool {
	if selectedDate == "" || selectedDate == DateToday || selectedDate == DateAll {
		return false
	}

	day := istdate.Weekday(selectedDate)
	if day == 0 {
		return false
	}
	if !istdate.IsAfterToday(selectedDate) {
		return false
	}

	for _, d := range ResolveWashingDays(src) {
		if d == day {
			return true
		}
	}
	return false
}
