package rules

import "strings"

// ScheduleSource carries the three encodings a vehicle's washing-day set may
// arrive in, in resolution priority order.
type ScheduleSource struct {
	WashingDays     []int
	WashingDayNames []string
	PackageName     string
}

var dayPrefixes = [...]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// ResolveWashingDays reduces a schedule source to the canonical weekday set
// (1=Mon .. 7=Sun, order-preserving). An explicit non-empty day list wins
// outright; otherwise named days are matched by case-insensitive prefix with
// unmatched names dropped; otherwise the package name selects the default
// schedule. When every source is absent the result is empty and no day ever
// matches.
func ResolveWashingDays(src ScheduleSource) []int {
	if len(src.WashingDays) > 0 {
		return src.WashingDays
	}

	if len(src.WashingDayNames) > 0 {
		days := make([]int, 0, len(src.WashingDayNames))
		for _, name := range src.WashingDayNames {
			if d := DayNumber(name); d != 0 {
				days = append(days, d)
			}
		}
		return days
	}

	switch src.PackageName {
	case "Basic":
		return []int{1, 4}
	case "Moderate", "Classic":
		return []int{1, 3, 5}
	}
	return []int{}
}

// DayNumber maps a weekday name to 1..7 by case-insensitive three-letter
// prefix ("Monday", "mon" and "MON " all map to 1). Unrecognized names
// return 0.
func DayNumber(name string) int {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, prefix := range dayPrefixes {
		if strings.HasPrefix(n, prefix) {
			return i + 1
		}
	}
	return 0
}
