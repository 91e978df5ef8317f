// Package parse normalizes the loosely formatted identifiers that arrive from
// web forms and bulk spreadsheets: vehicle registration numbers, mobile
// numbers and "YYYY-MM" month selectors.
package parse

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	mobileRe    = regexp.MustCompile(`^\d{10}$`)
	vehicleNoRe = regexp.MustCompile(`^[A-Z]{2}\d{1,2}[A-Z]{0,3}\d{1,4}$`)
	monthRe     = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	spacerRe    = regexp.MustCompile(`[\s\-.]+`)
)

// NormalizeVehicleNo upper-cases a registration number and strips separators
// ("ka 01 ab-1234" -> "KA01AB1234"), then validates the result against the
// registration pattern.
func NormalizeVehicleNo(raw string) (string, error) {
	s := strings.ToUpper(spacerRe.ReplaceAllString(strings.TrimSpace(raw), ""))
	if s == "" {
		return "", fmt.Errorf("vehicle number is empty")
	}
	if !vehicleNoRe.MatchString(s) {
		return "", fmt.Errorf("unable to parse vehicle number: %q", raw)
	}
	return s, nil
}

// ValidMobile reports whether the string is a plain 10-digit mobile number.
func ValidMobile(s string) bool {
	return mobileRe.MatchString(s)
}

// Month parses a "YYYY-MM" selector into its year and month. A zero year
// falls back to the caller's notion of the current month.
func Month(s string) (int, time.Month, error) {
	m := monthRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("unable to parse month selector: %q", s)
	}
	// Widths are fixed by the regexp, so Parse cannot fail on format.
	t, err := time.Parse("2006-01", m[1]+"-"+m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month selector %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// MonthRange returns the inclusive first and exclusive last "YYYY-MM-DD"
// bounds of a month, for range queries over date-string columns.
func MonthRange(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.Format("2006-01-02"), first.AddDate(0, 1, 0).Format("2006-01-02")
}
