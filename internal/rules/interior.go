package rules

import (
	"math"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

var firstIntRe = regexp.MustCompile(`\d+`)

// InteriorSource carries every field the eligibility chain may consult.
// InteriorCleaning and InteriorCount are loosely typed because upstream data
// has been observed holding numbers, booleans and free-form strings in the
// same column.
type InteriorSource struct {
	// InteriorPerMonth is the derived package cadence when known; nil means
	// no package specs were available and the chain continues.
	InteriorPerMonth *int
	InteriorCleaning any
	InteriorCount    any
	PackageName      string
}

// HasInteriorOption decides whether an entity's package entitles it to
// interior cleaning. The priority chain is deliberate business logic and must
// be kept in this exact order: derived package specs win over raw fields, raw
// fields win over the package-name fallback. Note the fallback list includes
// "classic" even though the specs table gives a generic "moderate" match
// priority; a package literally named "Classic" is force-included on purpose.
func HasInteriorOption(src InteriorSource) bool {
	if src.InteriorPerMonth != nil {
		return *src.InteriorPerMonth > 0
	}

	if n, ok := ParseInteriorCount(src.InteriorCleaning); ok {
		return n > 0
	}
	if n, ok := ParseInteriorCount(src.InteriorCount); ok {
		return n > 0
	}

	if b, isBool := src.InteriorCleaning.(bool); isBool && b {
		return true
	}

	name := strings.ToLower(src.PackageName)
	return strings.Contains(name, "classic") ||
		strings.Contains(name, "premium") ||
		strings.Contains(name, "basic")
}

// ParseInteriorCount coerces a loosely-typed interior-cleaning field into a
// monthly count: numbers are floored and clamped at zero, booleans become 1/0,
// strings are either a known "no" spelling or yield their first embedded
// integer. ok is false when the value carries no usable signal.
func ParseInteriorCount(v any) (int, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		if s == "" {
			return 0, false
		}
		switch s {
		case "no", "none", "n/a":
			return 0, true
		}
		if m := firstIntRe.FindString(s); m != "" {
			return cast.ToInt(m), true
		}
		return 0, false
	default:
		n, err := cast.ToFloat64E(v)
		if err != nil {
			return 0, false
		}
		if n < 0 {
			n = 0
		}
		return int(math.Floor(n)), true
	}
}
