// Package rules holds the pure derivation logic shared by the API handlers,
// the store layer and the dashboard client: the package cadence table, the
// washing-day resolver, the interior-cleaning eligibility chain and the
// early-completion guard. Keeping a single implementation here is what stops
// the washer dashboard and the manage-washes view from drifting apart.
package rules

import (
	"fmt"
	"strings"
)

// PackageInfo is the denormalized package data the rule table operates on.
type PackageInfo struct {
	Name              string
	WashCountPerMonth int
	WashCountPerWeek  int
	InteriorCleaning  int
}

// PackageSpecs is the wash cadence derived for a package.
type PackageSpecs struct {
	ExteriorPerMonth int    `json:"exteriorPerMonth"`
	ExteriorPerWeek  int    `json:"exteriorPerWeek"`
	InteriorPerMonth int    `json:"interiorPerMonth"`
	InteriorSchedule string `json:"interiorSchedule"`
}

// GetPackageSpecs maps a package to its cadence. Matching is a case-insensitive
// substring check against the fixed vocabulary, first match wins; names outside
// the vocabulary fall back to the package's raw count fields, which default to
// zero when absent. There is no error path.
func GetPackageSpecs(pkg PackageInfo) PackageSpecs {
	name := strings.ToLower(pkg.Name)
	switch {
	case strings.Contains(name, "basic"):
		return PackageSpecs{
			ExteriorPerMonth: 8,
			ExteriorPerWeek:  2,
			InteriorPerMonth: 2,
			InteriorSchedule: "Bi-weekly (every ~15 days) — 2 per month",
		}
	case strings.Contains(name, "classic"):
		return PackageSpecs{
			ExteriorPerMonth: 12,
			ExteriorPerWeek:  3,
			InteriorPerMonth: 2,
			InteriorSchedule: "Twice per month",
		}
	case strings.Contains(name, "moderate"):
		return PackageSpecs{
			ExteriorPerMonth: 12,
			ExteriorPerWeek:  3,
			InteriorPerMonth: 0,
			InteriorSchedule: "No interior cleaning included",
		}
	}

	specs := PackageSpecs{
		ExteriorPerMonth: pkg.WashCountPerMonth,
		ExteriorPerWeek:  pkg.WashCountPerWeek,
		InteriorPerMonth: pkg.InteriorCleaning,
	}
	if specs.InteriorPerMonth > 0 {
		specs.InteriorSchedule = fmt.Sprintf("%d per month", specs.InteriorPerMonth)
	} else {
		specs.InteriorSchedule = "No interior cleaning included"
	}
	return specs
}
