package client

import (
	"time"

	"carwash-backend/internal/rules"
	"carwash-backend/internal/store"
)

// ApplyCompletion patches an assignment list after a successful completion
// call: the matched entry is replaced with updated counters and last-wash
// metadata, every other entry keeps its pointer identity so unaffected rows
// never re-render and concurrent in-flight patches on other entries are not
// clobbered. It is a total function; the input slice is never mutated.
func ApplyCompletion(assignments []*store.Assignment, res *store.CompletionResult, now time.Time) []*store.Assignment {
	out := make([]*store.Assignment, len(assignments))
	for i, a := range assignments {
		if a == nil || a.ID != res.AssignmentID {
			out[i] = a
			continue
		}

		patched := *a
		if patched.PendingWashes > 0 {
			patched.PendingWashes--
		}
		patched.CompletedWashes++
		patched.WashedToday = true
		patched.DisabledUntil = res.DisabledUntil

		iso := now.UTC().Format(time.RFC3339)
		patched.LastWashDate = &iso
		patched.LastWash = &store.LastWash{
			Date:       res.WashDate,
			WasherID:   res.WasherID,
			WasherName: res.WasherName,
			WashType:   res.WashType,
		}
		out[i] = &patched
	}
	return out
}

// AssignmentHasInterior is the single interior-eligibility call site for
// every view rendering an assignment, so the washer dashboard and the
// manage-washes modal cannot drift apart.
func AssignmentHasInterior(a *store.Assignment) bool {
	return rules.HasInteriorOption(rules.InteriorSource{
		PackageName: a.PackageName,
	})
}

// AssignmentScheduleSource adapts an assignment to the washing-day resolver.
func AssignmentScheduleSource(a *store.Assignment) rules.ScheduleSource {
	src := rules.ScheduleSource{
		WashingDayNames: a.WashingDayNames,
		PackageName:     a.PackageName,
	}
	if a.WashingSchedule != nil {
		src.WashingDays = a.WashingSchedule.WashingDays
	}
	return src
}
