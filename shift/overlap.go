package shift

import "github.com/warp/hr-engine/date"

// Overlaps reports whether the candidate interval [start, end] conflicts
// with any of the existing assignments.
//
// The rule is boundary-inclusive: [s, e] conflicts with [s2, e2] iff
// s <= e2 && e >= s2, so two intervals that merely touch on a shared day
// count as overlapping. A same-day handoff (one assignment ending the day
// the next begins) is therefore rejected. Side-effect free.
func Overlaps(start, end date.Date, existing []*Assignment) bool {
	for _, a := range existing {
		if start.BeforeOrEqual(a.EndDate) && end.AfterOrEqual(a.StartDate) {
			return true
		}
	}
	return false
}
