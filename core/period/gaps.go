package period

import (
	"math"
	"sort"

	"github.com/mhue26/Sample-sub000/core"
)

// FindGaps returns the uncovered day ranges between chronologically adjacent periods.
// Contiguous or overlapping periods leave no gap. `periods` is not modified.
func FindGaps(periods []Period) []Gap {
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	gaps := make([]Gap, 0)
	for i := 0; i+1 < len(sorted); i++ {
		gapStart := sorted[i].End.AddDays(1)
		gapEnd := sorted[i+1].Start.AddDays(-1)
		if !gapStart.After(gapEnd) {
			gaps = append(gaps, Gap{Start: gapStart, End: gapEnd})
		}
	}
	return gaps
}

// CurrentTerm returns the first active term containing `today`, in input order.
func CurrentTerm(today core.Date, terms []Term) (Term, bool) {
	for _, t := range terms {
		if t.IsActive && today.Within(t.Start, t.End) {
			return t, true
		}
	}
	return Term{}, false
}

// ActiveTerms returns every active term containing `today`, in input order.
// More than one means overlapping terms were entered.
func ActiveTerms(today core.Date, terms []Term) []Term {
	var active []Term
	for _, t := range terms {
		if t.IsActive && today.Within(t.Start, t.End) {
			active = append(active, t)
		}
	}
	return active
}

// WeekNumber returns the teaching week of `today` within `term`, starting at 1.
func WeekNumber(today core.Date, term Term) int {
	days := today.DaysSince(term.Start)
	week := int(math.Ceil(float64(days) / 7))
	if week < 1 {
		return 1
	}
	return week
}
