// Package availability decides whether a buyer account can take on a
// prospective ticket purchase without violating the purchasing constraints.
//
// The check is a pure computation over an in-memory snapshot of the buyer's
// order history: it performs no I/O, holds no state between calls, and is
// safe to invoke concurrently against the same snapshot. The reference time
// is always supplied by the caller so results are reproducible.
package availability

import (
	"time"

	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
)

const (
	maxActiveTickets = 8
	maxWindowTickets = 12
	windowMonths     = 6
)

// Input carries everything one availability check needs. Orders not
// belonging to Email are filtered out during normalization, so callers may
// pass a shared, unfiltered snapshot.
type Input struct {
	Email       string
	Orders      []domain.Order
	Prospective domain.Prospective
	Now         time.Time
}

// Check evaluates the three purchasing rules independently and merges their
// outcomes. Violations are reported in rule order regardless of which rule
// is evaluated first, and a rule contributes at most one violation. Check
// never fails: malformed fields were already degraded to defaults upstream,
// and missing optional fields have explicit per-rule policies.
func Check(in Input) domain.Decision {
	rows, p := normalize(in.Email, in.Orders, in.Prospective)

	var violations []domain.Violation
	if v, ok := checkActiveCap(rows, p, in.Now); ok {
		violations = append(violations, v)
	}
	if v, ok := checkWindowCap(rows, p, in.Now); ok {
		violations = append(violations, v)
	}
	if v, ok := checkSplitDates(rows, p); ok {
		violations = append(violations, v)
	}

	return domain.Decision{
		Available:  len(violations) == 0,
		Violations: violations,
	}
}
