package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
)

// checkActiveCap enforces Rule 1: the buyer's active tickets, including the
// prospective purchase when it would itself be active, must not exceed
// maxActiveTickets. A ticket is active when its event date is today or
// later. Rows with no event date count as active; the same conservative
// default applies to a prospective order with no event date.
func checkActiveCap(rows []row, p prospective, now time.Time) (domain.Violation, bool) {
	today := dateOnly(now)

	total := 0
	for _, r := range rows {
		if r.eventDate == nil || !dateOnly(*r.eventDate).Before(today) {
			total += r.quantity
		}
	}
	if p.eventDate == nil || !dateOnly(*p.eventDate).Before(today) {
		total += p.quantity
	}

	if total <= maxActiveTickets {
		return domain.Violation{}, false
	}
	return domain.Violation{
		Rule:    domain.RuleActiveCap,
		Message: fmt.Sprintf("Rule1: active tickets including new=%d > %d", total, maxActiveTickets),
	}, true
}

// checkWindowCap enforces Rule 2: no 6-calendar-month window, anchored at
// any sale date in the merged history-plus-prospective sequence, may contain
// more than maxWindowTickets tickets. A historical row with no sold date
// falls back to its ingestion timestamp, then to the reference time; a
// prospective order with no sold date is treated as sold now.
//
// Month arithmetic uses time.Time.AddDate, which normalizes overflowing
// month-end anchors (Aug 31 + 6 months lands in early March). The choice is
// consistent across every window.
func checkWindowCap(rows []row, p prospective, now time.Time) (domain.Violation, bool) {
	type sale struct {
		at       time.Time
		quantity int
	}

	sales := make([]sale, 0, len(rows)+1)
	for _, r := range rows {
		at := now
		switch {
		case r.soldDate != nil:
			at = *r.soldDate
		case !r.ingestedAt.IsZero():
			at = r.ingestedAt
		}
		sales = append(sales, sale{at: at, quantity: r.quantity})
	}

	at := now
	if p.soldDate != nil {
		at = *p.soldDate
	}
	sales = append(sales, sale{at: at, quantity: p.quantity})

	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].at.Before(sales[j].at)
	})

	// Every sale anchors a window [t, t+6 months). Stop at the first
	// violating window; later anchors cannot change the decision.
	for i := range sales {
		end := sales[i].at.AddDate(0, windowMonths, 0)
		total := 0
		for k := i; k < len(sales) && sales[k].at.Before(end); k++ {
			total += sales[k].quantity
		}
		if total > maxWindowTickets {
			return domain.Violation{
				Rule:    domain.RuleWindowCap,
				Message: fmt.Sprintf("Rule2: >%d tickets within a %d-month window", maxWindowTickets, windowMonths),
			}, true
		}
	}
	return domain.Violation{}, false
}

// checkSplitDates enforces Rule 3: every (event, theater) pair in the
// buyer's history, plus the prospective purchase when event, theater, and
// event date are all present, must resolve to at most one distinct calendar
// date. Rows with a blank event or theater never form a group. Groups are
// visited in first-seen order so the reported group is deterministic; only
// the first offending group is reported.
func checkSplitDates(rows []row, p prospective) (domain.Violation, bool) {
	type group struct {
		event   string
		theater string
		dates   map[time.Time]struct{}
	}

	var order []string
	groups := make(map[string]*group)

	add := func(event, theater string, date *time.Time) {
		if event == "" || theater == "" {
			return
		}
		key := event + "\x00" + theater
		g, ok := groups[key]
		if !ok {
			g = &group{event: event, theater: theater, dates: make(map[time.Time]struct{})}
			groups[key] = g
			order = append(order, key)
		}
		if date != nil {
			g.dates[dateOnly(*date)] = struct{}{}
		}
	}

	for _, r := range rows {
		add(r.event, r.theater, r.eventDate)
	}
	if p.eventDate != nil {
		add(p.event, p.theater, p.eventDate)
	}

	for _, key := range order {
		g := groups[key]
		if len(g.dates) > 1 {
			return domain.Violation{
				Rule:    domain.RuleSplitDates,
				Message: fmt.Sprintf("Rule3: multiple event dates for event='%s' theater='%s'", g.event, g.theater),
			}, true
		}
	}
	return domain.Violation{}, false
}
