package availability

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestCheck_EmptyHistory(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 15)
	got := Check(Input{
		Email:       "buyer@example.com",
		Orders:      nil,
		Prospective: domain.Prospective{Quantity: 1},
		Now:         now,
	})

	if !got.Available {
		t.Fatalf("expected available, got violations %v", got.Violations)
	}
	if len(got.Violations) != 0 {
		t.Fatalf("expected no violations, got %v", got.Violations)
	}
}

func TestCheck_ActiveCap(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 15)
	tomorrow := date(2025, time.June, 16)
	yesterday := date(2025, time.June, 14)

	t.Run("exceeding cap with dateless prospective", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 8, EventDate: datePtr(tomorrow), SoldDate: datePtr(yesterday)},
			},
			Prospective: domain.Prospective{Quantity: 1},
			Now:         now,
		})

		if got.Available {
			t.Fatalf("expected unavailable")
		}
		if len(got.Violations) != 1 {
			t.Fatalf("expected exactly one violation, got %v", got.Violations)
		}
		v := got.Violations[0]
		if v.Rule != domain.RuleActiveCap {
			t.Fatalf("expected %s, got %s", domain.RuleActiveCap, v.Rule)
		}
		if !strings.Contains(v.Message, "active tickets including new=9") {
			t.Fatalf("unexpected message %q", v.Message)
		}
	})

	t.Run("exactly at cap passes", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 7, EventDate: datePtr(tomorrow), SoldDate: datePtr(yesterday)},
			},
			Prospective: domain.Prospective{Quantity: 1},
			Now:         now,
		})
		if !got.Available {
			t.Fatalf("expected available at cap boundary, got %v", got.Violations)
		}
	})

	t.Run("past events do not count", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 8, EventDate: datePtr(yesterday), SoldDate: datePtr(yesterday)},
			},
			Prospective: domain.Prospective{Quantity: 1},
			Now:         now,
		})
		if !got.Available {
			t.Fatalf("expected available, got %v", got.Violations)
		}
	})

	t.Run("event today still counts as active", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 8, EventDate: datePtr(now.Add(3 * time.Hour)), SoldDate: datePtr(yesterday)},
			},
			Prospective: domain.Prospective{Quantity: 1},
			Now:         now,
		})
		if got.Available {
			t.Fatalf("expected unavailable, same-day events are active")
		}
	})

	t.Run("missing historical event date counts as active", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 9, SoldDate: datePtr(yesterday)},
			},
			// Prospective event already passed, so only the dateless
			// historical row can trip the cap.
			Prospective: domain.Prospective{Quantity: 1, EventDate: datePtr(yesterday)},
			Now:         now,
		})
		if got.Available {
			t.Fatalf("expected unavailable when dateless rows count against cap")
		}
		if got.Violations[0].Rule != domain.RuleActiveCap {
			t.Fatalf("expected %s, got %s", domain.RuleActiveCap, got.Violations[0].Rule)
		}
	})
}

func TestCheck_WindowCap(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 15)
	past := date(2024, time.January, 1)

	// History with past event dates so Rule 1 stays quiet.
	ordersSpaced := func(n, quantity int, start time.Time, gap time.Duration) []domain.Order {
		orders := make([]domain.Order, 0, n)
		for i := 0; i < n; i++ {
			sold := start.Add(time.Duration(i) * gap)
			orders = append(orders, domain.Order{
				Email:     "buyer@example.com",
				Quantity:  quantity,
				EventDate: datePtr(past),
				SoldDate:  datePtr(sold),
			})
		}
		return orders
	}

	t.Run("13 tickets inside one window violates", func(t *testing.T) {
		start := now.AddDate(0, 0, -110)
		got := Check(Input{
			Email:       "buyer@example.com",
			Orders:      ordersSpaced(11, 1, start, 10*24*time.Hour),
			Prospective: domain.Prospective{Quantity: 2, EventDate: datePtr(past)},
			Now:         now,
		})
		if got.Available {
			t.Fatalf("expected unavailable")
		}
		if len(got.Violations) != 1 || got.Violations[0].Rule != domain.RuleWindowCap {
			t.Fatalf("expected a single %s violation, got %v", domain.RuleWindowCap, got.Violations)
		}
	})

	t.Run("exactly 12 in window passes", func(t *testing.T) {
		start := now.AddDate(0, 0, -110)
		got := Check(Input{
			Email:       "buyer@example.com",
			Orders:      ordersSpaced(11, 1, start, 10*24*time.Hour),
			Prospective: domain.Prospective{Quantity: 1, EventDate: datePtr(past)},
			Now:         now,
		})
		if !got.Available {
			t.Fatalf("expected available at window boundary, got %v", got.Violations)
		}
	})

	t.Run("purchases further apart than the window pass", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 10, EventDate: datePtr(past), SoldDate: datePtr(now.AddDate(0, -7, 0))},
				{Email: "buyer@example.com", Quantity: 10, EventDate: datePtr(past), SoldDate: datePtr(now)},
			},
			Prospective: domain.Prospective{Quantity: 1, EventDate: datePtr(past), SoldDate: datePtr(now.AddDate(0, 7, 0))},
			Now:         now,
		})
		if !got.Available {
			t.Fatalf("expected available, got %v", got.Violations)
		}
	})

	t.Run("window is inclusive of start and exclusive of end", func(t *testing.T) {
		anchor := date(2025, time.January, 10)
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 12, EventDate: datePtr(past), SoldDate: datePtr(anchor)},
			},
			// Sold exactly at anchor + 6 months: outside the window.
			Prospective: domain.Prospective{Quantity: 12, EventDate: datePtr(past), SoldDate: datePtr(anchor.AddDate(0, 6, 0))},
			Now:         now,
		})
		if !got.Available {
			t.Fatalf("expected available when second sale starts its own window, got %v", got.Violations)
		}
	})

	t.Run("missing sold date falls back to ingestion time", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 12, EventDate: datePtr(past), IngestedAt: now.AddDate(0, -1, 0)},
			},
			Prospective: domain.Prospective{Quantity: 1, EventDate: datePtr(past)},
			Now:         now,
		})
		if got.Available {
			t.Fatalf("expected unavailable, ingestion-time fallback puts 13 in one window")
		}
	})

	t.Run("increasing a quantity never lifts a violation", func(t *testing.T) {
		start := now.AddDate(0, 0, -110)
		for q := 2; q <= 6; q++ {
			got := Check(Input{
				Email:       "buyer@example.com",
				Orders:      ordersSpaced(11, 1, start, 10*24*time.Hour),
				Prospective: domain.Prospective{Quantity: q, EventDate: datePtr(past)},
				Now:         now,
			})
			if got.Available {
				t.Fatalf("expected unavailable at prospective quantity %d", q)
			}
		}
	})
}

func TestCheck_SplitDates(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 15)
	d1 := date(2025, time.July, 1)
	d2 := date(2025, time.July, 2)

	t.Run("prospective on a second date violates", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 1, Event: "ConcertX", Theater: "MainHall", EventDate: datePtr(d1), SoldDate: datePtr(now)},
			},
			Prospective: domain.Prospective{Quantity: 1, Event: "ConcertX", Theater: "MainHall", EventDate: datePtr(d2)},
			Now:         now,
		})
		if got.Available {
			t.Fatalf("expected unavailable")
		}
		if len(got.Violations) != 1 || got.Violations[0].Rule != domain.RuleSplitDates {
			t.Fatalf("expected a single %s violation, got %v", domain.RuleSplitDates, got.Violations)
		}
		msg := got.Violations[0].Message
		if !strings.Contains(msg, "event='ConcertX'") || !strings.Contains(msg, "theater='MainHall'") {
			t.Fatalf("unexpected message %q", msg)
		}
	})

	t.Run("same date at a different hour passes", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 1, Event: "ConcertX", Theater: "MainHall", EventDate: datePtr(d1), SoldDate: datePtr(now)},
			},
			Prospective: domain.Prospective{Quantity: 1, Event: "ConcertX", Theater: "MainHall", EventDate: datePtr(d1.Add(19 * time.Hour))},
			Now:         now,
		})
		if !got.Available {
			t.Fatalf("expected available, dates are compared calendar-normalized, got %v", got.Violations)
		}
	})

	t.Run("blank theater rows never form a group", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 1, Event: "ConcertX", Theater: "  ", EventDate: datePtr(d1), SoldDate: datePtr(now)},
				{Email: "buyer@example.com", Quantity: 1, Event: "ConcertX", Theater: "", EventDate: datePtr(d2), SoldDate: datePtr(now)},
			},
			Prospective: domain.Prospective{Quantity: 1},
			Now:         now,
		})
		if !got.Available {
			t.Fatalf("expected available, got %v", got.Violations)
		}
	})

	t.Run("prospective without event date stays out of the group", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 1, Event: "ConcertX", Theater: "MainHall", EventDate: datePtr(d1), SoldDate: datePtr(now)},
			},
			Prospective: domain.Prospective{Quantity: 1, Event: "ConcertX", Theater: "MainHall"},
			Now:         now,
		})
		if !got.Available {
			t.Fatalf("expected available, got %v", got.Violations)
		}
	})

	t.Run("first offending group is reported", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 1, Event: "ShowA", Theater: "North", EventDate: datePtr(d1), SoldDate: datePtr(now)},
				{Email: "buyer@example.com", Quantity: 1, Event: "ShowB", Theater: "South", EventDate: datePtr(d1), SoldDate: datePtr(now)},
				{Email: "buyer@example.com", Quantity: 1, Event: "ShowA", Theater: "North", EventDate: datePtr(d2), SoldDate: datePtr(now)},
				{Email: "buyer@example.com", Quantity: 1, Event: "ShowB", Theater: "South", EventDate: datePtr(d2), SoldDate: datePtr(now)},
			},
			Prospective: domain.Prospective{Quantity: 1},
			Now:         now,
		})
		if got.Available {
			t.Fatalf("expected unavailable")
		}
		if !strings.Contains(got.Violations[0].Message, "event='ShowA'") {
			t.Fatalf("expected the first-seen group to be reported, got %q", got.Violations[0].Message)
		}
	})
}

func TestCheck_ViolationsInRuleOrder(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 15)
	d1 := date(2025, time.July, 1)
	d2 := date(2025, time.July, 2)

	// One history that trips all three rules at once.
	got := Check(Input{
		Email: "buyer@example.com",
		Orders: []domain.Order{
			{Email: "buyer@example.com", Quantity: 13, Event: "ConcertX", Theater: "MainHall", EventDate: datePtr(d1), SoldDate: datePtr(now)},
		},
		Prospective: domain.Prospective{Quantity: 1, Event: "ConcertX", Theater: "MainHall", EventDate: datePtr(d2)},
		Now:         now,
	})

	if got.Available {
		t.Fatalf("expected unavailable")
	}
	want := []domain.Rule{domain.RuleActiveCap, domain.RuleWindowCap, domain.RuleSplitDates}
	if len(got.Violations) != len(want) {
		t.Fatalf("expected %d violations, got %v", len(want), got.Violations)
	}
	for i, rule := range want {
		if got.Violations[i].Rule != rule {
			t.Fatalf("expected violation %d to be %s, got %s", i, rule, got.Violations[i].Rule)
		}
	}
}

func TestCheck_EmailNormalization(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 15)
	tomorrow := date(2025, time.June, 16)

	got := Check(Input{
		Email: "buyer@example.com",
		Orders: []domain.Order{
			{Email: "  BUYER@Example.COM ", Quantity: 8, EventDate: datePtr(tomorrow), SoldDate: datePtr(now)},
			{Email: "other@example.com", Quantity: 8, EventDate: datePtr(tomorrow), SoldDate: datePtr(now)},
		},
		Prospective: domain.Prospective{Quantity: 1},
		Now:         now,
	})

	if got.Available {
		t.Fatalf("expected unavailable, case and whitespace must not split identities")
	}
	if !strings.Contains(got.Violations[0].Message, "new=9") {
		t.Fatalf("expected only the matching buyer's rows to count, got %q", got.Violations[0].Message)
	}
}

func TestCheck_Idempotent(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 15)
	in := Input{
		Email: "buyer@example.com",
		Orders: []domain.Order{
			{Email: "buyer@example.com", Quantity: 8, EventDate: datePtr(date(2025, time.June, 16)), SoldDate: datePtr(now)},
		},
		Prospective: domain.Prospective{Quantity: 1},
		Now:         now,
	}

	first := Check(in)
	second := Check(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %v then %v", first, second)
	}
}

func TestCheck_DefaultsQuantities(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 15)

	t.Run("prospective quantity defaults to one", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: 8, SoldDate: datePtr(now.AddDate(0, -1, 0))},
			},
			Prospective: domain.Prospective{},
			Now:         now,
		})
		if got.Available {
			t.Fatalf("expected unavailable, defaulted quantity must count")
		}
		if !strings.Contains(got.Violations[0].Message, "new=9") {
			t.Fatalf("unexpected message %q", got.Violations[0].Message)
		}
	})

	t.Run("negative historical quantity clamps to zero", func(t *testing.T) {
		got := Check(Input{
			Email: "buyer@example.com",
			Orders: []domain.Order{
				{Email: "buyer@example.com", Quantity: -4, SoldDate: datePtr(now)},
			},
			Prospective: domain.Prospective{Quantity: 1},
			Now:         now,
		})
		if !got.Available {
			t.Fatalf("expected available, got %v", got.Violations)
		}
	})
}
