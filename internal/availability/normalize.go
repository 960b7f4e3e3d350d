package availability

import (
	"strings"
	"time"

	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
)

// row is the typed view of one historical order after normalization. Rules
// only ever see rows, never raw orders, so defensive handling of blank and
// missing fields lives in exactly one place.
type row struct {
	quantity   int
	event      string
	theater    string
	eventDate  *time.Time
	soldDate   *time.Time
	ingestedAt time.Time
}

// prospective mirrors domain.Prospective with the same cleanups applied.
type prospective struct {
	quantity  int
	event     string
	theater   string
	eventDate *time.Time
	soldDate  *time.Time
}

// normalize filters the snapshot down to the queried buyer and produces the
// typed rows the rules consume. Email matching is case-insensitive after
// trimming. Quantities below zero clamp to zero; a prospective quantity
// below one defaults to one.
func normalize(email string, orders []domain.Order, p domain.Prospective) ([]row, prospective) {
	key := normalizeEmail(email)

	var rows []row
	for _, o := range orders {
		if normalizeEmail(o.Email) != key {
			continue
		}
		q := o.Quantity
		if q < 0 {
			q = 0
		}
		rows = append(rows, row{
			quantity:   q,
			event:      strings.TrimSpace(o.Event),
			theater:    strings.TrimSpace(o.Theater),
			eventDate:  o.EventDate,
			soldDate:   o.SoldDate,
			ingestedAt: o.IngestedAt,
		})
	}

	q := p.Quantity
	if q < 1 {
		q = 1
	}
	return rows, prospective{
		quantity:  q,
		event:     strings.TrimSpace(p.Event),
		theater:   strings.TrimSpace(p.Theater),
		eventDate: p.EventDate,
		soldDate:  p.SoldDate,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// dateOnly truncates a timestamp to its calendar date in UTC so comparisons
// ignore time-of-day components.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
