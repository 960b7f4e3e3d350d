// Package ingest parses tabular order and account exports into domain
// records. Parsing is best-effort: malformed quantities and dates degrade
// to documented defaults instead of failing the import.
package ingest

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
)

// Header aliases seen across order exports. Matching is case-insensitive
// after trimming.
var orderHeaderAliases = map[string][]string{
	"email":      {"email", "e-mail", "account email"},
	"quantity":   {"cnt", "qty", "quantity", "count", "tickets"},
	"event":      {"event", "event name", "show"},
	"theater":    {"theater", "theatre", "venue"},
	"event_date": {"event date", "event_date", "eventdate"},
	"sold_date":  {"sold date", "sold_date", "sold", "sale date"},
}

// Keywords that mark a row as the likely header when exports carry title or
// banner rows above the real table.
var headerKeywords = []string{
	"order", "sold", "event", "date", "revenue", "email", "confirm",
	"site", "purch", "trans", "ticket", "venue", "section", "row", "cost",
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
}

// ReadOrders parses a CSV order export. The header row is located by
// heuristic so exports with leading banner rows still parse; columns are
// matched against known aliases. Rows that are entirely blank are skipped;
// everything else is kept, the availability engine filters by buyer itself.
func ReadOrders(r io.Reader, ingestedAt time.Time) ([]domain.Order, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read order csv: %w", err)
	}

	headerIdx := detectHeaderRow(records)
	if headerIdx < 0 {
		return nil, domain.ErrNoHeaderRow
	}

	cols := mapOrderColumns(records[headerIdx])

	var orders []domain.Order
	for _, record := range records[headerIdx+1:] {
		if isBlankRow(record) {
			continue
		}
		order := domain.Order{
			Email:      strings.ToLower(strings.TrimSpace(cell(record, cols["email"]))),
			Quantity:   parseQuantity(cell(record, cols["quantity"])),
			Event:      strings.TrimSpace(cell(record, cols["event"])),
			Theater:    strings.TrimSpace(cell(record, cols["theater"])),
			EventDate:  parseDate(cell(record, cols["event_date"])),
			SoldDate:   parseDate(cell(record, cols["sold_date"])),
			IngestedAt: ingestedAt,
		}
		order.RowHash = rowHash(order)
		orders = append(orders, order)
	}
	return orders, nil
}

// detectHeaderRow returns the index of the first row that looks like a
// header: at least two cells containing a known keyword, or at least six
// non-empty cells. Falls back to the first non-empty row, and reports -1
// for an empty file.
func detectHeaderRow(records [][]string) int {
	for i, record := range records {
		keywordMatches := 0
		nonEmpty := 0
		for _, c := range record {
			c = strings.ToLower(strings.TrimSpace(c))
			if c == "" {
				continue
			}
			nonEmpty++
			for _, kw := range headerKeywords {
				if strings.Contains(c, kw) {
					keywordMatches++
					break
				}
			}
		}
		if keywordMatches >= 2 || nonEmpty >= 6 {
			return i
		}
	}
	for i, record := range records {
		if !isBlankRow(record) {
			return i
		}
	}
	return -1
}

func mapOrderColumns(header []string) map[string]int {
	cols := make(map[string]int, len(orderHeaderAliases))
	for field := range orderHeaderAliases {
		cols[field] = -1
	}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for field, aliases := range orderHeaderAliases {
			if cols[field] != -1 {
				continue
			}
			for _, alias := range aliases {
				if h == alias {
					cols[field] = i
					break
				}
			}
		}
	}
	return cols
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func isBlankRow(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseQuantity coerces a count cell to an integer. Missing or unparseable
// values default to 1, negatives clamp to 0.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 1
		}
		n = int(f)
	}
	if n < 0 {
		return 0
	}
	return n
}

// parseDate tries the known export layouts and reports nil for anything it
// cannot parse; a nil date is the explicit "missing" marker downstream.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// rowHash derives a stable identity for deduplicating re-imports of the
// same export row.
func rowHash(o domain.Order) string {
	parts := []string{
		o.Email,
		strconv.Itoa(o.Quantity),
		o.Event,
		o.Theater,
		formatDate(o.EventDate),
		formatDate(o.SoldDate),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
