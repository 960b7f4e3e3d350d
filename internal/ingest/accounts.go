package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
)

var emailHeaderAliases = []string{"email", "e-mail", "account email"}

// ReadAccounts parses an accounts CSV and returns the buyer emails, trimmed,
// lowercased, and deduplicated in first-seen order. The email column is
// found by header name first, then by sniffing values for an @ sign, then
// falls back to the first column.
func ReadAccounts(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read accounts csv: %w", err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, domain.ErrNoEmailColumn
	}

	header := records[0]
	col := -1
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, alias := range emailHeaderAliases {
			if h == alias {
				col = i
				break
			}
		}
		if col != -1 {
			break
		}
	}
	if col == -1 {
		col = sniffEmailColumn(records[1:])
	}
	if col == -1 {
		// No named column and no values that look like addresses: keep the
		// original tool's behavior and take the first column.
		col = 0
	}

	seen := make(map[string]struct{})
	var emails []string
	for _, record := range records[1:] {
		email := strings.ToLower(strings.TrimSpace(cell(record, col)))
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}
	return emails, nil
}

// sniffEmailColumn samples up to 20 rows per column looking for @ signs.
func sniffEmailColumn(rows [][]string) int {
	if len(rows) == 0 {
		return -1
	}
	width := len(rows[0])
	for col := 0; col < width; col++ {
		sampled := 0
		for _, record := range rows {
			if sampled >= 20 {
				break
			}
			v := strings.TrimSpace(cell(record, col))
			if v == "" {
				continue
			}
			sampled++
			if strings.Contains(v, "@") {
				return col
			}
		}
	}
	return -1
}
