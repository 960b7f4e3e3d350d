// Package report serializes batch check results for export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Barry-Eisenberg/TicketFusion/internal/app"
)

// WriteCSV writes one row per checked account with its decision and the
// violation messages joined into a single cell. Column order is stable so
// downstream spreadsheets can rely on it.
func WriteCSV(w io.Writer, results []app.AccountResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"email", "available", "reasons"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, res := range results {
		reasons := make([]string, 0, len(res.Decision.Violations))
		for _, v := range res.Decision.Violations {
			reasons = append(reasons, v.Message)
		}
		record := []string{
			res.Email,
			strconv.FormatBool(res.Decision.Available),
			strings.Join(reasons, "; "),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
