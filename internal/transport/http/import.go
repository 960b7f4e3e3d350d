package http

import (
	"context"
	"io"
	"net/http"

	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
	"github.com/Barry-Eisenberg/TicketFusion/internal/metrics"
)

// OrderImporter is the minimal interface needed to import an order export.
type OrderImporter interface {
	ImportOrdersCSV(ctx context.Context, r io.Reader) (int, error)
}

// HandleImportOrders returns an HTTP handler that ingests a CSV order
// export posted as the request body.
func HandleImportOrders(svc OrderImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		imported, err := svc.ImportOrdersCSV(r.Context(), r.Body)
		if err != nil {
			switch err {
			case domain.ErrNoHeaderRow:
				writeError(w, http.StatusBadRequest, codeNoHeaderRow, err.Error())
			case domain.ErrEmptyImport:
				writeError(w, http.StatusBadRequest, codeEmptyImport, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		metrics.ImportedRowsTotal.Add(float64(imported))

		writeJSON(w, http.StatusOK, importResponse{Imported: imported})
	}
}

type importResponse struct {
	Imported int `json:"imported"`
}
