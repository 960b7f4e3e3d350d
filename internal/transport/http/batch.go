package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Barry-Eisenberg/TicketFusion/internal/app"
	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
	"github.com/Barry-Eisenberg/TicketFusion/internal/metrics"
)

// BatchChecker is the minimal interface needed to check a list of accounts.
type BatchChecker interface {
	CheckAccounts(ctx context.Context, in app.CheckAccountsInput) (app.BatchResult, error)
}

// HandleCheckBatch returns an HTTP handler that evaluates many accounts
// against one prospective purchase.
func HandleCheckBatch(svc BatchChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req batchRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		prospective, err := req.prospectiveRequest.toProspective()
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, err.Error())
			return
		}

		result, err := svc.CheckAccounts(r.Context(), app.CheckAccountsInput{
			Emails:      req.Emails,
			Prospective: prospective,
		})
		if err != nil {
			switch err {
			case domain.ErrEmailRequired:
				writeError(w, http.StatusBadRequest, codeEmailRequired, err.Error())
			case domain.ErrInvalidQuantity:
				writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		metrics.ChecksTotal.Add(float64(result.Total))
		metrics.ChecksUnavailableTotal.Add(float64(result.Unavailable))

		resp := batchResponse{
			Summary: batchSummary{
				Total:       result.Total,
				Available:   result.Available,
				Unavailable: result.Unavailable,
			},
		}
		for _, res := range result.Results {
			resp.Results = append(resp.Results, checkResponse{
				Email:      res.Email,
				Available:  res.Decision.Available,
				Violations: violationsPayload(res.Decision),
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type batchRequest struct {
	Emails []string `json:"emails"`
	prospectiveRequest
}

type batchSummary struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
}

type batchResponse struct {
	Results []checkResponse `json:"results"`
	Summary batchSummary    `json:"summary"`
}
