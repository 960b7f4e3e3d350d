package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Barry-Eisenberg/TicketFusion/internal/app"
	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
	"github.com/Barry-Eisenberg/TicketFusion/internal/metrics"
)

// AccountChecker is the minimal interface needed to check one account.
type AccountChecker interface {
	CheckAccount(ctx context.Context, in app.CheckAccountInput) (domain.Decision, error)
}

// HandleCheck returns an HTTP handler for single-account availability checks.
func HandleCheck(svc AccountChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req checkRequest
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

		start := time.Now()
		decision, err := svc.CheckAccount(r.Context(), app.CheckAccountInput{
			Email:       req.Email,
			Prospective: prospective,
		})
		metrics.CheckDuration.Observe(time.Since(start).Seconds())
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

		metrics.ChecksTotal.Inc()
		if !decision.Available {
			metrics.ChecksUnavailableTotal.Inc()
		}

		writeJSON(w, http.StatusOK, checkResponse{
			Email:      req.Email,
			Available:  decision.Available,
			Violations: violationsPayload(decision),
		})
	}
}

type prospectiveRequest struct {
	Quantity  int    `json:"quantity"`
	Event     string `json:"event"`
	Theater   string `json:"theater"`
	EventDate string `json:"event_date"`
	SoldDate  string `json:"sold_date"`
}

func (r prospectiveRequest) toProspective() (domain.Prospective, error) {
	eventDate, err := parseDateField("event_date", r.EventDate)
	if err != nil {
		return domain.Prospective{}, err
	}
	soldDate, err := parseDateField("sold_date", r.SoldDate)
	if err != nil {
		return domain.Prospective{}, err
	}
	return domain.Prospective{
		Quantity:  r.Quantity,
		Event:     r.Event,
		Theater:   r.Theater,
		EventDate: eventDate,
		SoldDate:  soldDate,
	}, nil
}

var requestDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDateField(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range requestDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s: %q", name, value)
}

type checkRequest struct {
	Email string `json:"email"`
	prospectiveRequest
}

type checkResponse struct {
	Email      string             `json:"email"`
	Available  bool               `json:"available"`
	Violations []domain.Violation `json:"violations"`
}

// violationsPayload keeps the JSON array non-null for passing decisions.
func violationsPayload(d domain.Decision) []domain.Violation {
	if d.Violations == nil {
		return []domain.Violation{}
	}
	return d.Violations
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
