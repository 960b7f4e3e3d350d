package http

import (
	"context"
	"net/http"
)

// FacetsProvider lists the distinct events and theaters in stored history.
type FacetsProvider interface {
	Facets(ctx context.Context) (events, theaters []string, err error)
}

// HandleFacets returns an HTTP handler exposing picker values for clients
// assembling a prospective purchase.
func HandleFacets(svc FacetsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		events, theaters, err := svc.Facets(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		if events == nil {
			events = []string{}
		}
		if theaters == nil {
			theaters = []string{}
		}

		writeJSON(w, http.StatusOK, facetsResponse{Events: events, Theaters: theaters})
	}
}

type facetsResponse struct {
	Events   []string `json:"events"`
	Theaters []string `json:"theaters"`
}
