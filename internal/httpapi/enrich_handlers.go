package httpapi

import (
	"net/http"
	"strings"
)

type EnrichHandler struct {
	Deps Deps
}

// Enrich runs the pipeline for ?company= and returns the result inline.
func (h EnrichHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	company := strings.TrimSpace(r.URL.Query().Get("company"))
	if company == "" {
		WriteError(w, r, http.StatusBadRequest, CodeMissingCompany, "query parameter company is required")
		return
	}
	res := h.Deps.Enricher().Enrich(r.Context(), company)
	WriteJSON(w, http.StatusOK, res)
}
