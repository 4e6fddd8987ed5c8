package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"enrich-engine/internal/batch"
	"enrich-engine/internal/ingest"
)

// Error codes returned in APIError.Error.Code.
const (
	CodeInternal          = "internal_error"
	CodeMethodNotAllowed  = "method_not_allowed"
	CodeForbidden         = "forbidden"
	CodeInvalidJSON       = "invalid_json"
	CodeInvalidForm       = "invalid_form"
	CodeInvalidID         = "invalid_id"
	CodeInvalidLimit      = "invalid_limit"
	CodeMissingCompany    = "missing_company"
	CodeNoFile            = "no_file"
	CodeFileTooLarge      = "file_too_large"
	CodeUnsupportedFormat = "unsupported_format"
	CodeInvalidFile       = "invalid_file"
	CodeNoCompanyColumn   = "no_company_column"
	CodeNotFound          = "not_found"
	CodeBatchRunning      = "batch_running"
	CodeStreamUnsupported = "stream_unsupported"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// WriteErr maps the engine's sentinel errors to a status and code. Anything
// unknown is a 500 with fallbackCode.
func WriteErr(w http.ResponseWriter, r *http.Request, fallbackCode string, err error) {
	switch {
	case errors.Is(err, batch.ErrBatchNotFound):
		WriteError(w, r, http.StatusNotFound, CodeNotFound, "File not found")
	case errors.Is(err, batch.ErrBatchRunning):
		WriteError(w, r, http.StatusConflict, CodeBatchRunning, err.Error())
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		WriteError(w, r, http.StatusBadRequest, CodeUnsupportedFormat, "Unsupported format")
	case errors.Is(err, ingest.ErrNoCompanyColumn):
		WriteError(w, r, http.StatusBadRequest, CodeNoCompanyColumn, err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}
