package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"enrich-engine/internal/batch"
	"enrich-engine/internal/ingest"
	"enrich-engine/internal/store"
)

const maxUploadBytes = 16 << 20

type BatchHandler struct {
	Deps Deps
}

// Upload reads a CSV/XLSX file from the multipart field "file" and starts a
// batch over its company column. With ?wait=true the response is held until
// the batch finishes.
func (h BatchHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			WriteError(w, r, http.StatusRequestEntityTooLarge, CodeFileTooLarge, "file exceeds 16 MiB")
			return
		}
		WriteError(w, r, http.StatusBadRequest, CodeInvalidForm, "expected multipart/form-data: "+err.Error())
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeNoFile, "No file provided")
		return
	}
	defer file.Close()
	if strings.TrimSpace(hdr.Filename) == "" {
		WriteError(w, r, http.StatusBadRequest, CodeNoFile, "No file selected")
		return
	}

	tbl, err := ingest.Read(hdr.Filename, file)
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		WriteErr(w, r, CodeInternal, err)
		return
	case err != nil:
		WriteError(w, r, http.StatusBadRequest, CodeInvalidFile, "Error reading file: "+err.Error())
		return
	}

	col, colName, err := tbl.DetectCompanyColumn()
	if err != nil {
		WriteErr(w, r, CodeInternal, err)
		return
	}

	limit := h.Deps.config().Enrich.MaxCompanies
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, CodeInvalidLimit, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	st, err := h.Deps.Batches.Start(r.Context(), batch.Request{
		Filename:      hdr.Filename,
		Table:         tbl,
		Column:        col,
		CompanyColumn: colName,
		Limit:         limit,
		RequestID:     RequestIDFrom(r.Context()),
	})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "start_failed", err.Error())
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); !wait {
		WriteJSON(w, http.StatusAccepted, UploadAccepted{
			BatchID:           st.ID,
			State:             st.State,
			TotalCompanies:    st.Total,
			StatusURL:         "/batches/" + st.ID,
			DownloadURL:       "/download/" + st.ID,
			CompanyColumnUsed: colName,
		})
		return
	}

	final, err := h.Deps.Batches.Wait(r.Context(), st.ID)
	if err != nil {
		// client went away; the batch keeps running
		return
	}
	if final.State != batch.StateDone {
		WriteError(w, r, http.StatusInternalServerError, "batch_"+final.State, "Server error: "+final.LastError)
		return
	}
	WriteJSON(w, http.StatusOK, UploadSummary{
		Success:           true,
		BatchID:           final.ID,
		TotalCompanies:    final.Processed,
		EmailsFound:       final.EmailsFound,
		SuccessRate:       final.SuccessRate,
		DownloadURL:       "/download/" + final.ID,
		CompanyColumnUsed: colName,
	})
}

func (h BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"active": h.Deps.Batches.Active()}
	if h.Deps.Store != nil {
		stored, err := store.ListBatches(r.Context(), h.Deps.Store.Pool, 200)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "list_failed", err.Error())
			return
		}
		if stored == nil {
			stored = []store.Batch{}
		}
		resp["stored"] = stored
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h BatchHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/batches/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidID, "invalid batch id")
		return
	}
	st, err := h.Deps.Batches.Status(r.Context(), id)
	if err != nil {
		WriteErr(w, r, CodeInternal, err)
		return
	}
	WriteJSON(w, http.StatusOK, st)
}

func (h BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/batches/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidID, "invalid batch id")
		return
	}
	if err := h.Deps.Batches.Delete(r.Context(), id); err != nil {
		WriteErr(w, r, CodeInternal, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (h BatchHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/download/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidID, "invalid batch id")
		return
	}
	b, err := h.Deps.Batches.Download(r.Context(), id)
	if err != nil {
		WriteErr(w, r, CodeInternal, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="email_results_`+b.ID+`.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.CSV)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.CSV)
}
