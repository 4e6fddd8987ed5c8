package httpapi

import (
	"net"
	"net/http"

	"enrich-engine/internal/events"
	"enrich-engine/internal/store"
)

type DBHandler struct {
	Deps Deps
}

func localOnly(w http.ResponseWriter, r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "127.0.0.1" && host != "::1" && host != "localhost" {
		WriteError(w, r, http.StatusForbidden, CodeForbidden, "forbidden")
		return false
	}
	return true
}

func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if !localOnly(w, r) {
		return
	}
	if err := h.Deps.Store.Checkpoint(r.Context()); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "checkpoint_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PurgeCache drops every cached company website.
func (h DBHandler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	if !localOnly(w, r) {
		return
	}
	n, err := store.PurgeCompanyWebsites(r.Context(), h.Deps.Store.Pool)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "purge_failed", err.Error())
		return
	}
	if h.Deps.Hub != nil {
		h.Deps.Hub.Publish(events.MakeEvent(RequestIDFrom(r.Context()), events.TypeCachePurged, 1, map[string]any{"deleted": n}))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": n})
}
