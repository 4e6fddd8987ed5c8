package httpapi

import "net/http"

// NewMux registers every route on a fresh mux.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Batches
	bh := BatchHandler{Deps: d}
	mux.HandleFunc("/upload", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: bh.Upload,
	}))
	mux.HandleFunc("/batches", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: bh.List,
	}))
	mux.HandleFunc("/batches/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    bh.Status, // expects /batches/{id}
		http.MethodDelete: bh.Delete,
	}))
	mux.HandleFunc("/download/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: bh.Download,
	}))

	eh := EnrichHandler{Deps: d}
	mux.HandleFunc("/enrich", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.Enrich,
	}))

	// Config
	ch := ConfigHandler{Deps: d}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Storage maintenance
	dh := DBHandler{Deps: d}
	mux.HandleFunc("/cache/purge", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.PurgeCache,
	}))
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Checkpoint,
	}))

	// SSE events
	sh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.ServeSSE,
	}))

	return mux
}

// Handler is NewMux wrapped in the standard middleware chain.
func Handler(d Deps) http.Handler {
	return Chain(NewMux(d), RequestID, Recover(d.Logger), AccessLog(d.Logger), Cors)
}
