package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router registers every API route on a new mux.Router.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/images", h.ListImages).Methods(http.MethodGet).Name("list_images")
	api.HandleFunc("/entries", h.ListEntries).Methods(http.MethodGet).Name("list_entries")
	api.HandleFunc("/path", h.FullPath).Methods(http.MethodGet).Name("full_path")
	api.HandleFunc("/rotate", h.Rotate).Methods(http.MethodPost).Name("rotate")
	api.HandleFunc("/thumbnail", h.GetThumbnail).Methods(http.MethodGet).Name("thumbnail")
	api.HandleFunc("/thumbnails", h.BatchThumbnails).Methods(http.MethodPost).Name("thumbnails_batch")
	api.HandleFunc("/metadata", h.GetMetadata).Methods(http.MethodGet).Name("metadata")
	api.HandleFunc("/upscale", h.Upscale).Methods(http.MethodPost).Name("upscale")
	api.HandleFunc("/rename", h.Rename).Methods(http.MethodPost).Name("rename")
	api.HandleFunc("/launch", h.GetLaunch).Methods(http.MethodGet).Name("launch")
	api.HandleFunc("/launch", h.SetLaunch).Methods(http.MethodPost).Name("launch_forward")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "no such endpoint", "not_found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "method not allowed", "invalid_parameter", http.StatusMethodNotAllowed)
	})

	return r
}
