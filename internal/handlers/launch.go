package handlers

import (
	"net/http"
)

// GetLaunch returns the pending open-file request, or 204 when there is
// none.
func (h *Handlers) GetLaunch(w http.ResponseWriter, _ *http.Request) {
	launch, ok := h.launch.Get()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, launch)
}

// LaunchRequest is the body of POST /api/launch.
type LaunchRequest struct {
	Path string `json:"path"`
}

// SetLaunch records an open-file request forwarded by a second instance.
func (h *Handlers) SetLaunch(w http.ResponseWriter, r *http.Request) {
	var req LaunchRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := requireFields(map[string]string{"path": req.Path}); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, h.launch.Set(req.Path))
}
