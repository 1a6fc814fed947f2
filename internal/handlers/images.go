package handlers

import (
	"net/http"

	"image-manager/internal/processor"
	"image-manager/internal/rename"
)

// ListImages returns the sorted image filenames of ?dir=.
func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	dir, err := queryRequired(r, "dir")
	if err != nil {
		respondError(w, r, err)
		return
	}
	names, err := h.images.ListImages(dir)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, names)
}

// ListEntries returns every entry name of ?dir=, sorted.
func (h *Handlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	dir, err := queryRequired(r, "dir")
	if err != nil {
		respondError(w, r, err)
		return
	}
	names, err := h.images.ListEntries(dir)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, names)
}

// FullPath joins ?dir= and ?name=.
func (h *Handlers) FullPath(w http.ResponseWriter, r *http.Request) {
	dir, err := queryRequired(r, "dir")
	if err != nil {
		respondError(w, r, err)
		return
	}
	name, err := queryRequired(r, "name")
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, map[string]string{"path": h.images.FullPath(dir, name)})
}

// RotateRequest is the body of POST /api/rotate.
type RotateRequest struct {
	Dir     string `json:"dir"`
	Name    string `json:"name"`
	Degrees int    `json:"degrees"`
}

// Rotate turns an image in place.
func (h *Handlers) Rotate(w http.ResponseWriter, r *http.Request) {
	var req RotateRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := requireFields(map[string]string{"dir": req.Dir, "name": req.Name}); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.images.Rotate(req.Dir, req.Name, req.Degrees); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, "ok")
}

// ThumbnailResponse is the body of GET /api/thumbnail.
type ThumbnailResponse struct {
	Filename  string `json:"filename"`
	Thumbnail string `json:"thumbnail"`
}

// GetThumbnail returns one base64 JPEG thumbnail for ?dir=&name=&max_edge=.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	dir, err := queryRequired(r, "dir")
	if err != nil {
		respondError(w, r, err)
		return
	}
	name, err := queryRequired(r, "name")
	if err != nil {
		respondError(w, r, err)
		return
	}
	maxEdge, err := queryInt(r, "max_edge")
	if err != nil {
		respondError(w, r, err)
		return
	}

	thumb, err := h.images.GenerateThumbnail(dir, name, maxEdge)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, ThumbnailResponse{Filename: name, Thumbnail: thumb})
}

// BatchThumbnailsRequest is the body of POST /api/thumbnails.
type BatchThumbnailsRequest struct {
	Dir     string   `json:"dir"`
	Names   []string `json:"names"`
	MaxEdge int      `json:"max_edge"`
	// Partial selects one outcome per name instead of failing the batch.
	Partial bool `json:"partial"`
}

// BatchThumbnails generates thumbnails for many files in parallel. The
// response is a []processor.ThumbnailData, or a []processor.ThumbnailOutcome
// when partial is set.
func (h *Handlers) BatchThumbnails(w http.ResponseWriter, r *http.Request) {
	var req BatchThumbnailsRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := requireFields(map[string]string{"dir": req.Dir}); err != nil {
		respondError(w, r, err)
		return
	}

	if req.Partial {
		outcomes, err := h.images.GenerateThumbnailsPartial(req.Dir, req.Names, req.MaxEdge)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, outcomes)
		return
	}

	results, err := h.images.GenerateThumbnailsBatch(req.Dir, req.Names, req.MaxEdge)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if results == nil {
		results = []processor.ThumbnailData{}
	}
	respondJSON(w, results)
}

// GetMetadata returns the metadata map for ?dir=&name=.
func (h *Handlers) GetMetadata(w http.ResponseWriter, r *http.Request) {
	dir, err := queryRequired(r, "dir")
	if err != nil {
		respondError(w, r, err)
		return
	}
	name, err := queryRequired(r, "name")
	if err != nil {
		respondError(w, r, err)
		return
	}
	meta, err := h.images.GetMetadata(dir, name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, meta)
}

// UpscaleRequest is the body of POST /api/upscale.
type UpscaleRequest struct {
	Dir    string `json:"dir"`
	Name   string `json:"name"`
	Factor int    `json:"factor"`
}

// Upscale writes an enlarged copy and returns its filename.
func (h *Handlers) Upscale(w http.ResponseWriter, r *http.Request) {
	var req UpscaleRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := requireFields(map[string]string{"dir": req.Dir, "name": req.Name}); err != nil {
		respondError(w, r, err)
		return
	}
	newName, err := h.images.Upscale(req.Dir, req.Name, req.Factor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, map[string]string{"filename": newName})
}

// RenameRequest is the body of POST /api/rename.
type RenameRequest struct {
	Dir      string           `json:"dir"`
	Mappings []rename.Mapping `json:"mappings"`
}

// Rename applies a batch of renames and returns one outcome per mapping.
func (h *Handlers) Rename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := requireFields(map[string]string{"dir": req.Dir}); err != nil {
		respondError(w, r, err)
		return
	}
	outcomes, err := h.images.RenameBatch(req.Dir, req.Mappings)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, outcomes)
}
