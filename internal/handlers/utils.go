package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"image-manager/internal/imgerr"
	"image-manager/internal/logging"
)

// maxBodyBytes bounds JSON request bodies. Rename and batch requests carry
// filename lists only.
const maxBodyBytes = 4 << 20

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// respondJSON writes v with status 200.
func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, v)
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message, kind string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, ErrorResponse{Error: message, Kind: kind})
}

// respondError maps err onto its status code and error kind.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := imgerr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.Error("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		logging.Debug("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSONError(w, err.Error(), imgerr.Kind(err), status)
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": status})
}

// decodeBody reads a JSON request body into v. Unknown fields are rejected
// so typos in parameter names surface as errors.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return imgerr.Invalid("request body exceeds %d bytes", maxErr.Limit)
		}
		return imgerr.Invalid("malformed request body: %v", err)
	}
	return nil
}

// queryRequired returns the non-empty query parameter key.
func queryRequired(r *http.Request, key string) (string, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return "", imgerr.Invalid("missing query parameter %q", key)
	}
	return v, nil
}

// queryInt returns the integer query parameter key.
func queryInt(r *http.Request, key string) (int, error) {
	raw, err := queryRequired(r, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, imgerr.Invalid("query parameter %q must be an integer, got %q", key, raw)
	}
	return v, nil
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return imgerr.Invalid("missing field %q", name)
		}
	}
	return nil
}
