package api

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// WriteJSON writes v as a JSON response body with the given status code.
// Encoding failures after the header is written can only be logged by
// middleware; the status line has already gone out.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
