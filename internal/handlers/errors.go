package handlers

import (
	"errors"
	"net/http"

	"github.com/example/filmora/internal/catalog"
	"github.com/example/filmora/internal/omdb"
	"github.com/example/filmora/internal/platform/api"
	"github.com/example/filmora/internal/prefs"
	"github.com/example/filmora/internal/validation"
)

// Errors translates domain errors into the wire taxonomy. In development
// the underlying error string rides along on 500 payloads; production
// clients get a generic message only.
type Errors struct {
	Dev bool
}

func (e *Errors) Write(w http.ResponseWriter, requestID string, err error) {
	var fields validation.FieldErrors
	var invalid *catalog.InvalidImportError

	switch {
	case errors.As(err, &fields):
		api.BadRequest(w, "VALIDATION_FAILED", "Request validation failed", requestID, fields.Details())
	case errors.Is(err, catalog.ErrBadCursor):
		api.BadRequest(w, "VALIDATION_FAILED", "Invalid pagination cursor", requestID, map[string]any{"cursor": "invalid or minted for a different ordering"})
	case errors.As(err, &invalid):
		details := map[string]any{"missing": invalid.Missing}
		api.BadRequest(w, "INVALID_IMPORT", "Imported record is missing required fields; provide overrides to continue", requestID, details)
	case errors.Is(err, catalog.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", "Movie not found", requestID)
	case errors.Is(err, prefs.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", "Preferences not found", requestID)
	case errors.Is(err, catalog.ErrDuplicateExternalID):
		api.Conflict(w, "DUPLICATE_IMPORT", "Movie already exists in your library", requestID, nil)
	case errors.Is(err, omdb.ErrUpstreamNotFound):
		api.NotFound(w, "UPSTREAM_NOT_FOUND", "No matching record upstream", requestID)
	case errors.Is(err, omdb.ErrUpstreamUnavailable):
		api.BadGateway(w, "UPSTREAM_UNAVAILABLE", "Failed to communicate with the metadata provider", requestID)
	default:
		var details map[string]any
		if e.Dev && err != nil {
			details = map[string]any{"error": err.Error()}
		}
		api.Internal(w, requestID, details)
	}
}
