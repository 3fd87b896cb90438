package handlers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/example/filmora/internal/platform/auth"
	"github.com/example/filmora/internal/platform/httpserver"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

func requestID(r *http.Request) string {
	return httpserver.RequestIDFromContext(r.Context())
}

// owner returns the authenticated subject. Routes using it sit behind
// auth.RequireUser, so a missing identity is a programming error and
// answered with 401 by the caller checking ok.
func owner(r *http.Request) (string, bool) {
	return auth.OwnerIDFromContext(r.Context())
}
