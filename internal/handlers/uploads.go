package handlers

import (
	"net/http"

	"github.com/example/filmora/internal/platform/api"
	"github.com/example/filmora/internal/uploads"
)

// UploadAuth handles GET /uploads/auth: mints single-use client upload
// credentials for the media CDN.
func UploadAuth(signer *uploads.Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := owner(r); !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", requestID(r))
			return
		}
		api.WriteJSON(w, http.StatusOK, signer.AuthParams())
	}
}
