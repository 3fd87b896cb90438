package handlers

import (
	"errors"
	"net/http"

	"github.com/example/filmora/internal/platform/api"
	"github.com/example/filmora/internal/prefs"
	"github.com/example/filmora/internal/validation"
)

type preferenceRequest struct {
	Theme       string  `json:"theme" validate:"omitempty,oneof=light dark system sunset lagoon"`
	AccentColor *string `json:"accent_color" validate:"omitempty,hexcolor"`
}

// GetPreferences handles GET /preferences. Users who never saved anything
// get a JSON null, not a 404; the frontend treats both as "use defaults".
func GetPreferences(svc *prefs.Service, e *Errors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(r)
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", requestID(r))
			return
		}

		p, err := svc.Get(r.Context(), ownerID)
		if err != nil {
			if errors.Is(err, prefs.ErrNotFound) {
				api.WriteJSON(w, http.StatusOK, nil)
				return
			}
			e.Write(w, requestID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, p)
	}
}

// UpdatePreferences handles PUT /preferences.
func UpdatePreferences(svc *prefs.Service, e *Errors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(r)
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", requestID(r))
			return
		}

		var req preferenceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			api.BadRequest(w, "VALIDATION_FAILED", "Invalid JSON body", requestID(r), nil)
			return
		}
		if err := validation.Struct(&req); err != nil {
			e.Write(w, requestID(r), err)
			return
		}

		p, err := svc.Save(r.Context(), ownerID, prefs.PreferenceInput{
			Theme:       req.Theme,
			AccentColor: req.AccentColor,
		})
		if err != nil {
			e.Write(w, requestID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, p)
	}
}
