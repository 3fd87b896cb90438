package handlers

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/filmora/internal/catalog"
	"github.com/example/filmora/internal/omdb"
	"github.com/example/filmora/internal/platform/api"
	"github.com/example/filmora/internal/validation"
)

// MetadataSearcher is the slice of the OMDb client the search endpoints
// need; tests substitute a stub.
type MetadataSearcher interface {
	Search(ctx context.Context, p omdb.SearchParams) (omdb.SearchResult, error)
	Details(ctx context.Context, externalID string) (catalog.MoviePatch, error)
}

var yearRe = regexp.MustCompile(`^\d{4}$`)

const maxSearchPage = 10

// SearchExternal handles GET /movies/search, a validated passthrough to
// the metadata provider.
func SearchExternal(gw MetadataSearcher, e *Errors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := owner(r); !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", requestID(r))
			return
		}

		q := r.URL.Query()
		p := omdb.SearchParams{
			Query: strings.TrimSpace(q.Get("query")),
			Type:  q.Get("type"),
			Year:  strings.TrimSpace(q.Get("year")),
			Page:  1,
		}

		fields := validation.FieldErrors{}
		if p.Query == "" {
			fields["query"] = "search query is required"
		}
		switch p.Type {
		case "", "movie", "series", "episode":
		default:
			fields["type"] = "must be one of movie, series, episode"
		}
		if p.Year != "" && !yearRe.MatchString(p.Year) {
			fields["year"] = "must be a 4-digit year"
		}
		if v := q.Get("page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxSearchPage {
				fields["page"] = "must be an integer between 1 and 10"
			} else {
				p.Page = n
			}
		}
		if len(fields) > 0 {
			e.Write(w, requestID(r), fields)
			return
		}

		res, err := gw.Search(r.Context(), p)
		if err != nil {
			e.Write(w, requestID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, res)
	}
}

// externalDetailsResponse is the normalized upstream record shown as an
// import preview.
type externalDetailsResponse struct {
	ExternalID      string     `json:"external_id"`
	Title           *string    `json:"title"`
	Director        *string    `json:"director"`
	Location        *string    `json:"location"`
	Budget          *string    `json:"budget"`
	DurationMinutes *int       `json:"duration_minutes"`
	ReleaseYear     *int       `json:"release_year"`
	ReleaseDate     *time.Time `json:"release_date"`
	Description     *string    `json:"description"`
	PosterURL       *string    `json:"poster_url"`
}

// GetExternalDetails handles GET /movies/external/{id}.
func GetExternalDetails(gw MetadataSearcher, e *Errors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := owner(r); !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", requestID(r))
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			e.Write(w, requestID(r), validation.FieldErrors{"id": "external id is required"})
			return
		}

		patch, err := gw.Details(r.Context(), id)
		if err != nil {
			e.Write(w, requestID(r), err)
			return
		}

		resp := externalDetailsResponse{
			Title:           patch.Title,
			Director:        patch.Director,
			Location:        patch.Location,
			Budget:          patch.Budget,
			DurationMinutes: patch.DurationMinutes,
			ReleaseYear:     patch.ReleaseYear,
			ReleaseDate:     patch.ReleaseDate,
			Description:     patch.Description,
			PosterURL:       patch.PosterURL,
		}
		if patch.ExternalID != nil {
			resp.ExternalID = *patch.ExternalID
		}
		api.WriteJSON(w, http.StatusOK, resp)
	}
}
