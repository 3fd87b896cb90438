package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/example/filmora/internal/catalog"
	"github.com/example/filmora/internal/platform/api"
	"github.com/example/filmora/internal/validation"
)

type createMovieRequest struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Director        string     `json:"director" validate:"required,max=255"`
	Budget          *string    `json:"budget" validate:"omitempty,money2"`
	Location        string     `json:"location" validate:"required,max=255"`
	DurationMinutes int        `json:"duration_minutes" validate:"required,gt=0"`
	ReleaseYear     *int       `json:"release_year" validate:"omitempty,release_year"`
	ReleaseDate     *time.Time `json:"release_date"`
	Description     *string    `json:"description" validate:"omitempty,max=10000"`
	PosterURL       *string    `json:"poster_url" validate:"omitempty,url"`
	ExternalID      *string    `json:"external_id"`
}

func (req *createMovieRequest) toInput() catalog.MovieInput {
	return catalog.MovieInput{
		Title:           strings.TrimSpace(req.Title),
		Director:        strings.TrimSpace(req.Director),
		Budget:          req.Budget,
		Location:        strings.TrimSpace(req.Location),
		DurationMinutes: req.DurationMinutes,
		ReleaseYear:     req.ReleaseYear,
		ReleaseDate:     req.ReleaseDate,
		Description:     req.Description,
		PosterURL:       req.PosterURL,
		ExternalID:      req.ExternalID,
	}
}

type updateMovieRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Director        *string    `json:"director" validate:"omitempty,min=1,max=255"`
	Budget          *string    `json:"budget" validate:"omitempty,money2"`
	Location        *string    `json:"location" validate:"omitempty,min=1,max=255"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gt=0"`
	ReleaseYear     *int       `json:"release_year" validate:"omitempty,release_year"`
	ReleaseDate     *time.Time `json:"release_date"`
	Description     *string    `json:"description" validate:"omitempty,max=10000"`
	PosterURL       *string    `json:"poster_url" validate:"omitempty,url"`
}

func (req *updateMovieRequest) toPatch() catalog.MoviePatch {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		s := strings.TrimSpace(*p)
		return &s
	}
	return catalog.MoviePatch{
		Title:           trim(req.Title),
		Director:        trim(req.Director),
		Budget:          req.Budget,
		Location:        trim(req.Location),
		DurationMinutes: req.DurationMinutes,
		ReleaseYear:     req.ReleaseYear,
		ReleaseDate:     req.ReleaseDate,
		Description:     req.Description,
		PosterURL:       req.PosterURL,
	}
}

// CreateMovie handles POST /movies.
func CreateMovie(svc *catalog.Service, e *Errors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(r)
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", requestID(r))
			return
		}

		var req createMovieRequest
		if err := decodeJSON(w, r, &req); err != nil {
			api.BadRequest(w, "VALIDATION_FAILED", "Invalid JSON body", requestID(r), nil)
			return
		}
		if err := validation.Struct(&req); err != nil {
			e.Write(w, requestID(r), err)
			return
		}

		m, err := svc.Create(r.Context(), ownerID, req.toInput())
		if err != nil {
			e.Write(w, requestID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, m)
	}
}

// ListMovies handles GET /movies with search, sort and cursor pagination.
func ListMovies(svc *catalog.Service, e *Errors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(r)
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", requestID(r))
			return
		}

		p, err := parseListParams(r)
		if err != nil {
			e.Write(w, requestID(r), err)
			return
		}

		page, err := svc.List(r.Context(), ownerID, p)
		if err != nil {
			e.Write(w, requestID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, page)
	}
}

func parseListParams(r *http.Request) (catalog.ListParams, error) {
	q := r.URL.Query()
	p := catalog.ListParams{
		Search: strings.TrimSpace(q.Get("search")),
		Cursor: q.Get("cursor"),
	}

	fields := validation.FieldErrors{}
	switch v := q.Get("sort"); v {
	case "", string(catalog.SortByCreatedAt), string(catalog.SortByTitle), string(catalog.SortByReleaseYear):
		p.Sort = catalog.SortKey(v)
	default:
		fields["sort"] = "must be one of createdAt, title, releaseYear"
	}
	switch v := q.Get("order"); v {
	case "", string(catalog.OrderAsc), string(catalog.OrderDesc):
		p.Order = catalog.SortOrder(v)
	default:
		fields["order"] = "must be asc or desc"
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > catalog.MaxPageLimit {
			fields["limit"] = "must be an integer between 1 and 50"
		} else {
			p.Limit = n
		}
	}
	if len(fields) > 0 {
		return catalog.ListParams{}, fields
	}
	return p, nil
}

// GetMovie handles GET /movies/{id}.
func GetMovie(svc *catalog.Service, e *Errors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(r)
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", requestID(r))
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			api.NotFound(w, "NOT_FOUND", "Movie not found", requestID(r))
			return
		}

		m, err := svc.Get(r.Context(), ownerID, id)
		if err != nil {
			e.Write(w, requestID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, m)
	}
}

// UpdateMovie handles PUT /movies/{id}.
func UpdateMovie(svc *catalog.Service, e *Errors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(r)
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", requestID(r))
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			api.NotFound(w, "NOT_FOUND", "Movie not found", requestID(r))
			return
		}

		var req updateMovieRequest
		if err := decodeJSON(w, r, &req); err != nil {
			api.BadRequest(w, "VALIDATION_FAILED", "Invalid JSON body", requestID(r), nil)
			return
		}
		if err := validation.Struct(&req); err != nil {
			e.Write(w, requestID(r), err)
			return
		}

		m, err := svc.Update(r.Context(), ownerID, id, req.toPatch())
		if err != nil {
			e.Write(w, requestID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, m)
	}
}

// DeleteMovie handles DELETE /movies/{id}.
func DeleteMovie(svc *catalog.Service, e *Errors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(r)
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", requestID(r))
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			api.NotFound(w, "NOT_FOUND", "Movie not found", requestID(r))
			return
		}

		if err := svc.Delete(r.Context(), ownerID, id); err != nil {
			e.Write(w, requestID(r), err)
			return
		}
		api.NoContent(w)
	}
}

type importMovieRequest struct {
	ExternalID string              `json:"external_id" validate:"required"`
	Overrides  *updateMovieRequest `json:"overrides"`
}

// ImportMovie handles POST /movies/import/external.
func ImportMovie(svc *catalog.Service, e *Errors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(r)
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", requestID(r))
			return
		}

		var req importMovieRequest
		if err := decodeJSON(w, r, &req); err != nil {
			api.BadRequest(w, "VALIDATION_FAILED", "Invalid JSON body", requestID(r), nil)
			return
		}
		if err := validation.Struct(&req); err != nil {
			e.Write(w, requestID(r), err)
			return
		}

		var overrides catalog.MoviePatch
		if req.Overrides != nil {
			overrides = req.Overrides.toPatch()
		}

		m, err := svc.ImportFromExternal(r.Context(), ownerID, strings.TrimSpace(req.ExternalID), overrides)
		if err != nil {
			e.Write(w, requestID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, m)
	}
}
