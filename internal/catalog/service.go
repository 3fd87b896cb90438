package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
)

// Events receives fire-and-forget notifications about catalog changes.
// Implementations must never block the request path.
type Events interface {
	Emit(ctx context.Context, event string, payload any)
}

const (
	EventMovieCreated  = "catalog.movie.created"
	EventMovieUpdated  = "catalog.movie.updated"
	EventMovieDeleted  = "catalog.movie.deleted"
	EventMovieImported = "catalog.movie.imported"
)

// ListParams is one page request as the HTTP layer hands it over.
type ListParams struct {
	Search string
	Sort   SortKey
	Order  SortOrder
	Cursor string
	Limit  int
}

// Page is one slice of a listing. NextCursor is nil on the last page.
type Page struct {
	Movies     []Movie `json:"data"`
	NextCursor *string `json:"next_cursor"`
}

// Service owns all catalog business rules: ownership checks, pagination,
// dedup and external import.
type Service struct {
	store   MovieStore
	gateway MetadataGateway
	events  Events
	logger  *zap.Logger
}

func NewService(store MovieStore, gateway MetadataGateway, events Events, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, gateway: gateway, events: events, logger: logger}
}

func (s *Service) Create(ctx context.Context, ownerID string, in MovieInput) (Movie, error) {
	if in.ExternalID != nil {
		_, err := s.store.FindByExternalID(ctx, ownerID, *in.ExternalID)
		switch {
		case err == nil:
			return Movie{}, ErrDuplicateExternalID
		case !errors.Is(err, ErrNotFound):
			return Movie{}, err
		}
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	m := Movie{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Title:           in.Title,
		Director:        in.Director,
		Location:        in.Location,
		DurationMinutes: in.DurationMinutes,
		ReleaseYear:     in.ReleaseYear,
		ReleaseDate:     in.ReleaseDate,
		Description:     in.Description,
		PosterURL:       in.PosterURL,
		ExternalID:      in.ExternalID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Budget != nil {
		b := NormalizeBudget(*in.Budget)
		m.Budget = &b
	}

	created, err := s.store.Insert(ctx, m)
	if err != nil {
		return Movie{}, err
	}
	s.emit(ctx, EventMovieCreated, created)
	return created, nil
}

func (s *Service) Get(ctx context.Context, ownerID string, id uuid.UUID) (Movie, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *Service) Update(ctx context.Context, ownerID string, id uuid.UUID, patch MoviePatch) (Movie, error) {
	m, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return Movie{}, err
	}

	patch.apply(&m)
	if m.Budget != nil {
		b := NormalizeBudget(*m.Budget)
		m.Budget = &b
	}
	m.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	updated, err := s.store.Update(ctx, m)
	if err != nil {
		return Movie{}, err
	}
	s.emit(ctx, EventMovieUpdated, updated)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	m, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, m.ID); err != nil {
		return err
	}
	s.emit(ctx, EventMovieDeleted, m)
	return nil
}

// List returns one page of the owner's library. An invalid cursor is
// ErrBadCursor; the handler maps it to a validation failure.
func (s *Service) List(ctx context.Context, ownerID string, p ListParams) (Page, error) {
	sort := p.Sort
	if sort == "" {
		sort = SortByCreatedAt
	}
	order := p.Order
	if order == "" {
		order = OrderDesc
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	after, err := DecodeCursor(p.Cursor, sort, order)
	if err != nil {
		return Page{}, err
	}

	rows, err := s.store.Scan(ctx, ownerID, ScanFilter{
		Search: p.Search,
		Sort:   sort,
		Order:  order,
		After:  after,
		Limit:  limit + 1, // probe one past the page to detect a next page
	})
	if err != nil {
		return Page{}, err
	}

	page := Page{Movies: rows}
	if len(rows) > limit {
		page.Movies = rows[:limit]
		last := page.Movies[limit-1]
		tok := EncodeCursor(Cursor{Sort: sort, Order: order, Value: cursorValue(last, sort), ID: last.ID})
		page.NextCursor = &tok
	}
	if page.Movies == nil {
		page.Movies = []Movie{}
	}
	return page, nil
}

// ImportFromExternal fetches upstream metadata, merges in the caller's
// overrides and creates the record. Records already imported by this owner
// are ErrDuplicateExternalID.
func (s *Service) ImportFromExternal(ctx context.Context, ownerID, externalID string, overrides MoviePatch) (Movie, error) {
	details, err := s.gateway.Details(ctx, externalID)
	if err != nil {
		return Movie{}, err
	}

	in, err := MergeImport(details, overrides)
	if err != nil {
		return Movie{}, err
	}

	m, err := s.Create(ctx, ownerID, in)
	if err != nil {
		return Movie{}, err
	}
	s.emit(ctx, EventMovieImported, m)
	return m, nil
}

func (s *Service) getOwned(ctx context.Context, ownerID string, id uuid.UUID) (Movie, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return Movie{}, err
	}
	if m.OwnerID != ownerID {
		// hide other owners' records entirely
		return Movie{}, ErrNotFound
	}
	return m, nil
}

func (s *Service) emit(ctx context.Context, event string, m Movie) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, event, m)
}
