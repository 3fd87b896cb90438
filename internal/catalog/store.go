package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound covers both "no such record" and "owned by someone
	// else" — the two are indistinguishable to callers.
	ErrNotFound = errors.New("movie not found")
	// ErrDuplicateExternalID signals a second import of the same external
	// id for one owner.
	ErrDuplicateExternalID = errors.New("movie already exists in your library")
	// ErrBadCursor signals an undecodable or mismatched pagination cursor.
	ErrBadCursor = errors.New("invalid cursor")
)

// SortKey selects the ordering column for a scan.
type SortKey string

const (
	SortByCreatedAt   SortKey = "createdAt"
	SortByTitle       SortKey = "title"
	SortByReleaseYear SortKey = "releaseYear"
)

// SortOrder is the scan direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ScanFilter describes one page request against a store. The scan is
// always scoped to a single owner; Search is a case-insensitive substring
// match against title, director or location. After, when set, resumes
// strictly after that row under the (sort key, id) total order.
type ScanFilter struct {
	Search string
	Sort   SortKey
	Order  SortOrder
	After  *Cursor
	Limit  int
}

// MovieStore defines all persistence operations for the catalog service.
type MovieStore interface {
	Insert(ctx context.Context, m Movie) (Movie, error)
	// Get fetches by primary key regardless of owner; ownership is the
	// service's concern.
	Get(ctx context.Context, id uuid.UUID) (Movie, error)
	FindByExternalID(ctx context.Context, ownerID, externalID string) (Movie, error)
	// Update persists every mutable field; the external id is fixed at
	// insert and left untouched.
	Update(ctx context.Context, m Movie) (Movie, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Scan(ctx context.Context, ownerID string, f ScanFilter) ([]Movie, error)
}
