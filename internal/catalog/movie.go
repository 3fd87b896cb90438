// Package catalog implements the ownership-scoped movie library: CRUD,
// keyset-paginated listing and merge-based import of external metadata.
package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Movie is one entry in a user's library.
type Movie struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         string     `json:"-"`
	Title           string     `json:"title"`
	Director        string     `json:"director"`
	Budget          *string    `json:"budget,omitempty"`
	Location        string     `json:"location"`
	DurationMinutes int        `json:"duration_minutes"`
	ReleaseYear     *int       `json:"release_year,omitempty"`
	ReleaseDate     *time.Time `json:"release_date,omitempty"`
	Description     *string    `json:"description,omitempty"`
	PosterURL       *string    `json:"poster_url,omitempty"`
	ExternalID      *string    `json:"external_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// MovieInput carries the caller-supplied fields for a new record.
type MovieInput struct {
	Title           string
	Director        string
	Budget          *string
	Location        string
	DurationMinutes int
	ReleaseYear     *int
	ReleaseDate     *time.Time
	Description     *string
	PosterURL       *string
	ExternalID      *string
}

// MoviePatch is a partial record: nil means "leave unchanged" for updates
// and "absent" for import merging.
type MoviePatch struct {
	Title           *string
	Director        *string
	Budget          *string
	Location        *string
	DurationMinutes *int
	ReleaseYear     *int
	ReleaseDate     *time.Time
	Description     *string
	PosterURL       *string
	ExternalID      *string
}

// apply overwrites m's fields with the patch's present fields.
func (p MoviePatch) apply(m *Movie) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Director != nil {
		m.Director = *p.Director
	}
	if p.Budget != nil {
		m.Budget = p.Budget
	}
	if p.Location != nil {
		m.Location = *p.Location
	}
	if p.DurationMinutes != nil {
		m.DurationMinutes = *p.DurationMinutes
	}
	if p.ReleaseYear != nil {
		m.ReleaseYear = p.ReleaseYear
	}
	if p.ReleaseDate != nil {
		m.ReleaseDate = p.ReleaseDate
	}
	if p.Description != nil {
		m.Description = p.Description
	}
	if p.PosterURL != nil {
		m.PosterURL = p.PosterURL
	}
	if p.ExternalID != nil {
		m.ExternalID = p.ExternalID
	}
}

// NormalizeBudget pads a validated decimal string to exactly two fraction
// digits so amounts round-trip in a fixed form ("12" -> "12.00").
func NormalizeBudget(v string) string {
	dot := strings.IndexByte(v, '.')
	if dot < 0 {
		return v + ".00"
	}
	frac := len(v) - dot - 1
	for ; frac < 2; frac++ {
		v += "0"
	}
	return v
}
