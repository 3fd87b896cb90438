package catalog

import (
	"context"
	"fmt"
	"strings"
)

// MetadataGateway resolves an external catalog id to a normalized partial
// record. Fields the upstream has no data for are left nil.
type MetadataGateway interface {
	Details(ctx context.Context, externalID string) (MoviePatch, error)
}

// InvalidImportError reports required fields that neither the upstream
// record nor the caller's overrides supplied.
type InvalidImportError struct {
	Missing []string
}

func (e *InvalidImportError) Error() string {
	return fmt.Sprintf("imported record is missing required fields: %s", strings.Join(e.Missing, ", "))
}

// MergeImport combines an upstream record with caller overrides into a
// creatable record. Overrides win field by field; the external id always
// comes from the upstream record so dedup stays honest.
func MergeImport(details, overrides MoviePatch) (MovieInput, error) {
	pick := func(over, base *string) *string {
		if over != nil {
			return over
		}
		return base
	}

	var in MovieInput
	var missing []string

	if t := pick(overrides.Title, details.Title); t != nil && *t != "" {
		in.Title = *t
	} else {
		missing = append(missing, "title")
	}
	if d := pick(overrides.Director, details.Director); d != nil && *d != "" {
		in.Director = *d
	} else {
		missing = append(missing, "director")
	}
	if l := pick(overrides.Location, details.Location); l != nil && *l != "" {
		in.Location = *l
	} else {
		missing = append(missing, "location")
	}
	if overrides.DurationMinutes != nil {
		in.DurationMinutes = *overrides.DurationMinutes
	} else if details.DurationMinutes != nil {
		in.DurationMinutes = *details.DurationMinutes
	}
	if in.DurationMinutes <= 0 {
		missing = append(missing, "duration_minutes")
	}

	if len(missing) > 0 {
		return MovieInput{}, &InvalidImportError{Missing: missing}
	}

	in.Budget = pick(overrides.Budget, details.Budget)
	if overrides.ReleaseYear != nil {
		in.ReleaseYear = overrides.ReleaseYear
	} else {
		in.ReleaseYear = details.ReleaseYear
	}
	if overrides.ReleaseDate != nil {
		in.ReleaseDate = overrides.ReleaseDate
	} else {
		in.ReleaseDate = details.ReleaseDate
	}
	in.Description = pick(overrides.Description, details.Description)
	in.PosterURL = pick(overrides.PosterURL, details.PosterURL)
	in.ExternalID = details.ExternalID
	return in, nil
}
