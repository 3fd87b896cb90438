package catalog

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryMovieStore is an in-memory MovieStore used in tests and local runs
// without Postgres. Ordering matches the Postgres implementation, including
// the id tiebreak on raw uuid bytes.
type MemoryMovieStore struct {
	mu     sync.RWMutex
	movies map[uuid.UUID]Movie
}

func NewMemoryMovieStore() *MemoryMovieStore {
	return &MemoryMovieStore{movies: make(map[uuid.UUID]Movie)}
}

func (s *MemoryMovieStore) Insert(_ context.Context, m Movie) (Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ExternalID != nil {
		for _, other := range s.movies {
			if other.OwnerID == m.OwnerID && other.ExternalID != nil && *other.ExternalID == *m.ExternalID {
				return Movie{}, ErrDuplicateExternalID
			}
		}
	}
	s.movies[m.ID] = m
	return m, nil
}

func (s *MemoryMovieStore) Get(_ context.Context, id uuid.UUID) (Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movies[id]
	if !ok {
		return Movie{}, ErrNotFound
	}
	return m, nil
}

func (s *MemoryMovieStore) FindByExternalID(_ context.Context, ownerID, externalID string) (Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if m.OwnerID == ownerID && m.ExternalID != nil && *m.ExternalID == externalID {
			return m, nil
		}
	}
	return Movie{}, ErrNotFound
}

func (s *MemoryMovieStore) Update(_ context.Context, m Movie) (Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.movies[m.ID]
	if !ok {
		return Movie{}, ErrNotFound
	}
	m.ExternalID = prev.ExternalID
	s.movies[m.ID] = m
	return m, nil
}

func (s *MemoryMovieStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[id]; !ok {
		return ErrNotFound
	}
	delete(s.movies, id)
	return nil
}

func (s *MemoryMovieStore) Scan(_ context.Context, ownerID string, f ScanFilter) ([]Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []Movie
	needle := strings.ToLower(f.Search)
	for _, m := range s.movies {
		if m.OwnerID != ownerID {
			continue
		}
		if needle != "" && !matchesSearch(m, needle) {
			continue
		}
		all = append(all, m)
	}

	sort.Slice(all, func(i, j int) bool {
		c := compareMovies(all[i], all[j], f.Sort)
		if f.Order == OrderDesc {
			c = -c
		}
		return c < 0
	})

	if f.After != nil {
		idx := sort.Search(len(all), func(i int) bool {
			c := compareCursor(all[i], f.After, f.Sort)
			if f.Order == OrderDesc {
				c = -c
			}
			return c > 0
		})
		all = all[idx:]
	}

	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, nil
}

func matchesSearch(m Movie, needle string) bool {
	return strings.Contains(strings.ToLower(m.Title), needle) ||
		strings.Contains(strings.ToLower(m.Director), needle) ||
		strings.Contains(strings.ToLower(m.Location), needle)
}

// compareMovies orders a and b by (sort key, id), ascending. Movies with no
// release year sort as year zero, matching the Postgres COALESCE.
func compareMovies(a, b Movie, key SortKey) int {
	switch key {
	case SortByTitle:
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
	case SortByReleaseYear:
		if c := compareInt(yearOf(a), yearOf(b)); c != 0 {
			return c
		}
	default:
		if c := compareInt64(a.CreatedAt.UnixMicro(), b.CreatedAt.UnixMicro()); c != 0 {
			return c
		}
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

// compareCursor orders m against the cursor position, ascending.
func compareCursor(m Movie, after *Cursor, key SortKey) int {
	switch key {
	case SortByTitle:
		if c := strings.Compare(m.Title, after.Value); c != 0 {
			return c
		}
	case SortByReleaseYear:
		if c := compareInt(yearOf(m), after.intValue()); c != 0 {
			return c
		}
	default:
		if c := compareInt64(m.CreatedAt.UnixMicro(), after.timeValue().UnixMicro()); c != 0 {
			return c
		}
	}
	return bytes.Compare(m.ID[:], after.ID[:])
}

func yearOf(m Movie) int {
	if m.ReleaseYear == nil {
		return 0
	}
	return *m.ReleaseYear
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
