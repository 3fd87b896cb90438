package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresMovieStore is the production Postgres-backed implementation.
type PostgresMovieStore struct {
	db *pgxpool.Pool
}

func NewPostgresMovieStore(db *pgxpool.Pool) *PostgresMovieStore {
	return &PostgresMovieStore{db: db}
}

const movieColumns = `id, owner_id, title, director, location, budget::text, duration_minutes,
release_year, release_date, description, poster_url, external_id, created_at, updated_at`

func scanMovie(row pgx.Row) (Movie, error) {
	var m Movie
	err := row.Scan(&m.ID, &m.OwnerID, &m.Title, &m.Director, &m.Location, &m.Budget,
		&m.DurationMinutes, &m.ReleaseYear, &m.ReleaseDate, &m.Description,
		&m.PosterURL, &m.ExternalID, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (s *PostgresMovieStore) Insert(ctx context.Context, m Movie) (Movie, error) {
	q := `
INSERT INTO movies (id, owner_id, title, director, location, budget, duration_minutes,
  release_year, release_date, description, poster_url, external_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + movieColumns

	out, err := scanMovie(s.db.QueryRow(ctx, q,
		m.ID, m.OwnerID, m.Title, m.Director, m.Location, m.Budget, m.DurationMinutes,
		m.ReleaseYear, m.ReleaseDate, m.Description, m.PosterURL, m.ExternalID,
		m.CreatedAt, m.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Movie{}, ErrDuplicateExternalID
		}
		return Movie{}, fmt.Errorf("insert movie: %w", err)
	}
	return out, nil
}

func (s *PostgresMovieStore) Get(ctx context.Context, id uuid.UUID) (Movie, error) {
	q := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	m, err := scanMovie(s.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Movie{}, ErrNotFound
		}
		return Movie{}, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}

func (s *PostgresMovieStore) FindByExternalID(ctx context.Context, ownerID, externalID string) (Movie, error) {
	q := `SELECT ` + movieColumns + ` FROM movies WHERE owner_id = $1 AND external_id = $2`
	m, err := scanMovie(s.db.QueryRow(ctx, q, ownerID, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Movie{}, ErrNotFound
		}
		return Movie{}, fmt.Errorf("find movie by external id: %w", err)
	}
	return m, nil
}

func (s *PostgresMovieStore) Update(ctx context.Context, m Movie) (Movie, error) {
	q := `
UPDATE movies SET
  title = $2, director = $3, location = $4, budget = $5::numeric, duration_minutes = $6,
  release_year = $7, release_date = $8, description = $9, poster_url = $10, updated_at = $11
WHERE id = $1
RETURNING ` + movieColumns

	out, err := scanMovie(s.db.QueryRow(ctx, q,
		m.ID, m.Title, m.Director, m.Location, m.Budget, m.DurationMinutes,
		m.ReleaseYear, m.ReleaseDate, m.Description, m.PosterURL, m.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Movie{}, ErrNotFound
		}
		return Movie{}, fmt.Errorf("update movie: %w", err)
	}
	return out, nil
}

func (s *PostgresMovieStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresMovieStore) Scan(ctx context.Context, ownerID string, f ScanFilter) ([]Movie, error) {
	q := `SELECT ` + movieColumns + ` FROM movies WHERE owner_id = $1`
	args := []any{ownerID}

	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := strconv.Itoa(len(args))
		q += " AND (title ILIKE $" + n + " OR director ILIKE $" + n + " OR location ILIKE $" + n + ")"
	}

	sortExpr := sortExpression(f.Sort)
	cmp := ">"
	dir := "ASC"
	if f.Order == OrderDesc {
		cmp = "<"
		dir = "DESC"
	}

	if f.After != nil {
		var v any
		switch f.Sort {
		case SortByTitle:
			v = f.After.Value
		case SortByReleaseYear:
			v = f.After.intValue()
		default:
			v = f.After.timeValue()
		}
		args = append(args, v, f.After.ID)
		q += fmt.Sprintf(" AND (%s, id) %s ($%d, $%d)", sortExpr, cmp, len(args)-1, len(args))
	}

	args = append(args, f.Limit)
	q += fmt.Sprintf(" ORDER BY %s %s, id %s LIMIT $%d", sortExpr, dir, dir, len(args))

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("scan movies: %w", err)
	}
	defer rows.Close()

	var out []Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movies: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan movies: %w", err)
	}
	return out, nil
}

func sortExpression(sort SortKey) string {
	switch sort {
	case SortByTitle:
		return "title"
	case SortByReleaseYear:
		return "COALESCE(release_year, 0)"
	default:
		return "created_at"
	}
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search text.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
