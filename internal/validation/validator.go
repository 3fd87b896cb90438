// Package validation wraps go-playground/validator with the custom rules
// the catalog needs and translates failures into field → message maps.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var money2Re = regexp.MustCompile(`^\d+(?:\.\d{1,2})?$`)

// minReleaseYear is the year of the first motion picture.
const minReleaseYear = 1888

// Validator returns the process-wide validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// money2: decimal string with at most two fraction digits.
		_ = validate.RegisterValidation("money2", func(fl validator.FieldLevel) bool {
			return money2Re.MatchString(fl.Field().String())
		})

		// release_year: 1888..currentYear+2.
		_ = validate.RegisterValidation("release_year", func(fl validator.FieldLevel) bool {
			y := fl.Field().Int()
			return y >= minReleaseYear && y <= int64(time.Now().Year()+2)
		})
	})
	return validate
}

// Struct validates v and returns a FieldErrors map on failure.
func Struct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		fe[fieldName(e)] = message(e)
	}
	return fe
}

// FieldErrors maps a field name to a human-readable validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for f, m := range fe {
		parts = append(parts, f+": "+m)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Details converts the map into the API error details payload.
func (fe FieldErrors) Details() map[string]any {
	out := make(map[string]any, len(fe))
	for f, m := range fe {
		out[f] = m
	}
	return out
}

func fieldName(e validator.FieldError) string {
	// Strip the struct name prefix: "createMovieRequest.Title" -> "title".
	name := e.Namespace()
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return snakeCase(name)
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "money2":
		return "must be a non-negative decimal with up to two fraction digits"
	case "release_year":
		return fmt.Sprintf("must be between %d and %d", minReleaseYear, time.Now().Year()+2)
	case "hexcolor":
		return "must be a hex color like #1a2b3c"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "numeric":
		return "must be numeric"
	default:
		return "is invalid"
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
