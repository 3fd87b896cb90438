package catalog

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Cursor is the decoded form of the opaque pagination token: a pointer to
// the last row of the previous page under a fixed (sort key, id) order.
// The token is not stable across a change of sort key or direction.
type Cursor struct {
	Sort  SortKey
	Order SortOrder
	Value string // sort key value, string-encoded per key
	ID    uuid.UUID
}

type cursorWire struct {
	Sort  string `json:"s"`
	Order string `json:"o"`
	Value string `json:"v"`
	ID    string `json:"id"`
}

// EncodeCursor serializes a cursor as an opaque base64 token.
func EncodeCursor(c Cursor) string {
	b, _ := json.Marshal(cursorWire{
		Sort:  string(c.Sort),
		Order: string(c.Order),
		Value: c.Value,
		ID:    c.ID.String(),
	})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor parses a token produced by EncodeCursor and checks it
// against the requested ordering. Any malformed or mismatched token is
// ErrBadCursor.
func DecodeCursor(raw string, sort SortKey, order SortOrder) (*Cursor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrBadCursor
	}
	var w cursorWire
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, ErrBadCursor
	}
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, ErrBadCursor
	}
	c := &Cursor{Sort: SortKey(w.Sort), Order: SortOrder(w.Order), Value: w.Value, ID: id}
	if c.Sort != sort || c.Order != order {
		return nil, ErrBadCursor
	}
	switch c.Sort {
	case SortByCreatedAt, SortByReleaseYear:
		if _, err := strconv.ParseInt(c.Value, 10, 64); err != nil {
			return nil, ErrBadCursor
		}
	case SortByTitle:
	default:
		return nil, ErrBadCursor
	}
	return c, nil
}

// cursorValue string-encodes m's sort key value. Unset release years sort
// as zero so the order stays total.
func cursorValue(m Movie, sort SortKey) string {
	switch sort {
	case SortByTitle:
		return m.Title
	case SortByReleaseYear:
		y := 0
		if m.ReleaseYear != nil {
			y = *m.ReleaseYear
		}
		return strconv.Itoa(y)
	default: // SortByCreatedAt
		return strconv.FormatInt(m.CreatedAt.UnixMicro(), 10)
	}
}

// timeValue decodes a createdAt cursor value.
func (c *Cursor) timeValue() time.Time {
	n, _ := strconv.ParseInt(c.Value, 10, 64)
	return time.UnixMicro(n).UTC()
}

// intValue decodes a releaseYear cursor value.
func (c *Cursor) intValue() int {
	n, _ := strconv.Atoi(c.Value)
	return n
}
