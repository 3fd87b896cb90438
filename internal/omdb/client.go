// Package omdb is the gateway to the OMDb HTTP API. It normalizes the
// upstream's stringly-typed payloads into catalog records and shields the
// rest of the service from upstream flakiness with a circuit breaker.
package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/example/filmora/internal/catalog"
)

var (
	// ErrUpstreamNotFound means OMDb answered but has no matching record.
	ErrUpstreamNotFound = errors.New("omdb: no results found")
	// ErrUpstreamUnavailable covers transport failures, non-200 statuses
	// and an open circuit breaker.
	ErrUpstreamUnavailable = errors.New("omdb: upstream unavailable")
)

const requestTimeout = 5 * time.Second

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	CB         *gobreaker.CircuitBreaker
	Log        *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.CB = cb }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.Log = log }
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = "https://www.omdbapi.com"
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: requestTimeout},
		Log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SearchParams mirrors the upstream search knobs the service exposes.
type SearchParams struct {
	Query string
	Type  string // movie, series or episode; empty searches all
	Year  string
	Page  int
}

type SearchItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Year      *int    `json:"year,omitempty"`
	Type      string  `json:"type"`
	PosterURL *string `json:"poster_url,omitempty"`
}

type SearchResult struct {
	Items []SearchItem `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
}

type searchResponse struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		ImdbID string `json:"imdbID"`
		Type   string `json:"Type"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	TotalResults string `json:"totalResults"`
	Response     string `json:"Response"`
	Error        string `json:"Error"`
}

type detailResponse struct {
	Title     string `json:"Title"`
	Released  string `json:"Released"`
	Year      string `json:"Year"`
	Director  string `json:"Director"`
	Plot      string `json:"Plot"`
	Runtime   string `json:"Runtime"`
	ImdbID    string `json:"imdbID"`
	BoxOffice string `json:"BoxOffice"`
	Country   string `json:"Country"`
	Poster    string `json:"Poster"`
	Response  string `json:"Response"`
	Error     string `json:"Error"`
}

func (c *Client) Search(ctx context.Context, p SearchParams) (SearchResult, error) {
	if p.Page <= 0 {
		p.Page = 1
	}
	q := url.Values{"s": {p.Query}, "page": {strconv.Itoa(p.Page)}}
	if p.Type != "" {
		q.Set("type", p.Type)
	}
	if p.Year != "" {
		q.Set("y", p.Year)
	}

	var resp searchResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return SearchResult{}, err
	}
	if resp.Response == "False" {
		return SearchResult{}, fmt.Errorf("%w: %s", ErrUpstreamNotFound, resp.Error)
	}

	out := SearchResult{Items: make([]SearchItem, 0, len(resp.Search)), Page: p.Page}
	for _, raw := range resp.Search {
		item := SearchItem{ID: raw.ImdbID, Title: raw.Title, Type: raw.Type}
		if y, err := strconv.Atoi(leadingDigits(raw.Year)); err == nil {
			item.Year = &y
		}
		if raw.Poster != "" && raw.Poster != "N/A" {
			item.PosterURL = &raw.Poster
		}
		out.Items = append(out.Items, item)
	}
	out.Total = len(out.Items)
	if n, err := strconv.Atoi(resp.TotalResults); err == nil {
		out.Total = n
	}
	return out, nil
}

// Details implements catalog.MetadataGateway.
func (c *Client) Details(ctx context.Context, externalID string) (catalog.MoviePatch, error) {
	q := url.Values{"i": {externalID}, "plot": {"full"}}

	var resp detailResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return catalog.MoviePatch{}, err
	}
	if resp.Response == "False" {
		return catalog.MoviePatch{}, fmt.Errorf("%w: %s", ErrUpstreamNotFound, resp.Error)
	}

	patch := catalog.MoviePatch{
		Title:           optString(resp.Title),
		Director:        optString(resp.Director),
		Location:        optString(resp.Country),
		Description:     optString(resp.Plot),
		DurationMinutes: parseRuntime(resp.Runtime),
		Budget:          parseCurrency(resp.BoxOffice),
		ReleaseDate:     parseDate(resp.Released),
	}
	if y, err := strconv.Atoi(leadingDigits(resp.Year)); err == nil {
		patch.ReleaseYear = &y
	}
	if resp.Poster != "" && resp.Poster != "N/A" {
		patch.PosterURL = &resp.Poster
	}
	id := resp.ImdbID
	if id == "" {
		id = externalID
	}
	patch.ExternalID = &id
	return patch, nil
}

// get runs one request through the breaker. Upstream "not found" answers
// decode as Response=False with a 200 status, so only transport-level
// failures count against the breaker.
func (c *Client) get(ctx context.Context, q url.Values, out any) error {
	q.Set("apikey", c.APIKey)
	u := c.BaseURL + "/?" + q.Encode()

	do := func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("omdb: status %d", resp.StatusCode)
		}
		return b, nil
	}

	var body any
	var err error
	if c.CB != nil {
		body, err = c.CB.Execute(do)
	} else {
		body, err = do()
	}
	if err != nil {
		c.Log.Warn("omdb request failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}

var runtimeRe = regexp.MustCompile(`^(\d+)\s*min`)

func parseRuntime(v string) *int {
	m := runtimeRe.FindStringSubmatch(v)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

var nonCurrencyRe = regexp.MustCompile(`[^0-9.]`)

func parseCurrency(v string) *string {
	if v == "" || v == "N/A" {
		return nil
	}
	s := nonCurrencyRe.ReplaceAllString(v, "")
	if s == "" {
		return nil
	}
	return &s
}

func parseDate(v string) *time.Time {
	if v == "" || v == "N/A" {
		return nil
	}
	t, err := time.Parse("02 Jan 2006", v)
	if err != nil {
		t, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return nil
		}
	}
	t = t.UTC()
	return &t
}

// leadingDigits handles series year ranges like "2008-2013".
func leadingDigits(v string) string {
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return v[:i]
		}
	}
	return v
}

func optString(v string) *string {
	if v == "" || v == "N/A" {
		return nil
	}
	return &v
}
