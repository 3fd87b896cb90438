package omdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

const detailBody = `{
  "Title": "Blade Runner",
  "Year": "1982",
  "Released": "25 Jun 1982",
  "Runtime": "117 min",
  "Director": "Ridley Scott",
  "Plot": "A blade runner must pursue replicants.",
  "Country": "United States",
  "Poster": "https://img.example/poster.jpg",
  "BoxOffice": "$32,914,489",
  "imdbID": "tt0083658",
  "Response": "True"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-key"), srv
}

func TestDetailsMapsFields(t *testing.T) {
	var gotQuery map[string]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"apikey": r.URL.Query().Get("apikey"),
			"i":      r.URL.Query().Get("i"),
			"plot":   r.URL.Query().Get("plot"),
		}
		w.Write([]byte(detailBody))
	})

	patch, err := c.Details(context.Background(), "tt0083658")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if gotQuery["apikey"] != "test-key" || gotQuery["i"] != "tt0083658" || gotQuery["plot"] != "full" {
		t.Errorf("query = %v", gotQuery)
	}
	if patch.Title == nil || *patch.Title != "Blade Runner" {
		t.Errorf("title = %v", patch.Title)
	}
	if patch.DurationMinutes == nil || *patch.DurationMinutes != 117 {
		t.Errorf("duration = %v", patch.DurationMinutes)
	}
	if patch.Budget == nil || *patch.Budget != "32914489" {
		t.Errorf("budget = %v", patch.Budget)
	}
	if patch.ReleaseYear == nil || *patch.ReleaseYear != 1982 {
		t.Errorf("year = %v", patch.ReleaseYear)
	}
	want := time.Date(1982, 6, 25, 0, 0, 0, 0, time.UTC)
	if patch.ReleaseDate == nil || !patch.ReleaseDate.Equal(want) {
		t.Errorf("release date = %v", patch.ReleaseDate)
	}
	if patch.Location == nil || *patch.Location != "United States" {
		t.Errorf("location = %v", patch.Location)
	}
	if patch.ExternalID == nil || *patch.ExternalID != "tt0083658" {
		t.Errorf("external id = %v", patch.ExternalID)
	}
}

func TestDetailsNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
	})

	_, err := c.Details(context.Background(), "nope")
	if !errors.Is(err, ErrUpstreamNotFound) {
		t.Fatalf("err = %v, want ErrUpstreamNotFound", err)
	}
}

func TestDetailsUpstreamStatusError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Details(context.Background(), "tt0083658")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestDetailsNASentinels(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Title":"Obscure","Poster":"N/A","Director":"N/A","BoxOffice":"N/A","Runtime":"N/A","Response":"True","imdbID":"tt1"}`))
	})

	patch, err := c.Details(context.Background(), "tt1")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if patch.PosterURL != nil || patch.Director != nil || patch.Budget != nil || patch.DurationMinutes != nil {
		t.Errorf("N/A fields leaked: %+v", patch)
	}
}

func TestSearchMapsItems(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("s"); got != "blade" {
			t.Errorf("s = %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q", got)
		}
		w.Write([]byte(`{
		  "Search": [
		    {"Title":"Blade Runner","Year":"1982","imdbID":"tt0083658","Type":"movie","Poster":"https://img.example/p.jpg"},
		    {"Title":"Blade","Year":"1998-2002","imdbID":"tt0120611","Type":"series","Poster":"N/A"}
		  ],
		  "totalResults": "12",
		  "Response": "True"
		}`))
	})

	res, err := c.Search(context.Background(), SearchParams{Query: "blade", Page: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Total != 12 || res.Page != 2 || len(res.Items) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Items[0].Year == nil || *res.Items[0].Year != 1982 {
		t.Errorf("year = %v", res.Items[0].Year)
	}
	if res.Items[1].Year == nil || *res.Items[1].Year != 1998 {
		t.Errorf("range year = %v", res.Items[1].Year)
	}
	if res.Items[1].PosterURL != nil {
		t.Errorf("N/A poster leaked: %v", *res.Items[1].PosterURL)
	}
}

func TestSearchNoResults(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})

	_, err := c.Search(context.Background(), SearchParams{Query: "zzz"})
	if !errors.Is(err, ErrUpstreamNotFound) {
		t.Fatalf("err = %v, want ErrUpstreamNotFound", err)
	}
}

func TestBreakerOpensOnConsecutiveFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "omdb",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	})
	c := New(srv.URL, "k", WithCircuitBreaker(cb))

	for i := 0; i < 5; i++ {
		if _, err := c.Details(context.Background(), "tt1"); !errors.Is(err, ErrUpstreamUnavailable) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	if calls != 2 {
		t.Fatalf("upstream saw %d calls, want 2 before the breaker opened", calls)
	}
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	}))
	t.Cleanup(srv.Close)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "omdb",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	})
	c := New(srv.URL, "k", WithCircuitBreaker(cb))

	for i := 0; i < 5; i++ {
		if _, err := c.Details(context.Background(), "tt1"); !errors.Is(err, ErrUpstreamNotFound) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	if calls != 5 {
		t.Fatalf("upstream saw %d calls, want all 5", calls)
	}
}

func TestParseRuntime(t *testing.T) {
	cases := map[string]*int{
		"117 min": intp(117),
		"90min":   intp(90),
		"N/A":     nil,
		"":        nil,
		"min 90":  nil,
	}
	for in, want := range cases {
		got := parseRuntime(in)
		switch {
		case want == nil && got != nil:
			t.Errorf("parseRuntime(%q) = %d, want nil", in, *got)
		case want != nil && (got == nil || *got != *want):
			t.Errorf("parseRuntime(%q) = %v, want %d", in, got, *want)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(1982, 6, 25, 0, 0, 0, 0, time.UTC)
	cases := map[string]*time.Time{
		"25 Jun 1982":          &want,
		"1982-06-25T00:00:00Z": &want,
		"N/A":                  nil,
		"":                     nil,
		"yesterday":            nil,
	}
	for in, wantT := range cases {
		got := parseDate(in)
		switch {
		case wantT == nil && got != nil:
			t.Errorf("parseDate(%q) = %v, want nil", in, got)
		case wantT != nil && (got == nil || !got.Equal(*wantT)):
			t.Errorf("parseDate(%q) = %v, want %v", in, got, wantT)
		}
	}
}

func intp(n int) *int { return &n }
