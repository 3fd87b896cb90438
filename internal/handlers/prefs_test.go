package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/example/filmora/internal/prefs"
)

func newPrefsService() *prefs.Service {
	return prefs.NewService(prefs.NewMemoryStore())
}

func TestGetPreferences_NeverSaved(t *testing.T) {
	handler := GetPreferences(newPrefsService(), &Errors{})

	req := setupReq(http.MethodGet, "/preferences", "", nil, "user-a")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "null" {
		t.Fatalf("body = %q, want null", body)
	}
}

func TestUpdateAndGetPreferences(t *testing.T) {
	svc := newPrefsService()

	req := setupReq(http.MethodPut, "/preferences", `{"theme":"sunset","accent_color":"#F0A"}`, nil, "user-a")
	rr := httptest.NewRecorder()
	UpdatePreferences(svc, &Errors{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var p prefs.Preference
	if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Theme != "sunset" {
		t.Errorf("theme = %q", p.Theme)
	}
	if p.AccentColor == nil || *p.AccentColor != "#ff00aa" {
		t.Errorf("accent = %v, want normalized #ff00aa", p.AccentColor)
	}

	req = setupReq(http.MethodGet, "/preferences", "", nil, "user-a")
	rr = httptest.NewRecorder()
	GetPreferences(svc, &Errors{}).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Theme != "sunset" {
		t.Errorf("persisted theme = %q", p.Theme)
	}
}

func TestUpdatePreferences_BadTheme(t *testing.T) {
	handler := UpdatePreferences(newPrefsService(), &Errors{})

	req := setupReq(http.MethodPut, "/preferences", `{"theme":"neon"}`, nil, "user-a")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if code := errorCode(t, rr.Body); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %q", code)
	}
}

func TestUpdatePreferences_BadAccent(t *testing.T) {
	handler := UpdatePreferences(newPrefsService(), &Errors{})

	req := setupReq(http.MethodPut, "/preferences", `{"theme":"dark","accent_color":"red"}`, nil, "user-a")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPreferences_Unauthorized(t *testing.T) {
	req := setupReq(http.MethodGet, "/preferences", "", nil, "")
	rr := httptest.NewRecorder()
	GetPreferences(newPrefsService(), &Errors{}).ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
