package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/example/filmora/internal/uploads"
)

func TestUploadAuth(t *testing.T) {
	signer := uploads.NewSigner("private-key")
	handler := UploadAuth(signer)

	req := setupReq(http.MethodGet, "/uploads/auth", "", nil, "user-a")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var p uploads.AuthParams
	if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if !signer.Verify(p) {
		t.Fatalf("issued credential does not verify: %+v", p)
	}
}

func TestUploadAuth_Unauthorized(t *testing.T) {
	handler := UploadAuth(uploads.NewSigner("k"))

	req := setupReq(http.MethodGet, "/uploads/auth", "", nil, "")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
