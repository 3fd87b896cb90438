// Package auth verifies bearer credentials and carries the resolved
// identity through the request context. The catalog treats the token
// subject as the owning user of every record it touches.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/example/filmora/internal/platform/api"
	"github.com/example/filmora/internal/platform/httpserver"
)

// Identity is the verified caller identity extracted from a bearer credential.
type Identity struct {
	SubjectID string
	SessionID string
	Email     string
}

type ctxKeyIdentity struct{}

// IdentityFromContext returns the identity injected by RequireUser.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKeyIdentity{}).(Identity)
	return v, ok
}

// OwnerIDFromContext returns the authenticated subject id, the owner id
// used to scope every catalog operation.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.SubjectID, ok && id.SubjectID != ""
}

// WithIdentity injects an identity into context. Useful for testing.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, id)
}

// Claims are the token claims the service cares about.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Verifier resolves a bearer credential into an Identity.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// JWTVerifier verifies HS256 tokens issued by the identity provider.
type JWTVerifier struct {
	Secret []byte
}

func (v JWTVerifier) Verify(tokenString string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return v.Secret, nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, errors.New("token missing subject")
	}
	return Identity{
		SubjectID: claims.Subject,
		SessionID: claims.SessionID,
		Email:     claims.Email,
	}, nil
}

// RequireUser validates the Authorization header and injects the resolved
// identity into the request context.
func RequireUser(verifier Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := httpserver.RequestIDFromContext(r.Context())

			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if authz == "" {
				api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", rid)
				return
			}
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", rid)
				return
			}
			id, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				api.Unauthorized(w, "AUTH_INVALID", "Invalid or expired token", rid)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
