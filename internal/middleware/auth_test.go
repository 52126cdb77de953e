// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InnoTechI/skillx-api/internal/core"
)

// stubResolver maps token strings to identities or errors.
type stubResolver struct {
	identities map[string]*Identity
	errs       map[string]error
}

func (s *stubResolver) ResolveToken(_ context.Context, token string) (*Identity, error) {
	if err, ok := s.errs[token]; ok {
		return nil, err
	}
	if identity, ok := s.identities[token]; ok {
		return identity, nil
	}
	return nil, fmt.Errorf("stub: %w", core.ErrUnauthorized)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) core.Envelope {
	t.Helper()

	var env core.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestExtractToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", ""},
		{"bearer token", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
		{"padded token", "Bearer   abc123", "abc123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.want, ExtractToken(req))
		})
	}
}

func TestAuthenticator(t *testing.T) {
	t.Parallel()

	resolver := &stubResolver{
		identities: map[string]*Identity{
			"good": {UserID: "u1", Email: "u1@test.com", Role: "client"},
		},
		errs: map[string]error{
			"expired": fmt.Errorf("verify: %w", core.ErrTokenExpired),
			"invalid": fmt.Errorf("verify: %w", core.ErrTokenInvalid),
			"orphan":  fmt.Errorf("resolve: %w", core.ErrUnauthorized),
		},
	}

	var seen *Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticator(resolver)(inner)

	cases := []struct {
		name       string
		token      string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, core.CodeNotAuthenticated},
		{"invalid token", "invalid", http.StatusUnauthorized, core.CodeInvalidToken},
		{"expired token", "expired", http.StatusUnauthorized, core.CodeInvalidToken},
		{"subject without account", "orphan", http.StatusUnauthorized, core.CodeNotAuthenticated},
		{"valid token", "good", http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)

			if tc.wantCode != "" {
				env := decodeEnvelope(t, rec)
				assert.Equal(t, tc.wantCode, env.ErrorCode)
				assert.Nil(t, seen)
				return
			}

			require.NotNil(t, seen)
			assert.Equal(t, "u1", seen.UserID)
			assert.Equal(t, "client", seen.Role)
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	gate := RequireRole("admin", "super_admin")(okHandler())

	cases := []struct {
		name       string
		identity   *Identity
		wantStatus int
		wantCode   string
	}{
		{
			name:       "anonymous is 401",
			identity:   nil,
			wantStatus: http.StatusUnauthorized,
			wantCode:   core.CodeNotAuthenticated,
		},
		{
			name:       "client is 403",
			identity:   &Identity{UserID: "c1", Role: "client"},
			wantStatus: http.StatusForbidden,
			wantCode:   core.CodeInsufficientPermissions,
		},
		{
			name:       "admin passes",
			identity:   &Identity{UserID: "a1", Role: "admin"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "super_admin passes",
			identity:   &Identity{UserID: "s1", Role: "super_admin"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.identity != nil {
				req = req.WithContext(withIdentity(req.Context(), tc.identity))
			}

			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantCode != "" {
				env := decodeEnvelope(t, rec)
				assert.Equal(t, tc.wantCode, env.ErrorCode)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	resolver := &stubResolver{
		identities: map[string]*Identity{
			"good": {UserID: "u1", Role: "client"},
		},
	}

	var seen *Identity
	handler := OptionalAuth(resolver)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			seen = GetIdentity(r.Context())
			w.WriteHeader(http.StatusOK)
		},
	))

	// Anonymous passes through without identity.
	seen = nil
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)

	// A bad token is ignored rather than rejected.
	seen = nil
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)

	// A good token attaches the identity.
	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.UserID)
}

func TestIdentityContextAccessors(t *testing.T) {
	t.Parallel()

	ctx := withIdentity(context.Background(), &Identity{
		UserID: "u1",
		Email:  "u1@test.com",
		Role:   "admin",
	})

	assert.Equal(t, "u1", GetUserID(ctx))
	assert.Equal(t, "u1@test.com", GetUserEmail(ctx))
	assert.Equal(t, "admin", GetUserRole(ctx))
	assert.True(t, IsAuthenticated(ctx))
	assert.True(t, IsAdminClass(ctx))

	empty := context.Background()
	assert.Empty(t, GetUserID(empty))
	assert.False(t, IsAuthenticated(empty))
	assert.False(t, IsAdminClass(empty))
}
