// jwt_test.go

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InnoTechI/skillx-api/internal/config"
	"github.com/InnoTechI/skillx-api/internal/core"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:       "test-access-secret-test-access-secret",
		RefreshSecret:      "test-refresh-secret-test-refresh-secret",
		AccessTokenExpire:  time.Hour,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "skillx-api",
		Audience:           "skillx",
	}
}

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()

	manager, err := NewTokenManager(testJWTConfig())
	require.NoError(t, err)
	return manager
}

func TestNewTokenManager_MissingAccessSecret(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	cfg.AccessSecret = ""

	_, err := NewTokenManager(cfg)
	require.Error(t, err)
}

func TestNewTokenManager_DefaultExpiries(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	cfg.AccessTokenExpire = 0
	cfg.RefreshTokenExpire = 0

	manager, err := NewTokenManager(cfg)
	require.NoError(t, err)

	assert.Equal(t, 168*time.Hour, manager.AccessTokenTTL())
	assert.Equal(t, 720*time.Hour, manager.RefreshTokenTTL())
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)
	ctx := context.Background()

	tokenString, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "user-123",
		Email:  "a@test.com",
		Role:   RoleClient,
	})
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := manager.VerifyAccessToken(ctx, tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "a@test.com", claims.Email)
	assert.Equal(t, RoleClient, claims.Role)
}

func TestVerifyAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)

	otherCfg := testJWTConfig()
	otherCfg.AccessSecret = "a-completely-different-signing-secret"
	other, err := NewTokenManager(otherCfg)
	require.NoError(t, err)

	tokenString, err := other.CreateAccessToken(AccessTokenClaims{UserID: "u1"})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), tokenString)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	manager, err := NewTokenManager(cfg)
	require.NoError(t, err)

	key, err := jwk.Import([]byte(cfg.AccessSecret))
	require.NoError(t, err)

	now := time.Now()
	expired, err := jwt.NewBuilder().
		Issuer(cfg.Issuer).
		Audience([]string{cfg.Audience}).
		Subject("user-123").
		IssuedAt(now.Add(-2 * time.Hour)).
		Expiration(now.Add(-time.Hour)).
		Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(expired, jwt.WithKey(jwa.HS256(), key))
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), string(signed))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenExpired))
}

func TestVerifyAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)

	_, err := manager.VerifyAccessToken(context.Background(), "not.a.jwt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestVerifyAccessToken_RejectsRefreshToken(t *testing.T) {
	t.Parallel()

	// With a shared secret the only thing keeping a refresh token out
	// of the access path is the refresh marker.
	cfg := testJWTConfig()
	cfg.RefreshSecret = ""
	manager, err := NewTokenManager(cfg)
	require.NoError(t, err)

	refreshToken, err := manager.CreateRefreshToken("user-123")
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), refreshToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)

	tokenString, err := manager.CreateRefreshToken("user-456")
	require.NoError(t, err)

	subject, ok := manager.VerifyRefreshToken(context.Background(), tokenString)
	require.True(t, ok)
	assert.Equal(t, "user-456", subject)
}

func TestVerifyRefreshToken_RejectsAccessToken(t *testing.T) {
	t.Parallel()

	// An access token signed with the shared secret verifies
	// cryptographically but lacks the refresh marker; the result must
	// be a soft miss, not an error.
	cfg := testJWTConfig()
	cfg.RefreshSecret = ""
	manager, err := NewTokenManager(cfg)
	require.NoError(t, err)

	accessToken, err := manager.CreateAccessToken(AccessTokenClaims{UserID: "u1"})
	require.NoError(t, err)

	_, ok := manager.VerifyRefreshToken(context.Background(), accessToken)
	assert.False(t, ok)
}

func TestVerifyRefreshToken_SoftMissOnGarbage(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)

	_, ok := manager.VerifyRefreshToken(context.Background(), "garbage")
	assert.False(t, ok)
}

func TestRefreshSecret_FallsBackToAccessSecret(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	cfg.RefreshSecret = ""
	fallback, err := NewTokenManager(cfg)
	require.NoError(t, err)

	explicit := testJWTConfig()
	explicit.RefreshSecret = explicit.AccessSecret
	shared, err := NewTokenManager(explicit)
	require.NoError(t, err)

	tokenString, err := fallback.CreateRefreshToken("user-789")
	require.NoError(t, err)

	subject, ok := shared.VerifyRefreshToken(context.Background(), tokenString)
	require.True(t, ok)
	assert.Equal(t, "user-789", subject)
}

func TestRefreshSecret_IndependentRotation(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)

	rotated := testJWTConfig()
	rotated.RefreshSecret = "rotated-refresh-secret-rotated-refresh"
	next, err := NewTokenManager(rotated)
	require.NoError(t, err)

	ctx := context.Background()

	// Rotating only the refresh secret invalidates old refresh tokens
	// while access tokens keep verifying.
	refreshToken, err := manager.CreateRefreshToken("user-1")
	require.NoError(t, err)
	_, ok := next.VerifyRefreshToken(ctx, refreshToken)
	assert.False(t, ok)

	accessToken, err := manager.CreateAccessToken(AccessTokenClaims{UserID: "user-1"})
	require.NoError(t, err)
	_, err = next.VerifyAccessToken(ctx, accessToken)
	assert.NoError(t, err)
}
