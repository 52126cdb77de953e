// jwt.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/InnoTechI/skillx-api/internal/config"
	"github.com/InnoTechI/skillx-api/internal/core"
)

const (
	defaultAccessTokenExpire  = 168 * time.Hour
	defaultRefreshTokenExpire = 720 * time.Hour

	// refreshMarker tags refresh tokens so they can never pass access
	// verification, and vice versa.
	refreshMarker = "refresh"
)

// TokenManager issues and verifies the two token kinds using HS256 and
// symmetric secrets. Refresh tokens may use their own secret so it can
// be rotated independently; when unset they share the access secret.
type TokenManager struct {
	accessKey  jwk.Key
	refreshKey jwk.Key
	config     config.JWTConfig
}

func NewTokenManager(cfg config.JWTConfig) (*TokenManager, error) {
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("access token secret is not configured")
	}

	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = cfg.AccessSecret
	}

	if cfg.AccessTokenExpire <= 0 {
		cfg.AccessTokenExpire = defaultAccessTokenExpire
	}

	if cfg.RefreshTokenExpire <= 0 {
		cfg.RefreshTokenExpire = defaultRefreshTokenExpire
	}

	accessKey, err := jwk.Import([]byte(cfg.AccessSecret))
	if err != nil {
		return nil, fmt.Errorf("import access key: %w", err)
	}

	if setErr := accessKey.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set access key algorithm: %w", setErr)
	}

	refreshKey, err := jwk.Import([]byte(cfg.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("import refresh key: %w", err)
	}

	if setErr := refreshKey.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set refresh key algorithm: %w", setErr)
	}

	return &TokenManager{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		config:     cfg,
	}, nil
}

type AccessTokenClaims struct {
	UserID string
	Email  string
	Role   Role
}

func (m *TokenManager) CreateAccessToken(
	claims AccessTokenClaims,
) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		Expiration(now.Add(m.config.AccessTokenExpire)).
		NotBefore(now).
		Claim("role", string(claims.Role)).
		Claim("email", claims.Email).
		Build()
	if err != nil {
		return "", fmt.Errorf("build access token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.accessKey))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return string(signed), nil
}

func (m *TokenManager) CreateRefreshToken(userID string) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(m.config.RefreshTokenExpire)).
		NotBefore(now).
		Claim("type", refreshMarker).
		Build()
	if err != nil {
		return "", fmt.Errorf("build refresh token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.refreshKey))
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	return string(signed), nil
}

// VerifyAccessToken checks signature, validity window, issuer and
// audience, and rejects any token carrying the refresh marker. The
// subject is the contract; role and email claims are informational and
// authorization never trusts them over the credential store.
func (m *TokenManager) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.accessKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err == nil &&
		tokenType == refreshMarker {
		return nil, fmt.Errorf(
			"verify token: refresh token presented as access token: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &AccessTokenClaims{UserID: subject}

	var roleStr string
	if err := token.Get("role", &roleStr); err == nil {
		claims.Role = Role(roleStr)
	}

	var email string
	if err := token.Get("email", &email); err == nil {
		claims.Email = email
	}

	return claims, nil
}

// VerifyRefreshToken yields the subject only when the token verifies
// and carries the refresh marker. Every other outcome is a plain miss,
// never an error, so callers map it to a controlled 401.
func (m *TokenManager) VerifyRefreshToken(
	ctx context.Context,
	tokenString string,
) (string, bool) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.refreshKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		return "", false
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != refreshMarker {
		return "", false
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return "", false
	}

	return subject, true
}

func (m *TokenManager) AccessTokenTTL() time.Duration {
	return m.config.AccessTokenExpire
}

func (m *TokenManager) RefreshTokenTTL() time.Duration {
	return m.config.RefreshTokenExpire
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
