// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/InnoTechI/skillx-api/internal/core"
	"github.com/InnoTechI/skillx-api/internal/middleware"
)

const minPasswordLength = 8

// Login role hints. "user" and "admin" are the only values the API
// accepts; they are coarser than the stored roles on purpose.
const (
	roleHintUser  = "user"
	roleHintAdmin = "admin"
)

type Service struct {
	jwt   *TokenManager
	users UserProvider
}

func NewService(jwt *TokenManager, users UserProvider) *Service {
	return &Service{
		jwt:   jwt,
		users: users,
	}
}

// RegisterClient creates a client account. Clients start unverified.
func (s *Service) RegisterClient(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	return s.register(ctx, req, false)
}

// RegisterAdmin creates an admin-class account. The very first
// admin-class account in the system becomes super_admin; every later
// one is a plain admin. Admin accounts are trusted at creation, so
// they start email-verified.
func (s *Service) RegisterAdmin(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	return s.register(ctx, req, true)
}

func (s *Service) register(
	ctx context.Context,
	req RegisterRequest,
	adminClass bool,
) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" ||
		req.FirstName == "" || req.LastName == "" {
		return nil, core.MissingFieldsError()
	}

	if len(req.Password) < minPasswordLength {
		return nil, core.WeakPasswordError()
	}

	email := normalizeEmail(req.Email)

	// Pre-check then insert is racy; the unique index on lower(email)
	// is the real guarantee and an insert-time violation maps to the
	// same USER_ALREADY_EXISTS below.
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, core.DuplicateUserError()
	}

	role := RoleClient
	verified := false
	if adminClass {
		count, countErr := s.users.CountAdmins(ctx)
		if countErr != nil {
			return nil, fmt.Errorf("count admins: %w", countErr)
		}
		if count == 0 {
			role = RoleSuperAdmin
		} else {
			role = RoleAdmin
		}
		verified = true
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, CreateUserParams{
		Email:           email,
		PasswordHash:    passwordHash,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Phone:           req.Phone,
		Role:            role,
		IsEmailVerified: verified,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateUserError()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueAuthResponse(user)
}

// Login verifies credentials and applies the role-hint decision table:
// hint "admin" admits admin and super_admin, hint "user" admits only
// clients, no hint admits any account.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, core.InvalidCredentialsError()
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, core.InvalidCredentialsError()
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.users.UpdatePassword(ctx, user.ID, newHash)
	}

	switch req.Role {
	case roleHintAdmin:
		if !user.Role.IsAdminClass() {
			return nil, core.InsufficientPrivilegesError()
		}
	case roleHintUser:
		if user.Role != RoleClient {
			return nil, core.InsufficientPrivilegesError()
		}
	}

	return s.issueAuthResponse(user)
}

// Refresh rotates a token pair. A refresh token that does not verify
// or lacks the marker is a controlled 401; a subject pointing at a
// missing or deactivated account is a 404 so stale tokens cannot mint
// access for dead accounts. The old refresh token is not revoked: the
// tokens are stateless and replay of a stale-but-unexpired refresh
// token remains possible until expiry.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*TokenPair, error) {
	subject, ok := s.jwt.VerifyRefreshToken(ctx, refreshToken)
	if !ok {
		return nil, core.InvalidRefreshTokenError()
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.UserNotFoundError()
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive {
		return nil, core.UserNotFoundError()
	}

	return s.issueTokenPair(user)
}

// ResolveToken backs the authentication gate: verify the access token,
// then re-load the account so role changes and deactivation take
// effect on the very next request. No caching.
func (s *Service) ResolveToken(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("resolve token: %w", core.ErrUnauthorized)
		}
		return nil, fmt.Errorf("resolve token: %w", err)
	}

	if !user.IsActive {
		return nil, fmt.Errorf(
			"resolve token: account deactivated: %w",
			core.ErrUnauthorized,
		)
	}

	return &middleware.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	}, nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *Service) issueAuthResponse(user *UserInfo) (*AuthResponse, error) {
	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:   toUserResponse(user),
		Tokens: *pair,
	}, nil
}

func (s *Service) issueTokenPair(user *UserInfo) (*TokenPair, error) {
	accessToken, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshToken, err := s.jwt.CreateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwt.AccessTokenTTL() / time.Second),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ middleware.IdentityResolver = (*Service)(nil)
