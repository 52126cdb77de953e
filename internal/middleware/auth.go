// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/InnoTechI/skillx-api/internal/core"
)

const (
	IdentityKey  contextKey = "identity"
	UserIDKey    contextKey = "user_id"
	UserRoleKey  contextKey = "user_role"
	UserEmailKey contextKey = "user_email"
)

// Identity is the authenticated caller for one request, resolved from
// the credential store, never from token claims alone.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IdentityResolver turns a bearer token into an identity. It re-loads
// the account on every call so deactivation and role changes take
// effect on the next request.
type IdentityResolver interface {
	ResolveToken(ctx context.Context, token string) (*Identity, error)
}

// Authenticator rejects requests without a usable identity. A missing
// or malformed Authorization header, and a token whose subject no
// longer resolves to an active account, are unauthenticated; a token
// that fails verification is an invalid-token error. The two carry
// distinct codes.
func Authenticator(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(w, core.NotAuthenticatedError())
				return
			}

			identity, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth resolves an identity when a valid token is present but
// lets anonymous requests through untouched.
func OptionalAuth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				if identity, err := resolver.ResolveToken(r.Context(), token); err == nil {
					r = r.WithContext(withIdentity(r.Context(), identity))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a subtree to the given roles. No identity is a
// 401; an identity with a role outside the set is a 403. The two must
// never be conflated.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetUserRole(r.Context())

			if userRole == "" {
				core.JSONError(w, core.NotAuthenticatedError())
				return
			}

			if _, ok := roleSet[userRole]; !ok {
				core.JSONError(w, core.InsufficientPermissionsError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin admits both back-office roles.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole("admin", "super_admin")(next)
}

func RequireSuperAdmin(next http.Handler) http.Handler {
	return RequireRole("super_admin")(next)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.NotAuthenticatedError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func withIdentity(ctx context.Context, identity *Identity) context.Context {
	ctx = context.WithValue(ctx, IdentityKey, identity)
	ctx = context.WithValue(ctx, UserIDKey, identity.UserID)
	ctx = context.WithValue(ctx, UserRoleKey, identity.Role)
	ctx = context.WithValue(ctx, UserEmailKey, identity.Email)
	return ctx
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}

func IsAdminClass(ctx context.Context) bool {
	return AdminClassRole(GetUserRole(ctx))
}
