// entity.go

package auth

import (
	"context"
	"time"
)

// Role is the closed set of account roles. Anything outside the three
// constants is rejected at the edges; no code compares raw role strings.
type Role string

const (
	RoleClient     Role = "client"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// IsAdminClass reports whether the role grants back-office access.
func (r Role) IsAdminClass() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) String() string {
	return string(r)
}

// UserInfo is the credential-store view the auth flows operate on.
type UserInfo struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	Phone           *string
	PasswordHash    string
	Role            Role
	IsEmailVerified bool
	IsActive        bool
	CreatedAt       time.Time
}

func (u *UserInfo) FullName() string {
	return u.FirstName + " " + u.LastName
}

type CreateUserParams struct {
	Email           string
	PasswordHash    string
	FirstName       string
	LastName        string
	Phone           *string
	Role            Role
	IsEmailVerified bool
}

// UserProvider is the credential store surface consumed by the auth
// flows. The user package implements it.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CountAdmins(ctx context.Context) (int, error)
	Create(ctx context.Context, params CreateUserParams) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
