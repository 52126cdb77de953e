// entity.go

package user

import (
	"time"

	"github.com/InnoTechI/skillx-api/internal/auth"
)

// User is the stored credential record. Email is persisted lowercase
// and unique case-insensitively; the hash never leaves this package
// except through the auth bridge. Records are never deleted, only
// deactivated.
type User struct {
	ID              string    `db:"id"`
	Email           string    `db:"email"`
	PasswordHash    string    `db:"password_hash"`
	FirstName       string    `db:"first_name"`
	LastName        string    `db:"last_name"`
	Phone           *string   `db:"phone"`
	Role            auth.Role `db:"role"`
	IsEmailVerified bool      `db:"is_email_verified"`
	IsActive        bool      `db:"is_active"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdminClass() bool {
	return u.Role.IsAdminClass()
}

// ClientCounts summarizes the client base for reporting.
type ClientCounts struct {
	Total  int `db:"total"`
	Active int `db:"active"`
}
