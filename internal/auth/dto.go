// dto.go

package auth

import (
	"time"
)

// Required-field and password-length checks live in the service so the
// MISSING_REQUIRED_FIELDS and WEAK_PASSWORD codes are preserved; the
// validator tags only guard formats and bounds.
type RegisterRequest struct {
	Email     string  `json:"email"     validate:"omitempty,email,max=255"`
	Password  string  `json:"password"  validate:"omitempty,max=128"`
	FirstName string  `json:"firstName" validate:"omitempty,max=100"`
	LastName  string  `json:"lastName"  validate:"omitempty,max=100"`
	Phone     *string `json:"phone"     validate:"omitempty,max=32"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"`
}

type UserResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	FullName        string    `json:"fullName"`
	Phone           *string   `json:"phone,omitempty"`
	Role            Role      `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

type AuthResponse struct {
	User   UserResponse `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullName:        u.FullName(),
		Phone:           u.Phone,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
		IsActive:        u.IsActive,
		CreatedAt:       u.CreatedAt,
	}
}
