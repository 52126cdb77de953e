// types.go

package client

import (
	"encoding/json"
	"fmt"
	"time"
)

// APIError is a non-2xx response decoded from the server envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// IsCode reports whether err is an APIError carrying the given
// machine-readable code.
func IsCode(err error, code string) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == code
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	ErrorCode  string          `json:"error"`
	Pagination *Pagination     `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// User is the sanitized profile the server returns. It never carries
// credential material.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	FullName        string    `json:"fullName"`
	Phone           *string   `json:"phone,omitempty"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"`
}

type authPayload struct {
	User   *User      `json:"user"`
	Tokens *TokenPair `json:"tokens"`
}

type RegisterParams struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type Order struct {
	ID              string    `json:"id"`
	OrderNumber     string    `json:"orderNumber"`
	ClientID        string    `json:"clientId"`
	AssignedAdminID *string   `json:"assignedAdminId,omitempty"`
	ServiceType     string    `json:"serviceType"`
	PackageTier     string    `json:"packageTier"`
	Status          string    `json:"status"`
	AmountCents     int64     `json:"amountCents"`
	Currency        string    `json:"currency"`
	Requirements    string    `json:"requirements,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type CreateOrderParams struct {
	ServiceType  string `json:"serviceType"`
	PackageTier  string `json:"packageTier"`
	Requirements string `json:"requirements,omitempty"`
}

// OrderListOptions filters the order listing. Zero values are
// omitted from the query string.
type OrderListOptions struct {
	Page        int
	PageSize    int
	Status      string
	ServiceType string
}
