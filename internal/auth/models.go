// Package auth provides authentication services for Wayfarer.
package auth

import (
	"net/mail"
	"time"
)

// User represents an authenticated user in the system.
type User struct {
	ID           string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never exposed in API
	Locale       string    `json:"locale"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterRequest represents the request body for account registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// Locale is an optional BCP 47 language tag.
	Locale string `json:"locale,omitempty"`
}

// Validate validates the registration request.
func (r *RegisterRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Email == "" {
		errors = append(errors, FieldError{
			Field:   "email",
			Message: "email is required",
			Code:    "REQUIRED",
		})
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errors = append(errors, FieldError{
			Field:   "email",
			Message: "email must be a valid address",
			Code:    "INVALID",
		})
	}

	if r.Password == "" {
		errors = append(errors, FieldError{
			Field:   "password",
			Message: "password is required",
			Code:    "REQUIRED",
		})
	} else if len(r.Password) < MinPasswordLength {
		errors = append(errors, FieldError{
			Field:   "password",
			Message: "password must be at least 8 characters",
			Code:    "TOO_SHORT",
		})
	} else if len(r.Password) > MaxPasswordLength {
		errors = append(errors, FieldError{
			Field:   "password",
			Message: "password must be at most 72 characters",
			Code:    "TOO_LONG",
		})
	}

	return errors
}

// LoginRequest represents the request body for password authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login request.
func (r *LoginRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Email == "" {
		errors = append(errors, FieldError{
			Field:   "email",
			Message: "email is required",
			Code:    "REQUIRED",
		})
	}
	if r.Password == "" {
		errors = append(errors, FieldError{
			Field:   "password",
			Message: "password is required",
			Code:    "REQUIRED",
		})
	}

	return errors
}

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// TokenResponse represents the response after successful authentication.
type TokenResponse struct {
	// AccessToken is the JWT access token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	// RefreshToken is the opaque token used to obtain new access tokens.
	RefreshToken string `json:"refreshToken,omitempty"`

	// User contains the authenticated user's information.
	User *User `json:"user"`
}

// RefreshTokenRequest represents the request to refresh an access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Validate validates the refresh token request.
func (r *RefreshTokenRequest) Validate() []FieldError {
	var errors []FieldError

	if r.RefreshToken == "" {
		errors = append(errors, FieldError{
			Field:   "refreshToken",
			Message: "refresh token is required",
			Code:    "REQUIRED",
		})
	}

	return errors
}
