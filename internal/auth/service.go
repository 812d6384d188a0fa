package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Predefined service errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// FindByEmail finds a user by their email address.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create creates a new user. Returns ErrEmailTaken if the email is
	// already registered.
	Create(ctx context.Context, user *User) error

	// FindByID finds a user by their internal ID.
	FindByID(ctx context.Context, id string) (*User, error)
}

// RefreshTokenRepository defines the interface for refresh token operations.
type RefreshTokenRepository interface {
	// Create stores a new refresh token.
	Create(ctx context.Context, token *RefreshToken) error

	// FindByToken finds a refresh token by its value.
	FindByToken(ctx context.Context, token string) (*RefreshToken, error)

	// Revoke marks a refresh token as revoked.
	Revoke(ctx context.Context, token string) error

	// RevokeAllForUser revokes all refresh tokens for a user.
	RevokeAllForUser(ctx context.Context, userID string) error
}

// Service provides authentication operations.
type Service struct {
	jwtService    *JWTService
	userRepo      UserRepository
	refreshRepo   RefreshTokenRepository
	defaultLocale string
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	JWTService    *JWTService
	UserRepo      UserRepository
	RefreshRepo   RefreshTokenRepository
	DefaultLocale string
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	locale := cfg.DefaultLocale
	if locale == "" {
		locale = "en-US"
	}

	return &Service{
		jwtService:    cfg.JWTService,
		userRepo:      cfg.UserRepo,
		refreshRepo:   cfg.RefreshRepo,
		defaultLocale: locale,
	}
}

// ValidationError represents validation errors on an auth request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Register creates a new account and returns API tokens.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	email := normalizeEmail(req.Email)
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	locale := req.Locale
	if locale == "" {
		locale = s.defaultLocale
	}

	now := time.Now()
	user := &User{
		ID:           generateUserID(),
		Email:        email,
		PasswordHash: hash,
		Locale:       locale,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.generateTokens(ctx, user)
}

// Login authenticates an email/password pair and returns API tokens.
// The same error is returned for an unknown email and a wrong password
// so callers cannot probe which addresses are registered.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, user)
}

// RefreshAccessToken refreshes an access token using a refresh token.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshTokenStr string) (*TokenResponse, error) {
	// Find the refresh token
	refreshToken, err := s.refreshRepo.FindByToken(ctx, refreshTokenStr)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// Check if token is valid
	if refreshToken.RevokedAt != nil {
		return nil, ErrInvalidRefreshToken
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		return nil, ErrRefreshTokenExpired
	}

	// Get the user
	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// Revoke the old refresh token (rotation)
	if err := s.refreshRepo.Revoke(ctx, refreshTokenStr); err != nil {
		return nil, fmt.Errorf("revoking old refresh token: %w", err)
	}

	// Generate new tokens
	return s.generateTokens(ctx, user)
}

// ValidateAccessToken validates an access token and returns the user ID.
func (s *Service) ValidateAccessToken(tokenString string) (string, error) {
	claims, err := s.jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// RevokeRefreshToken revokes a specific refresh token.
func (s *Service) RevokeRefreshToken(ctx context.Context, refreshTokenStr string) error {
	return s.refreshRepo.Revoke(ctx, refreshTokenStr)
}

// RevokeAllTokens revokes all refresh tokens for a user (logout everywhere).
func (s *Service) RevokeAllTokens(ctx context.Context, userID string) error {
	return s.refreshRepo.RevokeAllForUser(ctx, userID)
}

// generateTokens generates both access and refresh tokens for a user.
func (s *Service) generateTokens(ctx context.Context, user *User) (*TokenResponse, error) {
	// Generate access token
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	// Generate refresh token
	refreshTokenStr, err := GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	// Store refresh token
	refreshToken := &RefreshToken{
		ID:        uuid.New().String(),
		Token:     refreshTokenStr,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(RefreshTokenExpiry),
		CreatedAt: time.Now(),
	}

	if err := s.refreshRepo.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(expiresAt).Seconds()),
		RefreshToken: refreshTokenStr,
		User:         user,
	}, nil
}

// normalizeEmail lower-cases and trims an email address so lookups are
// case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateUserID generates a unique user ID with prefix.
func generateUserID() string {
	return "usr_" + uuid.New().String()[:22]
}
