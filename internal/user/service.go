package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
)

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Errors []models.FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation failed"
}

// Service provides user profile operations.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureProfile creates a default profile for the user if none exists.
// Called after registration so every account has a profile row.
func (s *Service) EnsureProfile(ctx context.Context, userID, locale string) (*Profile, error) {
	existing, err := s.repo.Get(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	profile := DefaultProfile(userID, locale)
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// GetMe retrieves the user's profile, creating a default one if the
// account predates profile rows.
func (s *Service) GetMe(ctx context.Context, userID string) (*models.Me, error) {
	profile, err := s.EnsureProfile(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	return toAPIMe(profile), nil
}

// UpdateMe updates the user's profile. Absent fields are left unchanged.
func (s *Service) UpdateMe(ctx context.Context, userID string, input *models.MeInput) (*models.Me, error) {
	if fieldErrs := validateMeInput(input); len(fieldErrs) > 0 {
		return nil, &ValidationError{Errors: fieldErrs}
	}

	profile, err := s.EnsureProfile(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.HomeBase != nil {
		profile.HomeBase = strings.TrimSpace(*input.HomeBase)
	}
	if input.Locale != nil {
		profile.Locale = *input.Locale
	}
	profile.UpdatedAt = time.Now()

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	return toAPIMe(profile), nil
}

// DeleteProfile deletes the user's profile.
func (s *Service) DeleteProfile(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

func validateMeInput(input *models.MeInput) []models.FieldError {
	var fieldErrs []models.FieldError

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			fieldErrs = append(fieldErrs, models.FieldError{
				Field:   "displayName",
				Code:    "REQUIRED",
				Message: "displayName must not be blank",
			})
		} else if len(name) > MaxDisplayNameLength {
			fieldErrs = append(fieldErrs, models.FieldError{
				Field:   "displayName",
				Code:    "TOO_LONG",
				Message: fmt.Sprintf("displayName must be at most %d characters", MaxDisplayNameLength),
			})
		}
	}

	if input.HomeBase != nil && len(strings.TrimSpace(*input.HomeBase)) > MaxHomeBaseLength {
		fieldErrs = append(fieldErrs, models.FieldError{
			Field:   "homeBase",
			Code:    "TOO_LONG",
			Message: fmt.Sprintf("homeBase must be at most %d characters", MaxHomeBaseLength),
		})
	}

	if input.Locale != nil && *input.Locale == "" {
		fieldErrs = append(fieldErrs, models.FieldError{
			Field:   "locale",
			Code:    "REQUIRED",
			Message: "locale must not be empty",
		})
	}

	return fieldErrs
}

func toAPIMe(p *Profile) *models.Me {
	return &models.Me{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		HomeBase:    p.HomeBase,
		Locale:      p.Locale,
		CreatedAt:   models.Timestamp(p.CreatedAt),
		UpdatedAt:   models.Timestamp(p.UpdatedAt),
	}
}
