// Package user provides user profile management.
//
// A profile is the public-facing half of an account: the display name
// shown on posts and journals, an optional home base, and the locale
// used for formatting. Credentials live in the auth package; the
// profile row shares the account's usr_ identifier.
package user

import (
	"errors"
	"time"
)

// Profile field limits.
const (
	MaxDisplayNameLength = 60
	MaxHomeBaseLength    = 120
)

var (
	// ErrProfileNotFound is returned when no profile exists for a user.
	ErrProfileNotFound = errors.New("profile not found")
)

// Profile represents a user's public profile and settings.
type Profile struct {
	// UserID is the owning account's identifier (format: usr_XXXX).
	UserID string

	// DisplayName is the name shown alongside the user's content.
	DisplayName string

	// HomeBase is a free-text home location, e.g. "Lisbon, Portugal".
	// May be empty.
	HomeBase string

	// Locale is the user's preferred language/region (BCP 47, e.g. "en-US").
	Locale string

	// CreatedAt is when the profile was created.
	CreatedAt time.Time

	// UpdatedAt is when the profile was last updated.
	UpdatedAt time.Time
}

// DefaultProfile returns a new profile with default settings.
// The display name falls back to the user ID until the user sets one.
func DefaultProfile(userID, locale string) *Profile {
	if locale == "" {
		locale = "en-US"
	}
	now := time.Now()
	return &Profile{
		UserID:      userID,
		DisplayName: userID,
		Locale:      locale,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
