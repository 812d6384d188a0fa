// Package journal implements travel journals with typed subsections.
package journal

import (
	"errors"
	"strings"
	"time"
)

// ErrJournalNotFound is returned when a journal does not exist or does
// not belong to the requesting user.
var ErrJournalNotFound = errors.New("journal not found")

// Field limits.
const (
	MaxTitleLength       = 120
	MaxDestinationLength = 120
	MaxBodyLength        = 20000
	MaxSubsections       = 50
	MaxRouteWaypoints    = 100

	MinRating = 1
	MaxRating = 5
)

// Visibility controls who can see a journal.
type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

// ParseVisibility maps free text onto a Visibility. The second return
// value reports whether the input was recognized.
func ParseVisibility(s string) (Visibility, bool) {
	switch Visibility(strings.ToUpper(strings.TrimSpace(s))) {
	case VisibilityPrivate:
		return VisibilityPrivate, true
	case VisibilityPublic:
		return VisibilityPublic, true
	default:
		return "", false
	}
}

// SubsectionType tags a subsection variant.
type SubsectionType string

const (
	SubsectionSightseeing SubsectionType = "SIGHTSEEING"
	SubsectionActivity    SubsectionType = "ACTIVITY"
	SubsectionRoute       SubsectionType = "ROUTE"
)

// Difficulty grades an activity subsection.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "EASY"
	DifficultyModerate Difficulty = "MODERATE"
	DifficultyHard     Difficulty = "HARD"
)

// ParseDifficulty maps free text onto a Difficulty. The second return
// value reports whether the input was recognized.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToUpper(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyModerate:
		return DifficultyModerate, true
	case DifficultyHard:
		return DifficultyHard, true
	default:
		return "", false
	}
}

// Point represents a geographic coordinate on a journal route.
type Point struct {
	Lat float64
	Lon float64
}

// SightseeingDetails is the SIGHTSEEING variant payload.
type SightseeingDetails struct {
	Place  string
	Rating int
}

// ActivityDetails is the ACTIVITY variant payload. Times are local clock
// times in HH:mm.
type ActivityDetails struct {
	StartTime  string
	EndTime    string
	Difficulty Difficulty
}

// RouteDetails is the ROUTE variant payload.
type RouteDetails struct {
	DistanceKm      float64
	DurationMinutes int
	Waypoints       []Point
}

// Subsection is one typed section of a journal. Exactly the variant
// named by Type is populated; callers dispatch on the tag.
type Subsection struct {
	ID    string
	Type  SubsectionType
	Title string
	Body  string

	Sightseeing *SightseeingDetails
	Activity    *ActivityDetails
	Route       *RouteDetails
}

// Journal is a user's travel journal with ordered typed subsections.
type Journal struct {
	ID          string
	UserID      string
	Title       string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Visibility  Visibility
	Subsections []Subsection
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
