// Package planner generates candidate itineraries with an external LLM
// provider and runs them through the same validation as user-authored trips.
package planner

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrGenerationNotFound is returned when a generation job does not exist
// or does not belong to the requesting user.
var ErrGenerationNotFound = errors.New("generation not found")

// ErrGenerationFailed is returned when the provider call fails or the
// candidate itinerary does not survive validation. The whole candidate is
// rejected; nothing is partially persisted.
var ErrGenerationFailed = errors.New("itinerary generation failed")

// Request bounds.
const (
	MinDays   = 1
	MaxDays   = 7
	MinPeople = 1
	MaxPeople = 1000
)

// BudgetLevel is the traveler's spending appetite passed to the generator.
type BudgetLevel string

const (
	BudgetLow      BudgetLevel = "BUDGET"
	BudgetModerate BudgetLevel = "MODERATE"
	BudgetLuxury   BudgetLevel = "LUXURY"
)

// ParseBudgetLevel maps free text onto a BudgetLevel. The second return
// value reports whether the input was recognized.
func ParseBudgetLevel(s string) (BudgetLevel, bool) {
	switch BudgetLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case BudgetLow:
		return BudgetLow, true
	case BudgetModerate:
		return BudgetModerate, true
	case BudgetLuxury:
		return BudgetLuxury, true
	default:
		return "", false
	}
}

// Status is the lifecycle state of a generation job.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusRunning Status = "RUNNING"
	StatusReady   Status = "READY"
	StatusFailed  Status = "FAILED"
)

// Generation is one itinerary generation job. The API creates it PENDING,
// the worker moves it through RUNNING to READY or FAILED, and clients poll
// it by ID.
type Generation struct {
	ID             string
	UserID         string
	Status         Status
	Location       string
	StartDate      time.Time
	NumberOfDays   int
	BudgetLevel    BudgetLevel
	NumberOfPeople int

	// ItineraryID is set when the job reaches READY.
	ItineraryID *string

	// ErrorMessage is set when the job reaches FAILED.
	ErrorMessage *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndDate is the last day covered by the requested generation.
func (g *Generation) EndDate() time.Time {
	return g.StartDate.AddDate(0, 0, g.NumberOfDays-1)
}

// Candidate is the itinerary shape the generator returns. Dates are
// YYYY-MM-DD strings and activity types are free text; both are checked
// and normalized before the candidate is handed to the trip validator.
type Candidate struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Locations   []CandidatePoint `json:"locations"`
	DayPlans    []CandidateDay   `json:"dayPlans"`
}

// CandidatePoint is a geographic coordinate in a candidate.
type CandidatePoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CandidateDay is one generated day plan.
type CandidateDay struct {
	Date       string              `json:"date"`
	RoutePlan  *CandidateRoute     `json:"routePlan,omitempty"`
	Activities []CandidateActivity `json:"activities"`
	Notes      []string            `json:"notes,omitempty"`
}

// CandidateRoute is a generated route suggestion for a day.
type CandidateRoute struct {
	DistanceKm  float64          `json:"distanceKm"`
	TimeMinutes int              `json:"timeMinutes"`
	Description string           `json:"description,omitempty"`
	Locations   []CandidatePoint `json:"locations"`
}

// CandidateActivity is a generated scheduled activity. Type is free text.
type CandidateActivity struct {
	Location  CandidatePoint  `json:"location"`
	StartTime string          `json:"startTime"`
	EndTime   string          `json:"endTime"`
	Type      string          `json:"type"`
	Note      *string         `json:"note,omitempty"`
	Cost      decimal.Decimal `json:"cost"`
}
