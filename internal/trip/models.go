// Package trip provides the trip schedule model: itineraries, day plans,
// and activities, together with the consistency rules that must hold
// before a trip graph is persisted.
package trip

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Repository errors.
var (
	ErrItineraryNotFound = errors.New("itinerary not found")
)

// Structural limits for a trip graph.
const (
	MaxLocations         = 30
	MaxActivitiesPerDay  = 50
	MaxNotes             = 10
	MaxNoteLength        = 10000
	MaxRouteWaypoints    = 100
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000
)

// ActivityType classifies a scheduled activity.
type ActivityType string

// Activity types.
const (
	ActivitySightseeing ActivityType = "SIGHTSEEING"
	ActivityDineOut     ActivityType = "DINE_OUT"
	ActivityOther       ActivityType = "OTHER"
)

// ParseActivityType maps a raw type string onto a known ActivityType.
// The second return value reports whether the value was recognized.
func ParseActivityType(s string) (ActivityType, bool) {
	switch ActivityType(s) {
	case ActivitySightseeing, ActivityDineOut, ActivityOther:
		return ActivityType(s), true
	}
	return ActivityOther, false
}

// GeoPoint represents a geographic point.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Activity is a single scheduled event within a day plan. Start and End
// are local clock times in HH:mm format; End must be after Start.
type Activity struct {
	ID            string
	Location      GeoPoint
	Start         string
	End           string
	Type          ActivityType
	OtherTypeName *string
	Note          *string
	Cost          decimal.Decimal
}

// TypeLabel returns the human-facing label for the activity's type.
// For OTHER activities this is the retained free-text name when present.
func (a *Activity) TypeLabel() string {
	if a.Type == ActivityOther && a.OtherTypeName != nil && *a.OtherTypeName != "" {
		return *a.OtherTypeName
	}
	return string(a.Type)
}

// RoutePlan describes travel between the activities of one day.
type RoutePlan struct {
	DistanceKm  float64
	TimeMinutes int
	Description string
	Waypoints   []GeoPoint
}

// DayPlan is one calendar day's worth of planned activities. Date is
// normalized to midnight UTC. The day plan owns its activities by value;
// ItineraryID is a plain lookup field, never an ownership edge.
type DayPlan struct {
	ID          string
	ItineraryID string
	Date        time.Time
	Activities  []Activity
	Route       *RoutePlan
	Notes       []string
}

// TotalCost derives the day's cost as the sum of its activities' costs.
// It is computed on every read and never stored.
func (d *DayPlan) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for i := range d.Activities {
		total = total.Add(d.Activities[i].Cost)
	}
	return total
}

// Itinerary is a planned trip spanning a date range. It owns its day
// plans by value; deleting an itinerary removes the whole graph.
type Itinerary struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Locations   []GeoPoint
	StartDate   time.Time
	EndDate     time.Time
	DayPlans    []DayPlan
	Notes       []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalCost derives the trip's cost as the sum of its day plans' costs.
func (it *Itinerary) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for i := range it.DayPlans {
		total = total.Add(it.DayPlans[i].TotalCost())
	}
	return total
}

// TruncateToDay normalizes a timestamp to midnight UTC so day plan dates
// compare by calendar day only.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
