package models

import "github.com/shopspring/decimal"

// ActivityType classifies a scheduled activity.
type ActivityType string

const (
	ActivityTypeSightseeing ActivityType = "SIGHTSEEING"
	ActivityTypeDineOut     ActivityType = "DINE_OUT"
	ActivityTypeOther       ActivityType = "OTHER"
)

// RoutePlan describes travel between the activities of one day.
type RoutePlan struct {
	DistanceKm  float64 `json:"distanceKm"`
	TimeMinutes int     `json:"timeMinutes"`
	Description string  `json:"description,omitempty"`
	Locations   []Point `json:"locations"`
}

// Activity is a scheduled event within a day plan.
type Activity struct {
	ID            string          `json:"id"`
	Location      Point           `json:"location"`
	StartTime     string          `json:"startTime"`
	EndTime       string          `json:"endTime"`
	Type          ActivityType    `json:"type"`
	OtherTypeName *string         `json:"otherTypeName,omitempty"`
	Note          *string         `json:"note,omitempty"`
	Cost          decimal.Decimal `json:"cost"`
}

// ActivityInput is the inbound shape for an activity. Type is free text
// so AI-generated candidates can pass through the same shape; it is
// normalized into ActivityType by the service.
type ActivityInput struct {
	Location      Point            `json:"location"`
	StartTime     string           `json:"startTime"`
	EndTime       string           `json:"endTime"`
	Type          string           `json:"type"`
	OtherTypeName *string          `json:"otherTypeName,omitempty"`
	Note          *string          `json:"note,omitempty"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
}

// DayPlan is one calendar day of an itinerary. TotalCost is derived from
// the contained activities on every read; it is never stored and cannot
// be set by the caller.
type DayPlan struct {
	ID         string          `json:"id"`
	Date       Date            `json:"date"`
	RoutePlan  *RoutePlan      `json:"routePlan,omitempty"`
	Activities []Activity      `json:"activities"`
	Notes      []string        `json:"notes,omitempty"`
	TotalCost  decimal.Decimal `json:"totalCost"`
}

// DayPlanInput is the inbound shape for a day plan.
type DayPlanInput struct {
	Date       Date            `json:"date"`
	RoutePlan  *RoutePlan      `json:"routePlan,omitempty"`
	Activities []ActivityInput `json:"activities"`
	Notes      []string        `json:"notes,omitempty"`
}

// Itinerary is the full read view of a trip. TotalCost is derived.
type Itinerary struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Locations   []Point         `json:"locations"`
	StartDate   Date            `json:"startDate"`
	EndDate     Date            `json:"endDate"`
	DayPlans    []DayPlan       `json:"dayPlans"`
	Notes       []string        `json:"notes,omitempty"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	CreatedAt   Timestamp       `json:"createdAt"`
	UpdatedAt   Timestamp       `json:"updatedAt"`
}

// ItinerarySummary is the list view of an itinerary.
type ItinerarySummary struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	StartDate Date            `json:"startDate"`
	EndDate   Date            `json:"endDate"`
	TotalCost decimal.Decimal `json:"totalCost"`
	CreatedAt Timestamp       `json:"createdAt"`
}

// PagedItineraries is a paginated list of itinerary summaries.
type PagedItineraries struct {
	Items []ItinerarySummary `json:"items"`
	Meta  PagedResponseMeta  `json:"meta"`
}

// ItineraryCreateRequest is the inbound shape for creating an itinerary
// together with its nested day plans and activities.
type ItineraryCreateRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Locations   []Point        `json:"locations"`
	StartDate   Date           `json:"startDate"`
	EndDate     Date           `json:"endDate"`
	DayPlans    []DayPlanInput `json:"dayPlans"`
	Notes       []string       `json:"notes,omitempty"`
}

// ItineraryUpdateRequest replaces the whole trip graph; partial updates
// of nested day plans are not supported.
type ItineraryUpdateRequest = ItineraryCreateRequest
