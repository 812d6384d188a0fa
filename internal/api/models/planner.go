package models

// GenerationStatus is the lifecycle state of an itinerary generation job.
type GenerationStatus string

const (
	GenerationStatusPending GenerationStatus = "PENDING"
	GenerationStatusRunning GenerationStatus = "RUNNING"
	GenerationStatusReady   GenerationStatus = "READY"
	GenerationStatusFailed  GenerationStatus = "FAILED"
)

// GenerationCreateRequest asks the planner to generate an itinerary.
type GenerationCreateRequest struct {
	Location       string `json:"location"`
	StartDate      Date   `json:"startDate"`
	NumberOfDays   int    `json:"numberOfDays"`
	BudgetLevel    string `json:"budgetLevel"`
	NumberOfPeople int    `json:"numberOfPeople"`
}

// Generation is the read view of a generation job. ItineraryID is set once
// the job reaches READY; Error is set once it reaches FAILED.
type Generation struct {
	ID             string           `json:"id"`
	Status         GenerationStatus `json:"status"`
	Location       string           `json:"location"`
	StartDate      Date             `json:"startDate"`
	NumberOfDays   int              `json:"numberOfDays"`
	BudgetLevel    string           `json:"budgetLevel"`
	NumberOfPeople int              `json:"numberOfPeople"`
	ItineraryID    *string          `json:"itineraryId,omitempty"`
	Error          *string          `json:"error,omitempty"`
	CreatedAt      Timestamp        `json:"createdAt"`
	UpdatedAt      Timestamp        `json:"updatedAt"`
}
