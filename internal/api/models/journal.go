package models

// Visibility controls who can see a journal or post.
type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

// SubsectionType tags a journal subsection variant.
type SubsectionType string

const (
	SubsectionTypeSightseeing SubsectionType = "SIGHTSEEING"
	SubsectionTypeActivity    SubsectionType = "ACTIVITY"
	SubsectionTypeRoute       SubsectionType = "ROUTE"
)

// SightseeingSection carries the sightseeing-specific fields.
type SightseeingSection struct {
	Place  string `json:"place"`
	Rating int    `json:"rating"`
}

// ActivitySection carries the activity-specific fields.
type ActivitySection struct {
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Difficulty string `json:"difficulty"`
}

// RouteSection carries the route-specific fields.
type RouteSection struct {
	DistanceKm      float64 `json:"distanceKm"`
	DurationMinutes int     `json:"durationMinutes"`
	Waypoints       []Point `json:"waypoints"`
}

// Subsection is one typed journal section. Exactly the variant named by
// Type is populated.
type Subsection struct {
	ID          string              `json:"id"`
	Type        SubsectionType      `json:"type"`
	Title       string              `json:"title"`
	Body        string              `json:"body,omitempty"`
	Sightseeing *SightseeingSection `json:"sightseeing,omitempty"`
	Activity    *ActivitySection    `json:"activity,omitempty"`
	Route       *RouteSection       `json:"route,omitempty"`
}

// SubsectionInput is the inbound shape for a subsection.
type SubsectionInput struct {
	Type        SubsectionType      `json:"type"`
	Title       string              `json:"title"`
	Body        string              `json:"body,omitempty"`
	Sightseeing *SightseeingSection `json:"sightseeing,omitempty"`
	Activity    *ActivitySection    `json:"activity,omitempty"`
	Route       *RouteSection       `json:"route,omitempty"`
}

// Journal is the full read view of a travel journal.
type Journal struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Destination string       `json:"destination"`
	StartDate   Date         `json:"startDate"`
	EndDate     Date         `json:"endDate"`
	Visibility  Visibility   `json:"visibility"`
	Subsections []Subsection `json:"subsections"`
	CreatedAt   Timestamp    `json:"createdAt"`
	UpdatedAt   Timestamp    `json:"updatedAt"`
}

// JournalSummary is the list view of a journal.
type JournalSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Destination string     `json:"destination"`
	StartDate   Date       `json:"startDate"`
	EndDate     Date       `json:"endDate"`
	Visibility  Visibility `json:"visibility"`
	CreatedAt   Timestamp  `json:"createdAt"`
}

// PagedJournals is a paginated list of journal summaries.
type PagedJournals struct {
	Items []JournalSummary  `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// JournalCreateRequest is the inbound shape for creating a journal with
// its subsections.
type JournalCreateRequest struct {
	Title       string            `json:"title"`
	Destination string            `json:"destination"`
	StartDate   Date              `json:"startDate"`
	EndDate     Date              `json:"endDate"`
	Visibility  Visibility        `json:"visibility,omitempty"`
	Subsections []SubsectionInput `json:"subsections"`
}

// JournalUpdateRequest replaces the whole journal including subsections.
type JournalUpdateRequest = JournalCreateRequest
