package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
)

// Service errors.
var (
	ErrNotAuthorized = errors.New("not authorized to access this itinerary")
)

// Service provides itinerary operations. Every create and update runs
// the full trip graph validation before anything is persisted.
type Service struct {
	repo Repository
}

// NewService creates a new trip service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves itinerary summaries for a user. An empty cursor means
// the first page; subsequent pages continue from the NextCursor of the
// previous one.
func (s *Service) List(ctx context.Context, userID string, limit int, cursor string) (*models.PagedItineraries, error) {
	result, err := s.repo.List(ctx, userID, ListOptions{Limit: limit, Cursor: cursor})
	if err != nil {
		return nil, err
	}

	items := make([]models.ItinerarySummary, 0, len(result.Items))
	for _, sum := range result.Items {
		items = append(items, models.ItinerarySummary{
			ID:        sum.ID,
			Title:     sum.Title,
			StartDate: models.Date(sum.StartDate),
			EndDate:   models.Date(sum.EndDate),
			TotalCost: sum.TotalCost,
			CreatedAt: models.Timestamp(sum.CreatedAt),
		})
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedItineraries{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Get retrieves an itinerary by ID for a user.
func (s *Service) Get(ctx context.Context, userID, itineraryID string) (*models.Itinerary, error) {
	it, err := s.repo.GetByUserAndID(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}

	result := toAPIItinerary(it)
	return &result, nil
}

// Create validates and persists a new itinerary graph for a user.
func (s *Service) Create(ctx context.Context, userID string, input *models.ItineraryCreateRequest) (*models.Itinerary, error) {
	if fieldErrors := validateItineraryInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	it := buildItinerary(userID, input)
	if err := Validate(it); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	result := toAPIItinerary(it)
	return &result, nil
}

// Update replaces an existing itinerary graph for a user. The graph is
// rebuilt from the request and revalidated before persistence.
func (s *Service) Update(ctx context.Context, userID, itineraryID string, input *models.ItineraryUpdateRequest) (*models.Itinerary, error) {
	existing, err := s.repo.GetByUserAndID(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}

	if fieldErrors := validateItineraryInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	it := buildItinerary(userID, input)
	it.ID = existing.ID
	it.CreatedAt = existing.CreatedAt
	it.UpdatedAt = time.Now().UTC()
	for i := range it.DayPlans {
		it.DayPlans[i].ItineraryID = it.ID
	}

	if err := Validate(it); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}

	result := toAPIItinerary(it)
	return &result, nil
}

// Delete removes an itinerary and its graph for a user.
func (s *Service) Delete(ctx context.Context, userID, itineraryID string) error {
	// Verify ownership
	if _, err := s.repo.GetByUserAndID(ctx, userID, itineraryID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, itineraryID)
}

// buildItinerary materializes a trip graph from an inbound request,
// assigning fresh identifiers throughout.
func buildItinerary(userID string, input *models.ItineraryCreateRequest) *Itinerary {
	now := time.Now().UTC()
	it := &Itinerary{
		ID:          "itn_" + uuid.New().String()[:22],
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Locations:   toGeoPoints(input.Locations),
		StartDate:   TruncateToDay(input.StartDate.Time()),
		EndDate:     TruncateToDay(input.EndDate.Time()),
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, dpInput := range input.DayPlans {
		dp := DayPlan{
			ID:          "day_" + uuid.New().String()[:22],
			ItineraryID: it.ID,
			Date:        TruncateToDay(dpInput.Date.Time()),
			Notes:       dpInput.Notes,
		}
		if dpInput.RoutePlan != nil {
			dp.Route = &RoutePlan{
				DistanceKm:  dpInput.RoutePlan.DistanceKm,
				TimeMinutes: dpInput.RoutePlan.TimeMinutes,
				Description: dpInput.RoutePlan.Description,
				Waypoints:   toGeoPoints(dpInput.RoutePlan.Locations),
			}
		}
		for _, aInput := range dpInput.Activities {
			dp.Activities = append(dp.Activities, buildActivity(&aInput))
		}
		it.DayPlans = append(it.DayPlans, dp)
	}

	return it
}

// buildActivity materializes a single activity. The raw type string is
// normalized into the enum; unrecognized values become OTHER with the
// original text retained as the other-type name.
func buildActivity(input *models.ActivityInput) Activity {
	a := Activity{
		ID:       "act_" + uuid.New().String()[:22],
		Location: GeoPoint{Lat: input.Location.Lat, Lon: input.Location.Lon},
		Start:    input.StartTime,
		End:      input.EndTime,
		Note:     input.Note,
		Cost:     decimal.Zero,
	}
	if input.Cost != nil {
		a.Cost = *input.Cost
	}

	parsed, known := ParseActivityType(input.Type)
	a.Type = parsed
	if a.Type == ActivityOther {
		switch {
		case input.OtherTypeName != nil:
			a.OtherTypeName = input.OtherTypeName
		case !known && input.Type != "":
			raw := input.Type
			a.OtherTypeName = &raw
		}
	}

	return a
}

// validateItineraryInput validates the structural shape of an inbound
// itinerary graph. Graph-level invariants (date range, collisions) are
// checked afterwards by Validate.
func validateItineraryInput(input *models.ItineraryCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Title == "" {
		errs = append(errs, models.FieldError{Field: "title", Message: "is required"})
	} else if len(input.Title) > MaxTitleLength {
		errs = append(errs, models.FieldError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", MaxTitleLength)})
	}
	if len(input.Description) > MaxDescriptionLength {
		errs = append(errs, models.FieldError{Field: "description", Message: fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)})
	}

	switch {
	case len(input.Locations) == 0:
		errs = append(errs, models.FieldError{Field: "locations", Message: "at least one location is required"})
	case len(input.Locations) > MaxLocations:
		errs = append(errs, models.FieldError{Field: "locations", Message: fmt.Sprintf("must contain at most %d locations", MaxLocations)})
	}
	for i, p := range input.Locations {
		errs = append(errs, validatePoint(p, fmt.Sprintf("locations[%d]", i))...)
	}

	if input.StartDate.IsZero() {
		errs = append(errs, models.FieldError{Field: "startDate", Message: "is required"})
	}
	if input.EndDate.IsZero() {
		errs = append(errs, models.FieldError{Field: "endDate", Message: "is required"})
	}
	if !input.StartDate.IsZero() && !input.EndDate.IsZero() &&
		input.EndDate.Time().Before(input.StartDate.Time()) {
		errs = append(errs, models.FieldError{Field: "endDate", Message: "must not be before startDate"})
	}

	errs = append(errs, validateNotes(input.Notes, "notes")...)

	for i, dp := range input.DayPlans {
		prefix := fmt.Sprintf("dayPlans[%d]", i)
		if dp.Date.IsZero() {
			errs = append(errs, models.FieldError{Field: prefix + ".date", Message: "is required"})
		}
		if len(dp.Activities) > MaxActivitiesPerDay {
			errs = append(errs, models.FieldError{Field: prefix + ".activities", Message: fmt.Sprintf("must contain at most %d activities", MaxActivitiesPerDay)})
		}
		errs = append(errs, validateNotes(dp.Notes, prefix+".notes")...)
		if dp.RoutePlan != nil {
			errs = append(errs, validateRoutePlan(dp.RoutePlan, prefix+".routePlan")...)
		}
		for j := range dp.Activities {
			errs = append(errs, validateActivityInput(&dp.Activities[j], fmt.Sprintf("%s.activities[%d]", prefix, j))...)
		}
	}

	return errs
}

// validateActivityInput validates a single inbound activity.
func validateActivityInput(a *models.ActivityInput, prefix string) []models.FieldError {
	var errs []models.FieldError

	errs = append(errs, validatePoint(a.Location, prefix+".location")...)

	switch {
	case a.StartTime == "":
		errs = append(errs, models.FieldError{Field: prefix + ".startTime", Message: "is required"})
	case !ValidClock(a.StartTime):
		errs = append(errs, models.FieldError{Field: prefix + ".startTime", Message: "must be in HH:mm format"})
	}
	switch {
	case a.EndTime == "":
		errs = append(errs, models.FieldError{Field: prefix + ".endTime", Message: "is required"})
	case !ValidClock(a.EndTime):
		errs = append(errs, models.FieldError{Field: prefix + ".endTime", Message: "must be in HH:mm format"})
	}
	if ValidClock(a.StartTime) && ValidClock(a.EndTime) &&
		clockMinutes(a.EndTime) <= clockMinutes(a.StartTime) {
		errs = append(errs, models.FieldError{Field: prefix + ".endTime", Message: "must be after startTime"})
	}

	if a.Type == "" {
		errs = append(errs, models.FieldError{Field: prefix + ".type", Message: "is required"})
	}
	if parsed, known := ParseActivityType(a.Type); known && parsed != ActivityOther && a.OtherTypeName != nil {
		errs = append(errs, models.FieldError{Field: prefix + ".otherTypeName", Message: "is only valid when type is OTHER"})
	}

	if a.Note != nil && len(*a.Note) > MaxNoteLength {
		errs = append(errs, models.FieldError{Field: prefix + ".note", Message: fmt.Sprintf("must be at most %d characters", MaxNoteLength)})
	}
	if a.Cost != nil && a.Cost.IsNegative() {
		errs = append(errs, models.FieldError{Field: prefix + ".cost", Message: "must not be negative"})
	}

	return errs
}

// validateRoutePlan validates an inbound route plan value object.
func validateRoutePlan(rp *models.RoutePlan, prefix string) []models.FieldError {
	var errs []models.FieldError

	if rp.DistanceKm < 0 {
		errs = append(errs, models.FieldError{Field: prefix + ".distanceKm", Message: "must not be negative"})
	}
	if rp.TimeMinutes < 0 {
		errs = append(errs, models.FieldError{Field: prefix + ".timeMinutes", Message: "must not be negative"})
	}
	switch {
	case len(rp.Locations) == 0:
		errs = append(errs, models.FieldError{Field: prefix + ".locations", Message: "at least one waypoint is required"})
	case len(rp.Locations) > MaxRouteWaypoints:
		errs = append(errs, models.FieldError{Field: prefix + ".locations", Message: fmt.Sprintf("must contain at most %d waypoints", MaxRouteWaypoints)})
	}
	for i, p := range rp.Locations {
		errs = append(errs, validatePoint(p, fmt.Sprintf("%s.locations[%d]", prefix, i))...)
	}

	return errs
}

// validateNotes validates a free-text note list.
func validateNotes(notes []string, field string) []models.FieldError {
	var errs []models.FieldError
	if len(notes) > MaxNotes {
		errs = append(errs, models.FieldError{Field: field, Message: fmt.Sprintf("must contain at most %d notes", MaxNotes)})
	}
	for i, note := range notes {
		if len(note) > MaxNoteLength {
			errs = append(errs, models.FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Message: fmt.Sprintf("must be at most %d characters", MaxNoteLength)})
		}
	}
	return errs
}

// validatePoint validates a geographic coordinate.
func validatePoint(p models.Point, prefix string) []models.FieldError {
	var errs []models.FieldError
	if p.Lat < -90 || p.Lat > 90 {
		errs = append(errs, models.FieldError{Field: prefix + ".lat", Message: "must be between -90 and 90"})
	}
	if p.Lon < -180 || p.Lon > 180 {
		errs = append(errs, models.FieldError{Field: prefix + ".lon", Message: "must be between -180 and 180"})
	}
	return errs
}

// toAPIItinerary converts a domain itinerary graph to its API view,
// deriving totals on the way out.
func toAPIItinerary(it *Itinerary) models.Itinerary {
	result := models.Itinerary{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Locations:   toAPIPoints(it.Locations),
		StartDate:   models.Date(it.StartDate),
		EndDate:     models.Date(it.EndDate),
		Notes:       it.Notes,
		TotalCost:   it.TotalCost(),
		CreatedAt:   models.Timestamp(it.CreatedAt),
		UpdatedAt:   models.Timestamp(it.UpdatedAt),
	}

	for i := range it.DayPlans {
		dp := &it.DayPlans[i]
		apiDP := models.DayPlan{
			ID:        dp.ID,
			Date:      models.Date(dp.Date),
			Notes:     dp.Notes,
			TotalCost: dp.TotalCost(),
		}
		if dp.Route != nil {
			apiDP.RoutePlan = &models.RoutePlan{
				DistanceKm:  dp.Route.DistanceKm,
				TimeMinutes: dp.Route.TimeMinutes,
				Description: dp.Route.Description,
				Locations:   toAPIPoints(dp.Route.Waypoints),
			}
		}
		for j := range dp.Activities {
			a := &dp.Activities[j]
			apiDP.Activities = append(apiDP.Activities, models.Activity{
				ID:            a.ID,
				Location:      models.Point{Lat: a.Location.Lat, Lon: a.Location.Lon},
				StartTime:     a.Start,
				EndTime:       a.End,
				Type:          models.ActivityType(a.Type),
				OtherTypeName: a.OtherTypeName,
				Note:          a.Note,
				Cost:          a.Cost,
			})
		}
		result.DayPlans = append(result.DayPlans, apiDP)
	}

	return result
}

func toGeoPoints(points []models.Point) []GeoPoint {
	result := make([]GeoPoint, len(points))
	for i, p := range points {
		result[i] = GeoPoint{Lat: p.Lat, Lon: p.Lon}
	}
	return result
}

func toAPIPoints(points []GeoPoint) []models.Point {
	result := make([]models.Point, len(points))
	for i, p := range points {
		result[i] = models.Point{Lat: p.Lat, Lon: p.Lon}
	}
	return result
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
