package journal

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
	"github.com/wayfarerhq/wayfarer/pkg/polyline"
)

// clockRegex matches local clock times in HH:mm.
var clockRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// Service implements journal use cases over a Repository.
type Service struct {
	repo Repository
}

// NewService creates a new journal service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of the user's journal summaries.
func (s *Service) List(ctx context.Context, userID string, limit int, cursor string) (*models.PagedJournals, error) {
	result, err := s.repo.List(ctx, userID, ListOptions{Limit: limit, Cursor: cursor})
	if err != nil {
		return nil, err
	}

	items := make([]models.JournalSummary, 0, len(result.Items))
	for _, sum := range result.Items {
		items = append(items, models.JournalSummary{
			ID:          sum.ID,
			Title:       sum.Title,
			Destination: sum.Destination,
			StartDate:   models.Date(sum.StartDate),
			EndDate:     models.Date(sum.EndDate),
			Visibility:  models.Visibility(sum.Visibility),
			CreatedAt:   models.Timestamp(sum.CreatedAt),
		})
	}

	page := &models.PagedJournals{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	}
	if result.NextCursor != "" {
		cursor := result.NextCursor
		page.Meta.NextCursor = &cursor
	}
	return page, nil
}

// Get returns one journal owned by the user.
func (s *Service) Get(ctx context.Context, userID, journalID string) (*models.Journal, error) {
	j, err := s.repo.GetByUserAndID(ctx, userID, journalID)
	if err != nil {
		return nil, err
	}
	return toAPIJournal(j), nil
}

// Create validates and persists a new journal with its subsections.
func (s *Service) Create(ctx context.Context, userID string, input *models.JournalCreateRequest) (*models.Journal, error) {
	fieldErrs := validateJournalInput(input)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Errors: fieldErrs}
	}

	j := buildJournal(userID, input)
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now

	if err := s.repo.Create(ctx, j); err != nil {
		return nil, err
	}
	return toAPIJournal(j), nil
}

// Update replaces a journal's content and subsections wholesale.
func (s *Service) Update(ctx context.Context, userID, journalID string, input *models.JournalUpdateRequest) (*models.Journal, error) {
	existing, err := s.repo.GetByUserAndID(ctx, userID, journalID)
	if err != nil {
		return nil, err
	}

	fieldErrs := validateJournalInput(input)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Errors: fieldErrs}
	}

	j := buildJournal(userID, input)
	j.ID = existing.ID
	j.CreatedAt = existing.CreatedAt
	j.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, j); err != nil {
		return nil, err
	}
	return toAPIJournal(j), nil
}

// Delete removes a journal owned by the user.
func (s *Service) Delete(ctx context.Context, userID, journalID string) error {
	existing, err := s.repo.GetByUserAndID(ctx, userID, journalID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}

// buildJournal constructs the domain journal with fresh IDs.
func buildJournal(userID string, input *models.JournalCreateRequest) *Journal {
	visibility := VisibilityPrivate
	if input.Visibility != "" {
		visibility, _ = ParseVisibility(string(input.Visibility))
	}

	j := &Journal{
		ID:          "jrn_" + uuid.New().String()[:22],
		UserID:      userID,
		Title:       input.Title,
		Destination: input.Destination,
		StartDate:   truncateToDay(input.StartDate.Time()),
		EndDate:     truncateToDay(input.EndDate.Time()),
		Visibility:  visibility,
	}

	for _, in := range input.Subsections {
		sec := Subsection{
			ID:    "sec_" + uuid.New().String()[:22],
			Type:  SubsectionType(in.Type),
			Title: in.Title,
			Body:  in.Body,
		}

		switch sec.Type {
		case SubsectionSightseeing:
			sec.Sightseeing = &SightseeingDetails{
				Place:  in.Sightseeing.Place,
				Rating: in.Sightseeing.Rating,
			}
		case SubsectionActivity:
			difficulty, _ := ParseDifficulty(in.Activity.Difficulty)
			sec.Activity = &ActivityDetails{
				StartTime:  in.Activity.StartTime,
				EndTime:    in.Activity.EndTime,
				Difficulty: difficulty,
			}
		case SubsectionRoute:
			waypoints := make([]Point, 0, len(in.Route.Waypoints))
			coords := make([]polyline.Coordinate, 0, len(in.Route.Waypoints))
			for _, p := range in.Route.Waypoints {
				waypoints = append(waypoints, Point{Lat: p.Lat, Lon: p.Lon})
				coords = append(coords, polyline.Coordinate{Lat: p.Lat, Lon: p.Lon})
			}
			distanceKm := in.Route.DistanceKm
			if distanceKm == 0 && len(coords) >= 2 {
				// Derive the distance from the waypoint path when the
				// author did not provide one.
				distanceKm = polyline.Length(coords) / 1000
			}
			sec.Route = &RouteDetails{
				DistanceKm:      distanceKm,
				DurationMinutes: in.Route.DurationMinutes,
				Waypoints:       waypoints,
			}
		}

		j.Subsections = append(j.Subsections, sec)
	}

	return j
}

func validateJournalInput(input *models.JournalCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Title == "" {
		errs = append(errs, models.FieldError{Field: "title", Message: "title is required"})
	} else if len(input.Title) > MaxTitleLength {
		errs = append(errs, models.FieldError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
		})
	}

	if input.Destination == "" {
		errs = append(errs, models.FieldError{Field: "destination", Message: "destination is required"})
	} else if len(input.Destination) > MaxDestinationLength {
		errs = append(errs, models.FieldError{
			Field:   "destination",
			Message: fmt.Sprintf("destination must be at most %d characters", MaxDestinationLength),
		})
	}

	if input.StartDate.IsZero() {
		errs = append(errs, models.FieldError{Field: "startDate", Message: "startDate is required"})
	}
	if input.EndDate.IsZero() {
		errs = append(errs, models.FieldError{Field: "endDate", Message: "endDate is required"})
	}
	if !input.StartDate.IsZero() && !input.EndDate.IsZero() &&
		input.EndDate.Time().Before(input.StartDate.Time()) {
		errs = append(errs, models.FieldError{Field: "endDate", Message: "endDate must not be before startDate"})
	}

	if input.Visibility != "" {
		if _, ok := ParseVisibility(string(input.Visibility)); !ok {
			errs = append(errs, models.FieldError{
				Field:   "visibility",
				Message: "visibility must be one of PRIVATE, PUBLIC",
			})
		}
	}

	if len(input.Subsections) > MaxSubsections {
		errs = append(errs, models.FieldError{
			Field:   "subsections",
			Message: fmt.Sprintf("at most %d subsections allowed", MaxSubsections),
		})
	}

	for i := range input.Subsections {
		errs = append(errs, validateSubsectionInput(fmt.Sprintf("subsections[%d]", i), &input.Subsections[i])...)
	}

	return errs
}

// validateSubsectionInput checks one subsection: exactly the variant
// named by the tag must be populated.
func validateSubsectionInput(path string, in *models.SubsectionInput) []models.FieldError {
	var errs []models.FieldError

	if in.Title == "" {
		errs = append(errs, models.FieldError{Field: path + ".title", Message: "title is required"})
	} else if len(in.Title) > MaxTitleLength {
		errs = append(errs, models.FieldError{
			Field:   path + ".title",
			Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
		})
	}
	if len(in.Body) > MaxBodyLength {
		errs = append(errs, models.FieldError{
			Field:   path + ".body",
			Message: fmt.Sprintf("body must be at most %d characters", MaxBodyLength),
		})
	}

	populated := 0
	if in.Sightseeing != nil {
		populated++
	}
	if in.Activity != nil {
		populated++
	}
	if in.Route != nil {
		populated++
	}
	if populated > 1 {
		errs = append(errs, models.FieldError{
			Field:   path + ".type",
			Message: "only the section matching the type may be set",
		})
		return errs
	}

	switch SubsectionType(in.Type) {
	case SubsectionSightseeing:
		if in.Sightseeing == nil {
			errs = append(errs, models.FieldError{Field: path + ".sightseeing", Message: "sightseeing section is required for type SIGHTSEEING"})
			break
		}
		if in.Sightseeing.Place == "" {
			errs = append(errs, models.FieldError{Field: path + ".sightseeing.place", Message: "place is required"})
		}
		if in.Sightseeing.Rating < MinRating || in.Sightseeing.Rating > MaxRating {
			errs = append(errs, models.FieldError{
				Field:   path + ".sightseeing.rating",
				Message: fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating),
			})
		}

	case SubsectionActivity:
		if in.Activity == nil {
			errs = append(errs, models.FieldError{Field: path + ".activity", Message: "activity section is required for type ACTIVITY"})
			break
		}
		if !clockRegex.MatchString(in.Activity.StartTime) {
			errs = append(errs, models.FieldError{Field: path + ".activity.startTime", Message: "startTime must be a valid HH:mm clock time"})
		}
		if !clockRegex.MatchString(in.Activity.EndTime) {
			errs = append(errs, models.FieldError{Field: path + ".activity.endTime", Message: "endTime must be a valid HH:mm clock time"})
		}
		if _, ok := ParseDifficulty(in.Activity.Difficulty); !ok {
			errs = append(errs, models.FieldError{
				Field:   path + ".activity.difficulty",
				Message: "difficulty must be one of EASY, MODERATE, HARD",
			})
		}

	case SubsectionRoute:
		if in.Route == nil {
			errs = append(errs, models.FieldError{Field: path + ".route", Message: "route section is required for type ROUTE"})
			break
		}
		if in.Route.DistanceKm < 0 {
			errs = append(errs, models.FieldError{Field: path + ".route.distanceKm", Message: "distanceKm must not be negative"})
		}
		if in.Route.DurationMinutes < 0 {
			errs = append(errs, models.FieldError{Field: path + ".route.durationMinutes", Message: "durationMinutes must not be negative"})
		}
		if len(in.Route.Waypoints) > MaxRouteWaypoints {
			errs = append(errs, models.FieldError{
				Field:   path + ".route.waypoints",
				Message: fmt.Sprintf("at most %d waypoints allowed", MaxRouteWaypoints),
			})
		}

	default:
		errs = append(errs, models.FieldError{
			Field:   path + ".type",
			Message: "type must be one of SIGHTSEEING, ACTIVITY, ROUTE",
		})
	}

	return errs
}

func toAPIJournal(j *Journal) *models.Journal {
	out := &models.Journal{
		ID:          j.ID,
		Title:       j.Title,
		Destination: j.Destination,
		StartDate:   models.Date(j.StartDate),
		EndDate:     models.Date(j.EndDate),
		Visibility:  models.Visibility(j.Visibility),
		Subsections: make([]models.Subsection, 0, len(j.Subsections)),
		CreatedAt:   models.Timestamp(j.CreatedAt),
		UpdatedAt:   models.Timestamp(j.UpdatedAt),
	}

	for _, sec := range j.Subsections {
		apiSec := models.Subsection{
			ID:    sec.ID,
			Type:  models.SubsectionType(sec.Type),
			Title: sec.Title,
			Body:  sec.Body,
		}
		if sec.Sightseeing != nil {
			apiSec.Sightseeing = &models.SightseeingSection{
				Place:  sec.Sightseeing.Place,
				Rating: sec.Sightseeing.Rating,
			}
		}
		if sec.Activity != nil {
			apiSec.Activity = &models.ActivitySection{
				StartTime:  sec.Activity.StartTime,
				EndTime:    sec.Activity.EndTime,
				Difficulty: string(sec.Activity.Difficulty),
			}
		}
		if sec.Route != nil {
			waypoints := make([]models.Point, 0, len(sec.Route.Waypoints))
			for _, p := range sec.Route.Waypoints {
				waypoints = append(waypoints, models.Point{Lat: p.Lat, Lon: p.Lon})
			}
			apiSec.Route = &models.RouteSection{
				DistanceKm:      sec.Route.DistanceKm,
				DurationMinutes: sec.Route.DurationMinutes,
				Waypoints:       waypoints,
			}
		}
		out.Subsections = append(out.Subsections, apiSec)
	}

	return out
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
