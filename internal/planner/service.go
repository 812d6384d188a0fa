package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
	"github.com/wayfarerhq/wayfarer/internal/trip"
)

// Generator produces a candidate itinerary for a generation job.
type Generator interface {
	GenerateCandidate(ctx context.Context, gen *Generation) (*Candidate, error)
}

// Publisher enqueues a generation job for asynchronous processing.
type Publisher interface {
	PublishGeneration(ctx context.Context, generationID string) error
}

// ServiceConfig holds dependencies for the planner service.
type ServiceConfig struct {
	Repo      Repository
	Trips     *trip.Service
	Generator Generator

	// Publisher enqueues jobs for the worker. If nil, jobs run in a
	// goroutine inside this process, which keeps local development and
	// tests free of Pub/Sub.
	Publisher Publisher

	Logger zerolog.Logger
}

// Service orchestrates itinerary generation jobs. The API side creates
// PENDING jobs and enqueues them; Run is the worker entry point that
// drives a job to READY or FAILED.
type Service struct {
	repo      Repository
	trips     *trip.Service
	generator Generator
	publisher Publisher
	logger    zerolog.Logger
}

// NewService creates a new planner service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:      cfg.Repo,
		trips:     cfg.Trips,
		generator: cfg.Generator,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
	}
}

// Start validates the request, records a PENDING generation job and
// enqueues it. The returned view carries the ID clients poll with Get.
func (s *Service) Start(ctx context.Context, userID string, req *models.GenerationCreateRequest) (*models.Generation, error) {
	budget, fieldErrs := validateGenerationRequest(req)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Errors: fieldErrs}
	}

	now := time.Now().UTC()
	gen := &Generation{
		ID:             "gen_" + uuid.New().String()[:22],
		UserID:         userID,
		Status:         StatusPending,
		Location:       req.Location,
		StartDate:      trip.TruncateToDay(req.StartDate.Time()),
		NumberOfDays:   req.NumberOfDays,
		BudgetLevel:    budget,
		NumberOfPeople: req.NumberOfPeople,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, gen); err != nil {
		return nil, fmt.Errorf("creating generation: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishGeneration(ctx, gen.ID); err != nil {
			return nil, fmt.Errorf("enqueueing generation: %w", err)
		}
	} else {
		go func() {
			if err := s.Run(context.Background(), gen.ID); err != nil {
				s.logger.Error().Err(err).Str("generation_id", gen.ID).Msg("inline generation run failed")
			}
		}()
	}

	return toAPIGeneration(gen), nil
}

// Get returns a generation job owned by the given user.
func (s *Service) Get(ctx context.Context, userID, generationID string) (*models.Generation, error) {
	gen, err := s.repo.GetByUserAndID(ctx, userID, generationID)
	if err != nil {
		return nil, err
	}
	return toAPIGeneration(gen), nil
}

// Run executes one generation job to completion. Provider failures and
// candidates that fail itinerary validation mark the job FAILED and are
// not retried; only infrastructure errors are returned to the caller so
// the message source can redeliver.
//
// The job is loaded and updated outside any transaction: the LLM call
// must not hold a database transaction open, and the resulting itinerary
// graph is persisted atomically by the trip service on its own.
func (s *Service) Run(ctx context.Context, generationID string) error {
	gen, err := s.repo.GetByID(ctx, generationID)
	if err != nil {
		return err
	}

	if gen.Status != StatusPending {
		s.logger.Warn().
			Str("generation_id", gen.ID).
			Str("status", string(gen.Status)).
			Msg("skipping generation in non-pending state")
		return nil
	}

	gen.Status = StatusRunning
	gen.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, gen); err != nil {
		return err
	}

	itinerary, err := s.generate(ctx, gen)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("generation_id", gen.ID).
			Str("location", gen.Location).
			Msg("generation failed")

		msg := err.Error()
		gen.Status = StatusFailed
		gen.ErrorMessage = &msg
		gen.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, gen)
	}

	gen.Status = StatusReady
	gen.ItineraryID = &itinerary.ID
	gen.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, gen); err != nil {
		return err
	}

	s.logger.Info().
		Str("generation_id", gen.ID).
		Str("itinerary_id", itinerary.ID).
		Msg("generation ready")
	return nil
}

// generate calls the provider, maps the candidate onto the inbound
// itinerary shape and creates it through the trip service. Any failure,
// including validation of the candidate graph, rejects the candidate
// whole; nothing is partially persisted.
func (s *Service) generate(ctx context.Context, gen *Generation) (*models.Itinerary, error) {
	candidate, err := s.generator.GenerateCandidate(ctx, gen)
	if err != nil {
		return nil, fmt.Errorf("%w: provider: %v", ErrGenerationFailed, err)
	}

	req, err := candidateRequest(gen, candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	itinerary, err := s.trips.Create(ctx, gen.UserID, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return itinerary, nil
}

func validateGenerationRequest(req *models.GenerationCreateRequest) (BudgetLevel, []models.FieldError) {
	var errs []models.FieldError

	if req.Location == "" {
		errs = append(errs, models.FieldError{Field: "location", Message: "location is required"})
	}
	if req.StartDate.IsZero() {
		errs = append(errs, models.FieldError{Field: "startDate", Message: "startDate is required"})
	}
	if req.NumberOfDays < MinDays || req.NumberOfDays > MaxDays {
		errs = append(errs, models.FieldError{
			Field:   "numberOfDays",
			Message: fmt.Sprintf("numberOfDays must be between %d and %d", MinDays, MaxDays),
		})
	}
	if req.NumberOfPeople < MinPeople || req.NumberOfPeople > MaxPeople {
		errs = append(errs, models.FieldError{
			Field:   "numberOfPeople",
			Message: fmt.Sprintf("numberOfPeople must be between %d and %d", MinPeople, MaxPeople),
		})
	}

	budget, ok := ParseBudgetLevel(req.BudgetLevel)
	if !ok {
		errs = append(errs, models.FieldError{
			Field:   "budgetLevel",
			Message: "budgetLevel must be one of BUDGET, MODERATE, LUXURY",
		})
	}

	return budget, errs
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func toAPIGeneration(gen *Generation) *models.Generation {
	return &models.Generation{
		ID:             gen.ID,
		Status:         models.GenerationStatus(gen.Status),
		Location:       gen.Location,
		StartDate:      models.Date(gen.StartDate),
		NumberOfDays:   gen.NumberOfDays,
		BudgetLevel:    string(gen.BudgetLevel),
		NumberOfPeople: gen.NumberOfPeople,
		ItineraryID:    gen.ItineraryID,
		Error:          gen.ErrorMessage,
		CreatedAt:      models.Timestamp(gen.CreatedAt),
		UpdatedAt:      models.Timestamp(gen.UpdatedAt),
	}
}
