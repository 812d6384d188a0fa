package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/wayfarer/internal/planner"
	"github.com/wayfarerhq/wayfarer/internal/trip"
	"github.com/wayfarerhq/wayfarer/internal/worker"
)

type stubGenerator struct {
	candidate *planner.Candidate
	err       error
	calls     int
}

func (g *stubGenerator) GenerateCandidate(_ context.Context, _ *planner.Generation) (*planner.Candidate, error) {
	g.calls++
	return g.candidate, g.err
}

// lisbonCandidate covers 2025-06-01..02.
func lisbonCandidate() *planner.Candidate {
	return &planner.Candidate{
		Title:     "Lisbon highlights",
		Locations: []planner.CandidatePoint{{Lat: 38.7223, Lon: -9.1393}},
		DayPlans: []planner.CandidateDay{
			{
				Date: "2025-06-01",
				Activities: []planner.CandidateActivity{
					{
						Location:  planner.CandidatePoint{Lat: 38.7139, Lon: -9.1335},
						StartTime: "09:00",
						EndTime:   "11:00",
						Type:      "sightseeing",
						Cost:      decimal.RequireFromString("12.50"),
					},
				},
			},
			{
				Date: "2025-06-02",
				Activities: []planner.CandidateActivity{
					{
						Location:  planner.CandidatePoint{Lat: 38.6916, Lon: -9.2160},
						StartTime: "10:00",
						EndTime:   "12:00",
						Type:      "dine_out",
						Cost:      decimal.RequireFromString("30.00"),
					},
				},
			},
		},
	}
}

func pendingGeneration(id string, createdAt time.Time) *planner.Generation {
	return &planner.Generation{
		ID:             id,
		UserID:         "usr_worker_test",
		Status:         planner.StatusPending,
		Location:       "Lisbon",
		StartDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		NumberOfDays:   2,
		BudgetLevel:    planner.BudgetModerate,
		NumberOfPeople: 2,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

type fixture struct {
	repo      *planner.InMemoryRepository
	generator *stubGenerator
	job       *worker.GenerateJob
}

func newFixture(t *testing.T, generator *stubGenerator, cfg worker.GenerateConfig) *fixture {
	t.Helper()

	repo := planner.NewInMemoryRepository()
	svc := planner.NewService(planner.ServiceConfig{
		Repo:      repo,
		Trips:     trip.NewService(trip.NewInMemoryRepository()),
		Generator: generator,
		Publisher: discardPublisher{},
		Logger:    zerolog.Nop(),
	})

	return &fixture{
		repo:      repo,
		generator: generator,
		job: worker.NewGenerateJob(worker.GenerateJobConfig{
			Config:  cfg,
			Logger:  zerolog.Nop(),
			Planner: svc,
			Repo:    repo,
		}),
	}
}

type discardPublisher struct{}

func (discardPublisher) PublishGeneration(context.Context, string) error { return nil }

func TestDefaultGenerateConfig(t *testing.T) {
	cfg := worker.DefaultGenerateConfig()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.SweepAfter)
	assert.Equal(t, 50, cfg.SweepBatchSize)
}

func TestGenerateJob_Process_Ready(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &stubGenerator{candidate: lisbonCandidate()}, worker.GenerateConfig{})

	gen := pendingGeneration("gen_ready1", time.Now().UTC())
	require.NoError(t, f.repo.Create(ctx, gen))

	err := f.job.Process(ctx, gen.ID)
	require.NoError(t, err)

	stored, err := f.repo.GetByID(ctx, gen.ID)
	require.NoError(t, err)
	assert.Equal(t, planner.StatusReady, stored.Status)
	require.NotNil(t, stored.ItineraryID)

	metrics := f.job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalJobs)
	assert.Equal(t, int64(1), metrics.ReadyJobs)
	assert.Equal(t, int64(0), metrics.FailedJobs)
	assert.NotZero(t, metrics.LastJobAt)
}

func TestGenerateJob_Process_ProviderFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &stubGenerator{err: errors.New("circuit open")}, worker.GenerateConfig{})

	gen := pendingGeneration("gen_fail1", time.Now().UTC())
	require.NoError(t, f.repo.Create(ctx, gen))

	// Provider failures mark the job FAILED without an infrastructure
	// error, so the message is not redelivered.
	err := f.job.Process(ctx, gen.ID)
	require.NoError(t, err)

	stored, err := f.repo.GetByID(ctx, gen.ID)
	require.NoError(t, err)
	assert.Equal(t, planner.StatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)

	metrics := f.job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalJobs)
	assert.Equal(t, int64(1), metrics.FailedJobs)
}

func TestGenerateJob_Process_UnknownID(t *testing.T) {
	f := newFixture(t, &stubGenerator{candidate: lisbonCandidate()}, worker.GenerateConfig{})

	err := f.job.Process(context.Background(), "gen_doesnotexist")
	assert.Error(t, err)
	assert.Zero(t, f.generator.calls)
}

func TestGenerateJob_Process_SkipsNonPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &stubGenerator{candidate: lisbonCandidate()}, worker.GenerateConfig{})

	gen := pendingGeneration("gen_done1", time.Now().UTC())
	gen.Status = planner.StatusReady
	require.NoError(t, f.repo.Create(ctx, gen))

	err := f.job.Process(ctx, gen.ID)
	require.NoError(t, err)
	assert.Zero(t, f.generator.calls)
}

func TestGenerateJob_SweepPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &stubGenerator{candidate: lisbonCandidate()}, worker.GenerateConfig{
		Concurrency: 2,
		SweepAfter:  time.Minute,
	})

	stale := time.Now().UTC().Add(-time.Hour)
	for _, id := range []string{"gen_sweep1", "gen_sweep2", "gen_sweep3"} {
		require.NoError(t, f.repo.Create(ctx, pendingGeneration(id, stale)))
	}
	// A fresh job still has its message in flight and is left alone.
	require.NoError(t, f.repo.Create(ctx, pendingGeneration("gen_fresh", time.Now().UTC())))

	result, err := f.job.SweepPending(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 0, result.Failed)

	for _, id := range []string{"gen_sweep1", "gen_sweep2", "gen_sweep3"} {
		stored, err := f.repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, planner.StatusReady, stored.Status)
	}

	fresh, err := f.repo.GetByID(ctx, "gen_fresh")
	require.NoError(t, err)
	assert.Equal(t, planner.StatusPending, fresh.Status)

	metrics := f.job.GetMetrics()
	assert.Equal(t, int64(3), metrics.SweptJobs)
}

func TestGenerateJob_SweepPending_Empty(t *testing.T) {
	f := newFixture(t, &stubGenerator{candidate: lisbonCandidate()}, worker.GenerateConfig{})

	result, err := f.job.SweepPending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.Processed)
}

func TestGenerateJob_SweepPending_BatchLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &stubGenerator{candidate: lisbonCandidate()}, worker.GenerateConfig{
		SweepAfter:     time.Minute,
		SweepBatchSize: 2,
	})

	stale := time.Now().UTC().Add(-time.Hour)
	for _, id := range []string{"gen_b1", "gen_b2", "gen_b3"} {
		require.NoError(t, f.repo.Create(ctx, pendingGeneration(id, stale)))
	}

	result, err := f.job.SweepPending(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Processed)
}

func TestGenerateJob_MetricsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &stubGenerator{candidate: lisbonCandidate()}, worker.GenerateConfig{})

	gen := pendingGeneration("gen_snap1", time.Now().UTC())
	require.NoError(t, f.repo.Create(ctx, gen))
	require.NoError(t, f.job.Process(ctx, gen.ID))

	snapshot := f.job.MetricsSnapshot()

	assert.Contains(t, snapshot, "total_jobs")
	assert.Contains(t, snapshot, "ready_jobs")
	assert.Contains(t, snapshot, "failed_jobs")
	assert.Contains(t, snapshot, "swept_jobs")
	assert.Contains(t, snapshot, "last_job_at")
	assert.Contains(t, snapshot, "last_job_duration")
	assert.Equal(t, int64(1), snapshot["total_jobs"])
}
