package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfarerhq/wayfarer/internal/planner"
)

// GenerateJob processes itinerary generation jobs.
type GenerateJob struct {
	config  GenerateConfig
	logger  zerolog.Logger
	planner *planner.Service
	repo    planner.Repository

	metrics *GenerateMetrics
}

// GenerateMetrics tracks generation job statistics.
type GenerateMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalJobs  int64
	ReadyJobs  int64
	FailedJobs int64
	SweptJobs  int64

	// Timings
	LastJobAt       time.Time
	LastJobDuration time.Duration
	TotalDuration   time.Duration
}

// GenerateJobConfig holds configuration for creating a GenerateJob.
type GenerateJobConfig struct {
	Config  GenerateConfig
	Logger  zerolog.Logger
	Planner *planner.Service
	Repo    planner.Repository
}

// NewGenerateJob creates a new generation job processor.
func NewGenerateJob(cfg GenerateJobConfig) *GenerateJob {
	return &GenerateJob{
		config:  cfg.Config.withDefaults(),
		logger:  cfg.Logger,
		planner: cfg.Planner,
		repo:    cfg.Repo,
		metrics: &GenerateMetrics{},
	}
}

// Process runs a single generation job to completion. The returned error
// is an infrastructure error only; provider failures mark the job FAILED
// and are not reported here, so the message source does not redeliver them.
func (j *GenerateJob) Process(ctx context.Context, generationID string) error {
	startTime := time.Now()

	jobCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	err := j.planner.Run(jobCtx, generationID)
	duration := time.Since(startTime)

	if err != nil {
		j.logger.Error().Err(err).
			Str("generation_id", generationID).
			Dur("duration", duration).
			Msg("generation job failed")
		j.recordJob(duration, planner.StatusFailed)
		return err
	}

	status := j.jobStatus(ctx, generationID)
	j.recordJob(duration, status)

	j.logger.Info().
		Str("generation_id", generationID).
		Str("status", string(status)).
		Dur("duration", duration).
		Msg("generation job completed")

	return nil
}

// SweepResult contains the result of one pending sweep.
type SweepResult struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Total     int
	Processed int
	Failed    int
}

// SweepPending reprocesses PENDING jobs older than the configured cutoff.
// This recovers jobs whose enqueue message was lost; a job picked up by a
// concurrent worker in the meantime is skipped by the non-pending check
// inside the planner.
func (j *GenerateJob) SweepPending(ctx context.Context) (*SweepResult, error) {
	startTime := time.Now()
	cutoff := startTime.Add(-j.config.SweepAfter)

	pending, err := j.repo.ListPending(ctx, cutoff, j.config.SweepBatchSize)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{
		StartTime: startTime,
		Total:     len(pending),
	}

	if len(pending) == 0 {
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		return result, nil
	}

	j.logger.Info().
		Int("pending", len(pending)).
		Int("concurrency", j.config.Concurrency).
		Msg("starting pending sweep")

	jobs := make(chan string, len(pending))
	outcomes := make(chan error, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				select {
				case <-ctx.Done():
					outcomes <- ctx.Err()
				default:
					outcomes <- j.Process(ctx, id)
				}
			}
		}()
	}

	for _, gen := range pending {
		jobs <- gen.ID
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for err := range outcomes {
		if err != nil {
			result.Failed++
		} else {
			result.Processed++
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.metrics.mu.Lock()
	j.metrics.SweptJobs += int64(result.Processed)
	j.metrics.mu.Unlock()

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("processed", result.Processed).
		Int("failed", result.Failed).
		Msg("pending sweep completed")

	return result, nil
}

// jobStatus reads back the job's state after a run. Run returning nil
// still covers both READY and FAILED outcomes.
func (j *GenerateJob) jobStatus(ctx context.Context, generationID string) planner.Status {
	gen, err := j.repo.GetByID(ctx, generationID)
	if err != nil {
		return planner.StatusFailed
	}
	return gen.Status
}

func (j *GenerateJob) recordJob(duration time.Duration, status planner.Status) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalJobs++
	switch status {
	case planner.StatusReady:
		j.metrics.ReadyJobs++
	case planner.StatusFailed:
		j.metrics.FailedJobs++
	}
	j.metrics.LastJobAt = time.Now()
	j.metrics.LastJobDuration = duration
	j.metrics.TotalDuration += duration
}

// GetMetrics returns a copy of the current metrics.
func (j *GenerateJob) GetMetrics() GenerateMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return GenerateMetrics{
		TotalJobs:       j.metrics.TotalJobs,
		ReadyJobs:       j.metrics.ReadyJobs,
		FailedJobs:      j.metrics.FailedJobs,
		SweptJobs:       j.metrics.SweptJobs,
		LastJobAt:       j.metrics.LastJobAt,
		LastJobDuration: j.metrics.LastJobDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *GenerateJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_jobs":        m.TotalJobs,
		"ready_jobs":        m.ReadyJobs,
		"failed_jobs":       m.FailedJobs,
		"swept_jobs":        m.SweptJobs,
		"last_job_at":       m.LastJobAt,
		"last_job_duration": m.LastJobDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
