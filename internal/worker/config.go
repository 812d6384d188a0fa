// Package worker provides background job processing for Wayfarer.
package worker

import (
	"time"
)

// GenerateConfig holds configuration for the itinerary generation job.
type GenerateConfig struct {
	// Concurrency is the number of jobs processed in parallel during a
	// pending sweep.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for a single generation job, including the
	// provider call.
	// Default: 90 seconds
	Timeout time.Duration

	// SweepAfter is how old a PENDING job must be before the sweep
	// picks it up. Jobs younger than this are assumed to still have a
	// message in flight.
	// Default: 5 minutes
	SweepAfter time.Duration

	// SweepBatchSize is the maximum number of jobs one sweep processes.
	// Default: 50
	SweepBatchSize int
}

// DefaultGenerateConfig returns the default generation job configuration.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Concurrency:    3,
		Timeout:        90 * time.Second,
		SweepAfter:     5 * time.Minute,
		SweepBatchSize: 50,
	}
}

func (c GenerateConfig) withDefaults() GenerateConfig {
	def := DefaultGenerateConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.SweepAfter <= 0 {
		c.SweepAfter = def.SweepAfter
	}
	if c.SweepBatchSize <= 0 {
		c.SweepBatchSize = def.SweepBatchSize
	}
	return c
}
