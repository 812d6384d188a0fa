// Package main provides the entrypoint for the Wayfarer background worker.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfarerhq/wayfarer/internal/database"
	"github.com/wayfarerhq/wayfarer/internal/featureflags"
	"github.com/wayfarerhq/wayfarer/internal/planner"
	"github.com/wayfarerhq/wayfarer/internal/planner/llm"
	"github.com/wayfarerhq/wayfarer/internal/trip"
	"github.com/wayfarerhq/wayfarer/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "wayfarer-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Wayfarer worker")

	// Worker also exposes a health endpoint for Cloud Run.
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewPostgresRepository(pool),
		Logger:     log,
	})

	llmAPIKey := os.Getenv("LLM_API_KEY")
	if llmAPIKey == "" {
		log.Warn().Msg("LLM_API_KEY not set - generation jobs will fail")
	}
	generator := llm.NewClient(llm.ClientConfig{
		BaseURL: os.Getenv("LLM_BASE_URL"),
		APIKey:  llmAPIKey,
		Model:   ffService.LLMModelOverride(ctx, os.Getenv("LLM_MODEL")),
		Logger:  log,
	})

	plannerRepo := planner.NewPostgresRepository(pool)
	plannerService := planner.NewService(planner.ServiceConfig{
		Repo:      plannerRepo,
		Trips:     trip.NewService(trip.NewPostgresRepository(pool)),
		Generator: generator,
		Logger:    log,
	})

	generateJob := worker.NewGenerateJob(worker.GenerateJobConfig{
		Config:  worker.DefaultGenerateConfig(),
		Logger:  log,
		Planner: plannerService,
		Repo:    plannerRepo,
	})

	// HTTP server for health checks and metrics.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"version": Version,
		})
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(generateJob.MetricsSnapshot())
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Consume generation jobs from Pub/Sub when configured; fall back
	// to a periodic pending sweep otherwise.
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if subscription != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        os.Getenv("GOOGLE_CLOUD_PROJECT"),
			SubscriptionName: subscription,
			GenerateJob:      generateJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer func() {
			if closeErr := handler.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub handler")
			}
		}()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub handler stopped")
			}
		}()
		log.Info().Str("subscription", subscription).Msg("pubsub consumer started")
	} else {
		log.Warn().Msg("PUBSUB_SUBSCRIPTION not set - running sweep loop only")
	}

	// The sweep also recovers jobs whose enqueue message was lost.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := generateJob.SweepPending(ctx); err != nil {
					log.Error().Err(err).Msg("pending sweep failed")
				}
			}
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
