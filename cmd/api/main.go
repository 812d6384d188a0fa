// Package main provides the entrypoint for the Wayfarer API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfarerhq/wayfarer/internal/api"
	"github.com/wayfarerhq/wayfarer/internal/api/middleware"
	"github.com/wayfarerhq/wayfarer/internal/auth"
	"github.com/wayfarerhq/wayfarer/internal/database"
	"github.com/wayfarerhq/wayfarer/internal/featureflags"
	"github.com/wayfarerhq/wayfarer/internal/journal"
	"github.com/wayfarerhq/wayfarer/internal/planner"
	"github.com/wayfarerhq/wayfarer/internal/planner/llm"
	"github.com/wayfarerhq/wayfarer/internal/provider/resilience"
	"github.com/wayfarerhq/wayfarer/internal/social"
	"github.com/wayfarerhq/wayfarer/internal/telemetry"
	"github.com/wayfarerhq/wayfarer/internal/trip"
	"github.com/wayfarerhq/wayfarer/internal/user"
	"github.com/wayfarerhq/wayfarer/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "wayfarer-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Wayfarer API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize auth repositories and service
	authUserRepo := auth.NewPostgresUserRepository(pool)
	authRefreshRepo := auth.NewPostgresRefreshTokenRepository(pool)

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		UserRepo:    authUserRepo,
		RefreshRepo: authRefreshRepo,
	})
	log.Info().Msg("auth service initialized")

	// Initialize user repository and service
	userService := user.NewService(user.NewPostgresRepository(pool))
	log.Info().Msg("user service initialized")

	// Initialize trip repository and service
	tripService := trip.NewService(trip.NewPostgresRepository(pool))
	log.Info().Msg("trip service initialized")

	// Initialize journal repository and service
	journalService := journal.NewService(journal.NewPostgresRepository(pool))
	log.Info().Msg("journal service initialized")

	// Initialize social repository and service
	socialService := social.NewService(social.NewPostgresRepository(pool))
	log.Info().Msg("social service initialized")

	// Initialize feature flags repository and service
	ffRepo := featureflags.NewPostgresRepository(pool)
	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: ffRepo,
		Logger:     log,
		CacheTTL:   1 * time.Minute,
	})
	log.Info().Msg("feature flags service initialized")

	// Initialize the LLM generator. The model can be overridden at
	// runtime through the llm_model_override flag.
	llmAPIKey := os.Getenv("LLM_API_KEY")
	if llmAPIKey == "" {
		log.Warn().Msg("LLM_API_KEY not set - itinerary generation will fail")
	}
	generator := llm.NewClient(llm.ClientConfig{
		BaseURL: os.Getenv("LLM_BASE_URL"),
		APIKey:  llmAPIKey,
		Model:   ffService.LLMModelOverride(ctx, os.Getenv("LLM_MODEL")),
		Logger:  log,
	})

	// Generation jobs are enqueued on Pub/Sub when a topic is
	// configured; otherwise they run inline in this process.
	plannerRepo := planner.NewPostgresRepository(pool)
	var publisher planner.Publisher
	topicName := os.Getenv("PUBSUB_TOPIC")
	if topicName != "" {
		pub, err := worker.NewPublisher(ctx, worker.PublisherConfig{
			ProjectID: os.Getenv("GOOGLE_CLOUD_PROJECT"),
			TopicName: topicName,
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub publisher")
		}
		defer func() {
			if closeErr := pub.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub publisher")
			}
		}()
		publisher = pub
		log.Info().Str("topic", topicName).Msg("generation publisher initialized")
	} else {
		log.Warn().Msg("PUBSUB_TOPIC not set - generation jobs run inline")
	}

	plannerService := planner.NewService(planner.ServiceConfig{
		Repo:      plannerRepo,
		Trips:     tripService,
		Generator: generator,
		Publisher: publisher,
		Logger:    log,
	})
	log.Info().Msg("planner service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		Pool:               pool,
		ProviderRegistry:   resilience.GlobalRegistry,
		AuthService:        authService,
		UserService:        userService,
		TripService:        tripService,
		JournalService:     journalService,
		SocialService:      socialService,
		PlannerService:     plannerService,
		FeatureFlagService: ffService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
