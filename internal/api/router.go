// Package api provides the HTTP API for Wayfarer.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/wayfarerhq/wayfarer/internal/api/handler"
	"github.com/wayfarerhq/wayfarer/internal/api/middleware"
	"github.com/wayfarerhq/wayfarer/internal/auth"
	"github.com/wayfarerhq/wayfarer/internal/featureflags"
	"github.com/wayfarerhq/wayfarer/internal/journal"
	"github.com/wayfarerhq/wayfarer/internal/planner"
	"github.com/wayfarerhq/wayfarer/internal/provider/resilience"
	"github.com/wayfarerhq/wayfarer/internal/social"
	"github.com/wayfarerhq/wayfarer/internal/trip"
	"github.com/wayfarerhq/wayfarer/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version            string
	BuildTime          string
	Logger             zerolog.Logger
	ServiceName        string
	Metrics            *middleware.Metrics
	Pool               *pgxpool.Pool
	ProviderRegistry   *resilience.Registry
	AuthService        *auth.Service
	UserService        *user.Service
	TripService        *trip.Service
	JournalService     *journal.Service
	SocialService      *social.Service
	PlannerService     *planner.Service
	FeatureFlagService *featureflags.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "wayfarer-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Pool, cfg.ProviderRegistry)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.UserService, cfg.FeatureFlagService)
	meHandler := handler.NewMeHandler(cfg.UserService)
	itineraryHandler := handler.NewItineraryHandler(cfg.TripService)
	journalHandler := handler.NewJournalHandler(cfg.JournalService)
	socialHandler := handler.NewSocialHandler(cfg.SocialService, cfg.FeatureFlagService)
	plannerHandler := handler.NewPlannerHandler(cfg.PlannerService, cfg.FeatureFlagService)
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService)

	authMiddleware := middleware.Auth(cfg.AuthService)

	// Rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)         // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			// logout-all requires authentication
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
			r.Get("/", meHandler.GetMe)
			r.Put("/", meHandler.UpdateMe)

			// Itineraries
			r.Route("/itineraries", func(r chi.Router) {
				r.Get("/", itineraryHandler.ListItineraries)
				r.Post("/", itineraryHandler.CreateItinerary)
				r.Route("/{itineraryId}", func(r chi.Router) {
					r.Get("/", itineraryHandler.GetItinerary)
					r.Put("/", itineraryHandler.UpdateItinerary)
					r.Delete("/", itineraryHandler.DeleteItinerary)
				})
			})

			// Journals
			r.Route("/journals", func(r chi.Router) {
				r.Get("/", journalHandler.ListJournals)
				r.Post("/", journalHandler.CreateJournal)
				r.Route("/{journalId}", func(r chi.Router) {
					r.Get("/", journalHandler.GetJournal)
					r.Put("/", journalHandler.UpdateJournal)
					r.Delete("/", journalHandler.DeleteJournal)
				})
			})

			// Saved posts
			r.Get("/saved-posts", socialHandler.SavedPosts)
		})

		// Social endpoints (authenticated)
		r.Route("/posts", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Get("/", socialHandler.Feed)
			r.Post("/", socialHandler.CreatePost)
			r.Route("/{postId}", func(r chi.Router) {
				r.Get("/", socialHandler.GetPost)
				r.Delete("/", socialHandler.DeletePost)
				r.Put("/like", socialHandler.LikePost)
				r.Delete("/like", socialHandler.UnlikePost)
				r.Put("/save", socialHandler.SavePost)
				r.Delete("/save", socialHandler.UnsavePost)
				r.Route("/comments", func(r chi.Router) {
					r.Get("/", socialHandler.ListComments)
					r.Post("/", socialHandler.AddComment)
					r.Delete("/{commentId}", socialHandler.DeleteComment)
				})
			})
		})

		// Planner endpoints (authenticated). Generation is expensive, so
		// creation gets the strict per-user limit.
		r.Route("/planner/generations", func(r chi.Router) {
			r.Use(authMiddleware)
			r.With(middleware.RateLimitByUser(middleware.GenerationRateLimit)).
				Post("/", plannerHandler.CreateGeneration)
			r.With(middleware.RateLimitByUser(middleware.StandardRateLimit)).
				Get("/{generationId}", plannerHandler.GetGeneration)
		})

		// Admin endpoints (authenticated) - for internal operations
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)

			// Feature flags management
			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFeatureFlags)
				r.Put("/", featureFlagsHandler.UpsertFeatureFlags)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})
		})
	})

	return r
}
