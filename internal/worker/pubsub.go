package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/wayfarerhq/wayfarer/internal/planner"
)

var _ planner.Publisher = (*Publisher)(nil)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	generateJob      *GenerateJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	GenerateJob      *GenerateJob
	Logger           zerolog.Logger
}

// GenerationMessage represents a generation job message.
type GenerationMessage struct {
	JobType      string `json:"job_type"`
	GenerationID string `json:"generation_id,omitempty"`
}

// Job types understood by the worker.
const (
	JobTypeGenerate = "generate_itinerary"
	JobTypeSweep    = "pending_sweep"
)

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Generation jobs hold the message for the whole provider call.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		generateJob:      cfg.GenerateJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var genMsg GenerationMessage
	if err := json.Unmarshal(msg.Data, &genMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch genMsg.JobType {
	case JobTypeGenerate:
		err = h.handleGenerate(ctx, genMsg)
	case JobTypeSweep:
		err = h.handleSweep(ctx)
	default:
		logger.Warn().Str("job_type", genMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", genMsg.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleGenerate(ctx context.Context, msg GenerationMessage) error {
	if msg.GenerationID == "" {
		// Nothing to retry without an ID.
		h.logger.Warn().Msg("generate message without generation_id")
		return nil
	}
	return h.generateJob.Process(ctx, msg.GenerationID)
}

func (h *PubSubHandler) handleSweep(ctx context.Context) error {
	result, err := h.generateJob.SweepPending(ctx)
	if err != nil {
		return err
	}

	h.logger.Info().
		Int("total", result.Total).
		Int("processed", result.Processed).
		Int("failed", result.Failed).
		Msg("sweep finished")
	return nil
}

// Publisher enqueues generation jobs on a Pub/Sub topic. It implements
// planner.Publisher.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// PublisherConfig holds configuration for the Pub/Sub publisher.
type PublisherConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPublisher creates a publisher for generation job messages.
func NewPublisher(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &Publisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger,
	}, nil
}

// PublishGeneration enqueues one generation job.
func (p *Publisher) PublishGeneration(ctx context.Context, generationID string) error {
	data, err := json.Marshal(GenerationMessage{
		JobType:      JobTypeGenerate,
		GenerationID: generationID,
	})
	if err != nil {
		return fmt.Errorf("encoding generation message: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing generation message: %w", err)
	}

	p.logger.Debug().
		Str("generation_id", generationID).
		Str("topic", p.topicName).
		Msg("generation job enqueued")
	return nil
}

// Close closes the Pub/Sub client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
