// Package llm provides a chat-completions client that turns a generation
// request into a candidate itinerary.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfarerhq/wayfarer/internal/planner"
	"github.com/wayfarerhq/wayfarer/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the chat-completions API.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gpt-4o-mini"

	// ProviderName identifies this provider.
	ProviderName = "llm"
)

// ClientConfig holds configuration for the LLM client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// APIKey is the bearer token for the API.
	APIKey string

	// Model is the model name (defaults to DefaultModel).
	Model string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 60s).
	Timeout time.Duration

	Logger zerolog.Logger
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a chat-completions API client producing candidate itineraries.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new LLM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      2,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     10 * time.Second,
			Registry:        resilience.GlobalRegistry,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      model,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// API request/response types (chat-completions wire format).

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

const systemPrompt = `You are a travel planner. Respond with a single JSON object, no prose, shaped as:
{"title": string, "description": string,
 "locations": [{"lat": number, "lon": number}],
 "dayPlans": [{"date": "YYYY-MM-DD",
   "routePlan": {"distanceKm": number, "timeMinutes": number, "description": string, "locations": [{"lat": number, "lon": number}]},
   "activities": [{"location": {"lat": number, "lon": number}, "startTime": "HH:mm", "endTime": "HH:mm", "type": string, "note": string, "cost": number}],
   "notes": [string]}]}
Activities within a day must not overlap and must be ordered by start time. Costs are per group, in the local currency.`

// GenerateCandidate asks the model for a candidate itinerary matching the
// generation request.
func (c *Client) GenerateCandidate(ctx context.Context, gen *planner.Generation) (*planner.Candidate, error) {
	userPrompt := fmt.Sprintf(
		"Plan a trip to %s starting %s for %d day(s), %d traveler(s), %s budget. Cover exactly the dates %s through %s, one dayPlans entry per date.",
		gen.Location,
		gen.StartDate.Format("2006-01-02"),
		gen.NumberOfDays,
		gen.NumberOfPeople,
		strings.ToLower(string(gen.BudgetLevel)),
		gen.StartDate.Format("2006-01-02"),
		gen.EndDate().Format("2006-01-02"),
	)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d from chat completions endpoint: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("chat response has no choices")
	}

	content := result.Choices[0].Message.Content
	candidate, err := parseCandidate(content)
	if err != nil {
		c.logger.Debug().Str("content", content).Msg("unparseable model output")
		return nil, err
	}
	return candidate, nil
}

// parseCandidate decodes the model's message content into a candidate.
// Models occasionally wrap JSON in a markdown fence even when asked not
// to, so fences are stripped before decoding.
func parseCandidate(content string) (*planner.Candidate, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}

	var candidate planner.Candidate
	if err := json.Unmarshal([]byte(content), &candidate); err != nil {
		return nil, fmt.Errorf("decode candidate itinerary: %w", err)
	}
	return &candidate, nil
}
