// Package featureflags provides feature flag management for runtime configuration.
package featureflags

import (
	"encoding/json"
	"time"
)

// Well-known feature flag keys.
const (
	// FlagDisableAIGeneration is the kill switch for AI itinerary generation.
	// When enabled, POST /planner/generations returns 503 and the worker
	// does not pick up new jobs.
	FlagDisableAIGeneration = "disable_ai_generation"

	// FlagDisablePublicFeed hides the public feed; posts remain readable
	// by their authors.
	FlagDisablePublicFeed = "disable_public_feed"

	// FlagDisableSignups prevents new account registration.
	FlagDisableSignups = "disable_signups"

	// FlagMaxGenerationDays overrides the upper bound on trip length for
	// AI generation requests.
	FlagMaxGenerationDays = "max_generation_days"

	// FlagLLMModelOverride replaces the configured LLM model for new
	// generation jobs.
	FlagLLMModelOverride = "llm_model_override"
)

// Flag represents a feature flag with its current value.
type Flag struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// FlagList represents a list of feature flags.
type FlagList struct {
	Items []Flag `json:"items"`
}

// FlagUpdate represents a single flag update request.
type FlagUpdate struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// FlagUpdateRequest represents a request to update feature flags.
type FlagUpdateRequest struct {
	Updates []FlagUpdate `json:"updates"`
	Reason  string       `json:"reason"`
}

// BoolValue returns the flag value as a boolean.
// Returns the default value if the flag is nil, not found, or not a boolean.
func (f *Flag) BoolValue(defaultValue bool) bool {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case bool:
		return v
	case float64:
		// JSON unmarshals numbers as float64
		return v != 0
	default:
		return defaultValue
	}
}

// StringValue returns the flag value as a string.
// Returns the default value if the flag is nil, not found, or not a string.
func (f *Flag) StringValue(defaultValue string) string {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case string:
		return v
	default:
		return defaultValue
	}
}

// IntValue returns the flag value as an integer.
// Returns the default value if the flag is nil, not found, or not a number.
func (f *Flag) IntValue(defaultValue int) int {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case float64:
		// JSON unmarshals numbers as float64
		return int(v)
	case int:
		return v
	default:
		return defaultValue
	}
}

// Float64Value returns the flag value as a float64.
// Returns the default value if the flag is nil, not found, or not a number.
func (f *Flag) Float64Value(defaultValue float64) float64 {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return defaultValue
	}
}

// JSONValue unmarshals the flag value into the target struct.
// Returns an error if unmarshaling fails.
func (f *Flag) JSONValue(target interface{}) error {
	if f == nil {
		return nil
	}
	data, err := json.Marshal(f.Value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// DefaultFlags returns the default feature flags for the application.
func DefaultFlags() map[string]*Flag {
	now := time.Now()
	return map[string]*Flag{
		FlagDisableAIGeneration: {
			Key:       FlagDisableAIGeneration,
			Value:     false,
			UpdatedAt: now,
		},
		FlagDisablePublicFeed: {
			Key:       FlagDisablePublicFeed,
			Value:     false,
			UpdatedAt: now,
		},
		FlagDisableSignups: {
			Key:       FlagDisableSignups,
			Value:     false,
			UpdatedAt: now,
		},
		FlagMaxGenerationDays: {
			Key:       FlagMaxGenerationDays,
			Value:     7,
			UpdatedAt: now,
		},
		FlagLLMModelOverride: {
			Key:       FlagLLMModelOverride,
			Value:     "",
			UpdatedAt: now,
		},
	}
}
