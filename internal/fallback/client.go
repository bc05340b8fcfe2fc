// Package fallback provides the higher-cost extraction path: an external
// structured-text-understanding capability invoked when the deterministic
// cascade cannot produce a confident result.
package fallback

import (
	"context"
)

// Payload is the capability's response contract. Fields mirror the target
// transaction record; timestamp is ISO-8601 and may be timezone-naive.
type Payload struct {
	Amount       float64  `json:"amount"`
	Currency     string   `json:"currency"`
	Timestamp    string   `json:"timestamp"`
	CardSuffix   string   `json:"card_suffix,omitempty"`
	Counterparty string   `json:"counterparty,omitempty"`
	Kind         string   `json:"kind"`
	BalanceAfter *float64 `json:"balance_after,omitempty"`
	Confidence   float64  `json:"confidence"`
}

// Client is the abstract structured-text-understanding capability. The
// production implementation talks to an AI service; tests use a
// deterministic stub returning canned payloads.
type Client interface {
	// Extract analyzes raw notification text and returns a structured
	// payload, or an error when the capability cannot produce one.
	Extract(ctx context.Context, text string) (*Payload, error)
}
