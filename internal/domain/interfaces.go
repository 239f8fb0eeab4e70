package domain

import "context"

// RateSource provides the rate card used for a computation.
type RateSource interface {
	// Current returns the rate card in effect.
	Current() *RateCard
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
