package storage

import (
	"context"
	"fmt"

	otelx "github.com/meetdesk/irevents/libs/otel"
	"github.com/meetdesk/irevents/services/booking-service/internal/outbox"
)

// EnqueueEvent appends a notification event to the transactional outbox in
// the same transaction as the state change it announces. The outbox publisher
// relays the row to Kafka after commit.
func (s *Store) EnqueueEvent(ctx context.Context, evt outbox.Event) error {
	traceparent, tracestate := otelx.TraceContextStrings(ctx)
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO outbox_events (aggregate_type, aggregate_id, event_type, payload, traceparent, tracestate)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, evt.AggregateType, evt.AggregateID, evt.EventType, evt.Payload, traceparent, tracestate)
	if err != nil {
		return fmt.Errorf("enqueue outbox event: %w", err)
	}
	return nil
}
