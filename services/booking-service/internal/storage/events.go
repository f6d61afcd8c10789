package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meetdesk/irevents/services/booking-service/internal/booking"
	"github.com/meetdesk/irevents/services/booking-service/internal/model"
)

const eventColumns = `id, title, kind, owner_id, invitees_only, draft, cancelled, created_at`

func (s *Store) CreateEvent(ctx context.Context, ev model.Event) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO events (id, title, kind, owner_id, invitees_only, draft, cancelled)
		VALUES ($1, $2, $3, $4, $5, $6, false)
	`, ev.ID, ev.Title, ev.Kind, ev.OwnerID, ev.InviteesOnly, ev.Draft)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, eventID string) (model.Event, error) {
	return s.scanEvent(s.q(ctx).QueryRow(ctx, `
		SELECT `+eventColumns+` FROM events WHERE id = $1
	`, eventID))
}

// GetEventForUpdate locks the event row for the rest of the transaction.
// Every writer that touches an event's slots locks the event first, so
// confirmations and cascades against one event are serialized.
func (s *Store) GetEventForUpdate(ctx context.Context, eventID string) (model.Event, error) {
	return s.scanEvent(s.q(ctx).QueryRow(ctx, `
		SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE
	`, eventID))
}

func (s *Store) MarkEventCancelled(ctx context.Context, eventID string) error {
	tag, err := s.q(ctx).Exec(ctx, `
		UPDATE events SET cancelled = true WHERE id = $1
	`, eventID)
	if err != nil {
		return fmt.Errorf("cancel event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrEventNotFound
	}
	return nil
}

func (s *Store) scanEvent(row pgx.Row) (model.Event, error) {
	var ev model.Event
	err := row.Scan(&ev.ID, &ev.Title, &ev.Kind, &ev.OwnerID, &ev.InviteesOnly, &ev.Draft, &ev.Cancelled, &ev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Event{}, booking.ErrEventNotFound
		}
		return model.Event{}, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}
