package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meetdesk/irevents/services/booking-service/internal/booking"
	"github.com/meetdesk/irevents/services/booking-service/internal/model"
)

const slotColumns = `id, event_id, slot_type, start_time, end_time, bookable_seats, booked_seats, created_at`

func (s *Store) CreateSlot(ctx context.Context, slot model.Slot) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO slots (id, event_id, slot_type, start_time, end_time, bookable_seats, booked_seats)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
	`, slot.ID, slot.EventID, slot.SlotType, slot.StartTime, slot.EndTime, slot.BookableSeats)
	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

func (s *Store) GetSlot(ctx context.Context, slotID string) (model.Slot, error) {
	var slot model.Slot
	err := s.q(ctx).QueryRow(ctx, `
		SELECT `+slotColumns+` FROM slots WHERE id = $1
	`, slotID).Scan(&slot.ID, &slot.EventID, &slot.SlotType, &slot.StartTime, &slot.EndTime, &slot.BookableSeats, &slot.BookedSeats, &slot.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Slot{}, booking.ErrSlotNotFound
		}
		return model.Slot{}, fmt.Errorf("get slot: %w", err)
	}
	return slot, nil
}

func (s *Store) ListSlots(ctx context.Context, eventID string) ([]model.Slot, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+slotColumns+` FROM slots WHERE event_id = $1 ORDER BY start_time, id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []model.Slot
	for rows.Next() {
		var slot model.Slot
		if err := rows.Scan(&slot.ID, &slot.EventID, &slot.SlotType, &slot.StartTime, &slot.EndTime, &slot.BookableSeats, &slot.BookedSeats, &slot.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return slots, nil
}

// IncrementBooked consumes one seat. The WHERE clause is the capacity check,
// so two racing confirmations can never both succeed on the last seat.
func (s *Store) IncrementBooked(ctx context.Context, slotID string) error {
	tag, err := s.q(ctx).Exec(ctx, `
		UPDATE slots
		SET booked_seats = booked_seats + 1
		WHERE id = $1 AND booked_seats < bookable_seats
	`, slotID)
	if err != nil {
		if isCheckViolation(err) {
			return booking.ErrCapacityExceeded
		}
		return fmt.Errorf("increment booked seats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the slot is gone or it is full; disambiguate for the caller.
		if _, getErr := s.GetSlot(ctx, slotID); getErr != nil {
			return getErr
		}
		return booking.ErrCapacityExceeded
	}
	return nil
}

// DecrementBooked frees one seat, flooring at zero so replayed deletes are
// harmless.
func (s *Store) DecrementBooked(ctx context.Context, slotID string) error {
	_, err := s.q(ctx).Exec(ctx, `
		UPDATE slots
		SET booked_seats = GREATEST(booked_seats - 1, 0)
		WHERE id = $1
	`, slotID)
	if err != nil {
		return fmt.Errorf("decrement booked seats: %w", err)
	}
	return nil
}

func (s *Store) DeleteSlot(ctx context.Context, slotID string) error {
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM slots WHERE id = $1`, slotID)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrSlotNotFound
	}
	return nil
}
