package storage

import (
	"context"
	"fmt"

	"github.com/meetdesk/irevents/services/booking-service/internal/model"
)

func (s *Store) AppendHistory(ctx context.Context, entry model.HistoryEntry) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO inquiry_history (event_id, slot_id, requester_id, status, actor_id)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.EventID, entry.SlotID, entry.RequesterID, entry.Status, entry.ActorID)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// HasOwnerRejection reports whether anyone other than the requester recorded
// a rejection against this slot. That record outlives the inquiry row and is
// what blocks re-inquiry after a rejection.
func (s *Store) HasOwnerRejection(ctx context.Context, slotID, requesterID string) (bool, error) {
	var rejected bool
	err := s.q(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM inquiry_history
			WHERE slot_id = $1
			  AND requester_id = $2
			  AND status = $3
			  AND actor_id <> $2
		)
	`, slotID, requesterID, model.InquiryStatusRejected).Scan(&rejected)
	if err != nil {
		return false, fmt.Errorf("check rejection history: %w", err)
	}
	return rejected, nil
}

// DeleteHistoryBySlot removes the slot's audit trail. Only the slot-deletion
// cascade calls this; history is scoped to the slot's lifetime.
func (s *Store) DeleteHistoryBySlot(ctx context.Context, slotID string) error {
	_, err := s.q(ctx).Exec(ctx, `DELETE FROM inquiry_history WHERE slot_id = $1`, slotID)
	if err != nil {
		return fmt.Errorf("delete history by slot: %w", err)
	}
	return nil
}
