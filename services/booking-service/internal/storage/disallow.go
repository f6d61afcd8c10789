package storage

import (
	"context"
	"fmt"
)

func (s *Store) IsDisallowed(ctx context.Context, slotID, requesterID string) (bool, error) {
	var disallowed bool
	err := s.q(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM slot_disallow
			WHERE slot_id = $1 AND requester_id = $2
		)
	`, slotID, requesterID).Scan(&disallowed)
	if err != nil {
		return false, fmt.Errorf("check disallow: %w", err)
	}
	return disallowed, nil
}

func (s *Store) AddDisallowed(ctx context.Context, slotID, requesterID string) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO slot_disallow (slot_id, requester_id)
		VALUES ($1, $2)
		ON CONFLICT (slot_id, requester_id) DO NOTHING
	`, slotID, requesterID)
	if err != nil {
		return fmt.Errorf("add disallow: %w", err)
	}
	return nil
}

func (s *Store) RemoveDisallowed(ctx context.Context, slotID, requesterID string) error {
	_, err := s.q(ctx).Exec(ctx, `
		DELETE FROM slot_disallow
		WHERE slot_id = $1 AND requester_id = $2
	`, slotID, requesterID)
	if err != nil {
		return fmt.Errorf("remove disallow: %w", err)
	}
	return nil
}

// AddDisallowedSiblings bars the requester from every other slot of the
// event, which is what keeps a confirmed requester to one slot per event.
func (s *Store) AddDisallowedSiblings(ctx context.Context, eventID, exceptSlotID, requesterID string) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO slot_disallow (slot_id, requester_id)
		SELECT id, $3 FROM slots
		WHERE event_id = $1 AND id <> $2
		ON CONFLICT (slot_id, requester_id) DO NOTHING
	`, eventID, exceptSlotID, requesterID)
	if err != nil {
		return fmt.Errorf("add sibling disallows: %w", err)
	}
	return nil
}

func (s *Store) RemoveDisallowedSiblings(ctx context.Context, eventID, exceptSlotID, requesterID string) error {
	_, err := s.q(ctx).Exec(ctx, `
		DELETE FROM slot_disallow
		WHERE requester_id = $2
		  AND slot_id IN (SELECT id FROM slots WHERE event_id = $1 AND id <> $3)
	`, eventID, requesterID, exceptSlotID)
	if err != nil {
		return fmt.Errorf("remove sibling disallows: %w", err)
	}
	return nil
}

func (s *Store) DeleteDisallowedBySlot(ctx context.Context, slotID string) error {
	_, err := s.q(ctx).Exec(ctx, `DELETE FROM slot_disallow WHERE slot_id = $1`, slotID)
	if err != nil {
		return fmt.Errorf("delete disallows by slot: %w", err)
	}
	return nil
}
