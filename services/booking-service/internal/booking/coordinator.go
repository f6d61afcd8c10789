package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meetdesk/irevents/services/booking-service/internal/cache"
	"github.com/meetdesk/irevents/services/booking-service/internal/directory"
	"github.com/meetdesk/irevents/services/booking-service/internal/model"
	"github.com/meetdesk/irevents/services/booking-service/internal/outbox"
)

// Coordinator owns the booking state machine for both corporate events and
// open meetings: inquiry creation, confirmation against slot capacity, the
// per-event disallow bookkeeping, and the slot-deletion cascade. Every
// mutation runs as one Store transaction; notification events ride the same
// transaction through the outbox.
type Coordinator struct {
	store     Store
	directory directory.Provider
	slotCache *cache.SlotCache
	logger    *slog.Logger
}

func NewCoordinator(store Store, dir directory.Provider, slotCache *cache.SlotCache, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		store:     store,
		directory: dir,
		slotCache: slotCache,
		logger:    logger,
	}
}

// CreateInquiry opens a new INQUIRED inquiry for the requester on the slot.
// Capacity is not checked here; seats are only consumed at confirmation.
func (c *Coordinator) CreateInquiry(ctx context.Context, requesterID, eventID, slotID string) (model.Inquiry, error) {
	meta, err := c.directory.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, directory.ErrEventNotFound) {
			return model.Inquiry{}, ErrEventNotFound
		}
		return model.Inquiry{}, fmt.Errorf("event lookup: %w", err)
	}
	if meta.Cancelled {
		return model.Inquiry{}, ErrEventCancelled
	}
	// Drafts are invisible to everyone but their owner.
	if meta.Draft && requesterID != meta.OwnerID {
		return model.Inquiry{}, ErrEventNotFound
	}
	if meta.InviteesOnly && requesterID != meta.OwnerID {
		invited, err := c.directory.IsInvited(ctx, eventID, requesterID)
		if err != nil {
			return model.Inquiry{}, fmt.Errorf("invitee lookup: %w", err)
		}
		if !invited {
			return model.Inquiry{}, ErrNotInvited
		}
	}

	inq := model.Inquiry{
		ID:          uuid.NewString(),
		EventID:     eventID,
		SlotID:      slotID,
		RequesterID: requesterID,
		Status:      model.InquiryStatusInquired,
	}

	err = c.store.WithTx(ctx, func(ctx context.Context) error {
		ev, err := c.store.GetEventForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if ev.Cancelled {
			return ErrEventCancelled
		}

		slot, err := c.store.GetSlot(ctx, slotID)
		if err != nil {
			return err
		}
		if slot.EventID != eventID {
			return ErrSlotNotFound
		}

		// A rejection also plants a disallow entry; check the history first
		// so the requester sees the more specific error.
		rejected, err := c.store.HasOwnerRejection(ctx, slotID, requesterID)
		if err != nil {
			return err
		}
		if rejected {
			return ErrPreviouslyRejected
		}

		disallowed, err := c.store.IsDisallowed(ctx, slotID, requesterID)
		if err != nil {
			return err
		}
		if disallowed {
			return ErrSlotDisallowed
		}

		existing, err := c.store.GetLiveInquiry(ctx, slotID, requesterID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateInquiry
		}

		if err := c.store.CreateInquiry(ctx, inq); err != nil {
			return err
		}
		if err := c.appendHistory(ctx, inq, model.InquiryStatusInquired, requesterID); err != nil {
			return err
		}
		return c.emitInquiryEvent(ctx, outbox.TopicInquiryCreated, inq)
	})
	if err != nil {
		return model.Inquiry{}, err
	}

	c.logger.Info("inquiry created",
		"inquiry_id", inq.ID,
		"event_id", eventID,
		"slot_id", slotID,
		"requester_id", requesterID,
	)
	return inq, nil
}

// ConfirmInquiry grants the slot to the inquiry, consuming one seat. Only the
// event owner may confirm. The event row lock serializes concurrent
// confirmations, and the conditional seat increment rejects the loser of a
// capacity race with ErrCapacityExceeded. Confirming an already-confirmed
// inquiry is a no-op so retries after a timeout stay safe.
func (c *Coordinator) ConfirmInquiry(ctx context.Context, actorID, inquiryID string) error {
	var confirmed model.Inquiry
	err := c.store.WithTx(ctx, func(ctx context.Context) error {
		inq, err := c.store.GetInquiry(ctx, inquiryID)
		if err != nil {
			return err
		}

		ev, err := c.store.GetEventForUpdate(ctx, inq.EventID)
		if err != nil {
			return err
		}
		if ev.Cancelled {
			return ErrEventCancelled
		}
		if actorID != ev.OwnerID {
			return ErrForbidden
		}

		// Re-read now that the event lock is held; a concurrent delete or
		// confirm may have run between the first read and the lock.
		inq, err = c.store.GetInquiry(ctx, inquiryID)
		if err != nil {
			return err
		}
		switch inq.Status {
		case model.InquiryStatusConfirmed:
			confirmed = inq
			return nil
		case model.InquiryStatusInquired:
		default:
			return ErrInvalidTransition
		}

		if err := c.store.IncrementBooked(ctx, inq.SlotID); err != nil {
			return err
		}
		if err := c.store.UpdateInquiryStatus(ctx, inquiryID, model.InquiryStatusConfirmed); err != nil {
			return err
		}
		if err := c.store.AddDisallowedSiblings(ctx, inq.EventID, inq.SlotID, inq.RequesterID); err != nil {
			return err
		}
		if err := c.appendHistory(ctx, inq, model.InquiryStatusConfirmed, actorID); err != nil {
			return err
		}
		confirmed = inq
		return c.emitInquiryEvent(ctx, outbox.TopicInquiryConfirmed, inq)
	})
	if err != nil {
		return err
	}

	c.slotCache.Invalidate(ctx, confirmed.SlotID)
	c.logger.Info("inquiry confirmed",
		"inquiry_id", inquiryID,
		"slot_id", confirmed.SlotID,
		"requester_id", confirmed.RequesterID,
	)
	return nil
}

// RejectInquiry records an owner rejection in the history log, bars the
// requester from the slot, and removes the live row. The history record is
// what makes the rejection stick across future create attempts.
func (c *Coordinator) RejectInquiry(ctx context.Context, actorID, inquiryID string) error {
	var rejected model.Inquiry
	err := c.store.WithTx(ctx, func(ctx context.Context) error {
		inq, err := c.store.GetInquiry(ctx, inquiryID)
		if err != nil {
			return err
		}

		ev, err := c.store.GetEventForUpdate(ctx, inq.EventID)
		if err != nil {
			return err
		}
		if ev.Cancelled {
			return ErrEventCancelled
		}
		if actorID != ev.OwnerID {
			return ErrForbidden
		}

		inq, err = c.store.GetInquiry(ctx, inquiryID)
		if err != nil {
			return err
		}
		if inq.Status != model.InquiryStatusInquired {
			return ErrInvalidTransition
		}

		if err := c.store.AddDisallowed(ctx, inq.SlotID, inq.RequesterID); err != nil {
			return err
		}
		if err := c.appendHistory(ctx, inq, model.InquiryStatusRejected, actorID); err != nil {
			return err
		}
		if err := c.store.DeleteInquiry(ctx, inquiryID); err != nil {
			return err
		}
		rejected = inq
		return c.emitInquiryEvent(ctx, outbox.TopicInquiryRejected, inq)
	})
	if err != nil {
		return err
	}

	c.logger.Info("inquiry rejected",
		"inquiry_id", inquiryID,
		"slot_id", rejected.SlotID,
		"requester_id", rejected.RequesterID,
	)
	return nil
}

// DeleteResult reports what a deletion undid.
type DeleteResult struct {
	FreedSlotID  string
	WasConfirmed bool
}

// DeleteInquiry removes the live inquiry row. Deleting a confirmed inquiry
// reverses its side effects: the seat is released and the requester is taken
// off every sibling slot's disallow list. The requester may delete their own
// inquiry; the event owner may delete anyone's.
func (c *Coordinator) DeleteInquiry(ctx context.Context, actorID, inquiryID string) (DeleteResult, error) {
	var result DeleteResult
	err := c.store.WithTx(ctx, func(ctx context.Context) error {
		inq, err := c.store.GetInquiry(ctx, inquiryID)
		if err != nil {
			return err
		}

		ev, err := c.store.GetEventForUpdate(ctx, inq.EventID)
		if err != nil {
			return err
		}
		if ev.Cancelled {
			return ErrEventCancelled
		}
		if actorID != inq.RequesterID && actorID != ev.OwnerID {
			return ErrForbidden
		}

		inq, err = c.store.GetInquiry(ctx, inquiryID)
		if err != nil {
			return err
		}

		if inq.Status == model.InquiryStatusConfirmed {
			if err := c.store.DecrementBooked(ctx, inq.SlotID); err != nil {
				return err
			}
			if err := c.store.RemoveDisallowedSiblings(ctx, inq.EventID, inq.SlotID, inq.RequesterID); err != nil {
				return err
			}
		}

		if err := c.store.DeleteInquiry(ctx, inquiryID); err != nil {
			return err
		}
		if err := c.appendHistory(ctx, inq, model.InquiryStatusDeleted, actorID); err != nil {
			return err
		}

		result = DeleteResult{
			FreedSlotID:  inq.SlotID,
			WasConfirmed: inq.Status == model.InquiryStatusConfirmed,
		}
		return c.emitInquiryEvent(ctx, outbox.TopicInquiryDeleted, inq)
	})
	if err != nil {
		return DeleteResult{}, err
	}

	c.slotCache.Invalidate(ctx, result.FreedSlotID)
	c.logger.Info("inquiry deleted",
		"inquiry_id", inquiryID,
		"slot_id", result.FreedSlotID,
		"was_confirmed", result.WasConfirmed,
	)
	return result, nil
}

// DeleteSlot removes a slot and everything scoped to it: inquiries of any
// status, the slot's history entries, and its disallow list. Requesters who
// held a confirmed seat are freed on every sibling slot and returned so the
// caller can notify them.
func (c *Coordinator) DeleteSlot(ctx context.Context, actorID, slotID string) ([]string, error) {
	var affected []string
	var deletedEventID string
	err := c.store.WithTx(ctx, func(ctx context.Context) error {
		slot, err := c.store.GetSlot(ctx, slotID)
		if err != nil {
			return err
		}

		ev, err := c.store.GetEventForUpdate(ctx, slot.EventID)
		if err != nil {
			return err
		}
		if ev.Cancelled {
			return ErrEventCancelled
		}
		if actorID != ev.OwnerID {
			return ErrForbidden
		}

		affected, err = c.store.ListConfirmedRequesters(ctx, slotID)
		if err != nil {
			return err
		}
		for _, requesterID := range affected {
			if err := c.store.RemoveDisallowedSiblings(ctx, slot.EventID, slotID, requesterID); err != nil {
				return err
			}
		}

		if err := c.store.DeleteInquiriesBySlot(ctx, slotID); err != nil {
			return err
		}
		if err := c.store.DeleteHistoryBySlot(ctx, slotID); err != nil {
			return err
		}
		if err := c.store.DeleteDisallowedBySlot(ctx, slotID); err != nil {
			return err
		}
		if err := c.store.DeleteSlot(ctx, slotID); err != nil {
			return err
		}

		deletedEventID = slot.EventID
		payload, err := json.Marshal(map[string]any{
			"slot_id":              slotID,
			"event_id":             slot.EventID,
			"confirmed_requesters": affected,
			"deleted_at":           time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
		return c.store.EnqueueEvent(ctx, outbox.Event{
			AggregateType: "slot",
			AggregateID:   slotID,
			EventType:     outbox.TopicSlotDeleted,
			Payload:       payload,
		})
	})
	if err != nil {
		return nil, err
	}

	c.slotCache.Invalidate(ctx, slotID)
	c.logger.Info("slot deleted",
		"slot_id", slotID,
		"event_id", deletedEventID,
		"affected_confirmed", len(affected),
	)
	return affected, nil
}

// GetSlot serves the slot availability view, read-through cached.
func (c *Coordinator) GetSlot(ctx context.Context, slotID string) (model.Slot, error) {
	if cached := c.slotCache.Get(ctx, slotID); cached != nil {
		return *cached, nil
	}
	slot, err := c.store.GetSlot(ctx, slotID)
	if err != nil {
		return model.Slot{}, err
	}
	c.slotCache.Set(ctx, slot)
	return slot, nil
}

func (c *Coordinator) ListSlots(ctx context.Context, eventID string) ([]model.Slot, error) {
	if _, err := c.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return c.store.ListSlots(ctx, eventID)
}

func (c *Coordinator) ListInquiries(ctx context.Context, eventID string, filter InquiryFilter) ([]model.Inquiry, error) {
	if _, err := c.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return c.store.ListInquiries(ctx, eventID, filter)
}

func (c *Coordinator) appendHistory(ctx context.Context, inq model.Inquiry, status model.InquiryStatus, actorID string) error {
	return c.store.AppendHistory(ctx, model.HistoryEntry{
		EventID:     inq.EventID,
		SlotID:      inq.SlotID,
		RequesterID: inq.RequesterID,
		Status:      status,
		ActorID:     actorID,
	})
}

func (c *Coordinator) emitInquiryEvent(ctx context.Context, topic string, inq model.Inquiry) error {
	payload, err := json.Marshal(map[string]any{
		"inquiry_id":   inq.ID,
		"event_id":     inq.EventID,
		"slot_id":      inq.SlotID,
		"requester_id": inq.RequesterID,
		"occurred_at":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return c.store.EnqueueEvent(ctx, outbox.Event{
		AggregateType: "inquiry",
		AggregateID:   inq.ID,
		EventType:     topic,
		Payload:       payload,
	})
}
