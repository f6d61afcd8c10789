package booking

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meetdesk/irevents/services/booking-service/internal/model"
	"github.com/meetdesk/irevents/services/booking-service/internal/outbox"
)

// CreateEventParams carries the owner-facing fields of a new event.
type CreateEventParams struct {
	Title        string
	Kind         model.EventKind
	OwnerID      string
	InviteesOnly bool
	Draft        bool
}

// CreateEvent registers a new event with no slots.
func (c *Coordinator) CreateEvent(ctx context.Context, p CreateEventParams) (model.Event, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return model.Event{}, ErrTitleRequired
	}
	if p.OwnerID == "" {
		return model.Event{}, ErrOwnerRequired
	}
	if p.Kind != model.EventKindCorporate && p.Kind != model.EventKindOpenMeeting {
		p.Kind = model.EventKindCorporate
	}

	ev := model.Event{
		ID:           uuid.NewString(),
		Title:        p.Title,
		Kind:         p.Kind,
		OwnerID:      p.OwnerID,
		InviteesOnly: p.InviteesOnly,
		Draft:        p.Draft,
	}
	if err := c.store.CreateEvent(ctx, ev); err != nil {
		return model.Event{}, err
	}

	c.logger.Info("event created", "event_id", ev.ID, "kind", ev.Kind, "owner_id", ev.OwnerID)
	return ev, nil
}

// AddSlotParams carries the fields of a new slot.
type AddSlotParams struct {
	EventID       string
	SlotType      model.SlotType
	StartTime     time.Time
	EndTime       time.Time
	BookableSeats int
}

// AddSlot attaches a slot to an event. One-on-one slots always hold exactly
// one seat regardless of the requested count.
func (c *Coordinator) AddSlot(ctx context.Context, actorID string, p AddSlotParams) (model.Slot, error) {
	switch p.SlotType {
	case model.SlotTypeOneOnOne:
		p.BookableSeats = 1
	case model.SlotTypeGroup:
		if p.BookableSeats < 1 {
			return model.Slot{}, ErrInvalidSeats
		}
	default:
		return model.Slot{}, ErrInvalidSlotType
	}
	if !p.EndTime.After(p.StartTime) {
		return model.Slot{}, ErrInvalidWindow
	}

	var slot model.Slot
	err := c.store.WithTx(ctx, func(ctx context.Context) error {
		ev, err := c.store.GetEventForUpdate(ctx, p.EventID)
		if err != nil {
			return err
		}
		if ev.Cancelled {
			return ErrEventCancelled
		}
		if actorID != ev.OwnerID {
			return ErrForbidden
		}

		slot = model.Slot{
			ID:            uuid.NewString(),
			EventID:       p.EventID,
			SlotType:      p.SlotType,
			StartTime:     p.StartTime,
			EndTime:       p.EndTime,
			BookableSeats: p.BookableSeats,
		}
		return c.store.CreateSlot(ctx, slot)
	})
	if err != nil {
		return model.Slot{}, err
	}

	c.logger.Info("slot added",
		"slot_id", slot.ID,
		"event_id", p.EventID,
		"slot_type", slot.SlotType,
		"bookable_seats", slot.BookableSeats,
	)
	return slot, nil
}

// CancelEvent marks the event cancelled. Existing rows are left in place but
// every booking operation refuses to touch a cancelled event, so the state is
// frozen as of cancellation. Cancelling twice is a no-op.
func (c *Coordinator) CancelEvent(ctx context.Context, actorID, eventID string) error {
	err := c.store.WithTx(ctx, func(ctx context.Context) error {
		ev, err := c.store.GetEventForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if actorID != ev.OwnerID {
			return ErrForbidden
		}
		if ev.Cancelled {
			return nil
		}

		if err := c.store.MarkEventCancelled(ctx, eventID); err != nil {
			return err
		}
		payload, err := json.Marshal(map[string]any{
			"event_id":     eventID,
			"cancelled_at": time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
		return c.store.EnqueueEvent(ctx, outbox.Event{
			AggregateType: "event",
			AggregateID:   eventID,
			EventType:     outbox.TopicEventCancelled,
			Payload:       payload,
		})
	})
	if err != nil {
		return err
	}

	c.logger.Info("event cancelled", "event_id", eventID)
	return nil
}
