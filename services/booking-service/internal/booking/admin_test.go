package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meetdesk/irevents/services/booking-service/internal/model"
)

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t)

	t.Run("requires a title", func(t *testing.T) {
		_, err := c.CreateEvent(ctx, CreateEventParams{Title: "   ", OwnerID: "owner-1"})
		if !errors.Is(err, ErrTitleRequired) {
			t.Fatalf("expected ErrTitleRequired, got %v", err)
		}
	})

	t.Run("requires an owner", func(t *testing.T) {
		_, err := c.CreateEvent(ctx, CreateEventParams{Title: "AGM"})
		if !errors.Is(err, ErrOwnerRequired) {
			t.Fatalf("expected ErrOwnerRequired, got %v", err)
		}
	})

	t.Run("unknown kind falls back to corporate", func(t *testing.T) {
		ev, err := c.CreateEvent(ctx, CreateEventParams{Title: "AGM", Kind: "festival", OwnerID: "owner-1"})
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if ev.Kind != model.EventKindCorporate {
			t.Fatalf("expected corporate fallback, got %s", ev.Kind)
		}
	})
}

func TestAddSlot(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)

	t.Run("one-on-one slots always hold one seat", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t)
		ev := seedEvent(t, c, "owner-1")

		slot, err := c.AddSlot(ctx, "owner-1", AddSlotParams{
			EventID:       ev.ID,
			SlotType:      model.SlotTypeOneOnOne,
			StartTime:     start,
			EndTime:       start.Add(30 * time.Minute),
			BookableSeats: 50,
		})
		if err != nil {
			t.Fatalf("AddSlot failed: %v", err)
		}
		if slot.BookableSeats != 1 {
			t.Fatalf("one-on-one must carry one seat, got %d", slot.BookableSeats)
		}
	})

	t.Run("group slots need at least one seat", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t)
		ev := seedEvent(t, c, "owner-1")

		_, err := c.AddSlot(ctx, "owner-1", AddSlotParams{
			EventID:   ev.ID,
			SlotType:  model.SlotTypeGroup,
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		})
		if !errors.Is(err, ErrInvalidSeats) {
			t.Fatalf("expected ErrInvalidSeats, got %v", err)
		}
	})

	t.Run("window must be forward", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t)
		ev := seedEvent(t, c, "owner-1")

		_, err := c.AddSlot(ctx, "owner-1", AddSlotParams{
			EventID:       ev.ID,
			SlotType:      model.SlotTypeGroup,
			StartTime:     start,
			EndTime:       start,
			BookableSeats: 5,
		})
		if !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("expected ErrInvalidWindow, got %v", err)
		}
	})

	t.Run("only the owner may add slots", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t)
		ev := seedEvent(t, c, "owner-1")

		_, err := c.AddSlot(ctx, "investor-1", AddSlotParams{
			EventID:       ev.ID,
			SlotType:      model.SlotTypeGroup,
			StartTime:     start,
			EndTime:       start.Add(time.Hour),
			BookableSeats: 5,
		})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("cancelled events take no new slots", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t)
		ev := seedEvent(t, c, "owner-1")
		if err := c.CancelEvent(ctx, "owner-1", ev.ID); err != nil {
			t.Fatalf("CancelEvent failed: %v", err)
		}

		_, err := c.AddSlot(ctx, "owner-1", AddSlotParams{
			EventID:       ev.ID,
			SlotType:      model.SlotTypeGroup,
			StartTime:     start,
			EndTime:       start.Add(time.Hour),
			BookableSeats: 5,
		})
		if !errors.Is(err, ErrEventCancelled) {
			t.Fatalf("expected ErrEventCancelled, got %v", err)
		}
	})
}

func TestCancelEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		c, store, _ := newTestCoordinator(t)
		ev := seedEvent(t, c, "owner-1")

		if err := c.CancelEvent(ctx, "owner-1", ev.ID); err != nil {
			t.Fatalf("first cancel failed: %v", err)
		}
		if err := c.CancelEvent(ctx, "owner-1", ev.ID); err != nil {
			t.Fatalf("second cancel should be a no-op: %v", err)
		}

		var cancelEvents int
		for _, topic := range store.outboxTypes() {
			if topic == "booking.event.cancelled.v1" {
				cancelEvents++
			}
		}
		if cancelEvents != 1 {
			t.Fatalf("expected one cancellation event, got %d", cancelEvents)
		}
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t)
		ev := seedEvent(t, c, "owner-1")

		if err := c.CancelEvent(ctx, "investor-1", ev.ID); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("cancellation freezes confirmed inquiries", func(t *testing.T) {
		c, store, _ := newTestCoordinator(t)
		ev := seedEvent(t, c, "owner-1")
		slot := seedSlot(t, c, "owner-1", ev.ID, 2)
		inq, _ := c.CreateInquiry(ctx, "investor-1", ev.ID, slot.ID)
		if err := c.ConfirmInquiry(ctx, "owner-1", inq.ID); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}

		if err := c.CancelEvent(ctx, "owner-1", ev.ID); err != nil {
			t.Fatalf("CancelEvent failed: %v", err)
		}
		if _, err := c.DeleteInquiry(ctx, "investor-1", inq.ID); !errors.Is(err, ErrEventCancelled) {
			t.Fatalf("expected ErrEventCancelled, got %v", err)
		}
		if store.inquiries[inq.ID].Status != model.InquiryStatusConfirmed {
			t.Fatal("confirmed inquiry must stay frozen after cancellation")
		}
	})
}
