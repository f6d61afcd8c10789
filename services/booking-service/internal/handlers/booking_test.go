package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meetdesk/irevents/services/booking-service/internal/booking"
	"github.com/meetdesk/irevents/services/booking-service/internal/model"
)

func newTestHandler() *BookingHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBookingHandler(nil, logger)
}

func TestActorHeaderRequired(t *testing.T) {
	h := newTestHandler()

	endpoints := map[string]http.HandlerFunc{
		"create":  h.CreateInquiry,
		"confirm": h.ConfirmInquiry,
		"reject":  h.RejectInquiry,
		"delete":  h.DeleteInquiry,
		"event":   h.CreateEvent,
	}
	for name, fn := range endpoints {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
			rec := httptest.NewRecorder()
			fn(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 without X-Actor-Id, got %d", rec.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Actor-Id", "owner-1")
	rec := httptest.NewRecorder()
	h.CreateInquiry(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	req.Header.Set("X-Actor-Id", "investor-1")
	rec := httptest.NewRecorder()
	h.CreateInquiry(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", rec.Code)
	}
}

func TestMissingFields(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"event_id":"  "}`))
	req.Header.Set("X-Actor-Id", "investor-1")
	rec := httptest.NewRecorder()
	h.CreateInquiry(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	h := newTestHandler()

	cases := []struct {
		err  error
		want int
	}{
		{booking.ErrEventNotFound, http.StatusNotFound},
		{booking.ErrSlotNotFound, http.StatusNotFound},
		{booking.ErrInquiryNotFound, http.StatusNotFound},
		{booking.ErrForbidden, http.StatusForbidden},
		{booking.ErrNotInvited, http.StatusForbidden},
		{booking.ErrEventCancelled, http.StatusConflict},
		{booking.ErrInvalidTransition, http.StatusConflict},
		{booking.ErrCapacityExceeded, http.StatusUnprocessableEntity},
		{booking.ErrDuplicateInquiry, http.StatusUnprocessableEntity},
		{booking.ErrPreviouslyRejected, http.StatusUnprocessableEntity},
		{booking.ErrSlotDisallowed, http.StatusUnprocessableEntity},
		{booking.ErrInvalidSeats, http.StatusBadRequest},
		{booking.ErrInvalidWindow, http.StatusBadRequest},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.writeError(rec, tc.err)
		if rec.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestSlotResponseSeatsLeft(t *testing.T) {
	start := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	resp := slotToResponse(model.Slot{
		ID:            "slot-1",
		EventID:       "event-1",
		SlotType:      model.SlotTypeGroup,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		BookableSeats: 10,
		BookedSeats:   7,
	})
	if resp.SeatsLeft != 3 {
		t.Fatalf("expected 3 seats left, got %d", resp.SeatsLeft)
	}
	if resp.StartTime != "2026-09-15T10:00:00Z" {
		t.Fatalf("unexpected start_time formatting: %s", resp.StartTime)
	}
}
