package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/meetdesk/irevents/services/booking-service/internal/booking"
	"github.com/meetdesk/irevents/services/booking-service/internal/model"
)

type createEventRequest struct {
	Title        string `json:"title"`
	Kind         string `json:"kind"`
	InviteesOnly bool   `json:"invitees_only"`
	Draft        bool   `json:"draft"`
}

type createEventResponse struct {
	EventID string `json:"event_id"`
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	OwnerID string `json:"owner_id"`
}

type addSlotRequest struct {
	EventID       string `json:"event_id"`
	SlotType      string `json:"slot_type"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	BookableSeats int    `json:"bookable_seats"`
}

func (h *BookingHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor := actorID(r)
	if actor == "" {
		http.Error(w, "missing X-Actor-Id header", http.StatusUnauthorized)
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	ev, err := h.coordinator.CreateEvent(r.Context(), booking.CreateEventParams{
		Title:        req.Title,
		Kind:         model.EventKind(strings.TrimSpace(req.Kind)),
		OwnerID:      actor,
		InviteesOnly: req.InviteesOnly,
		Draft:        req.Draft,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createEventResponse{
		EventID: ev.ID,
		Title:   ev.Title,
		Kind:    string(ev.Kind),
		OwnerID: ev.OwnerID,
	})
}

func (h *BookingHandler) AddSlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor := actorID(r)
	if actor == "" {
		http.Error(w, "missing X-Actor-Id header", http.StatusUnauthorized)
		return
	}

	var req addSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.EventID = strings.TrimSpace(req.EventID)
	if req.EventID == "" {
		http.Error(w, "event_id required", http.StatusBadRequest)
		return
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return
	}

	slot, err := h.coordinator.AddSlot(r.Context(), actor, booking.AddSlotParams{
		EventID:       req.EventID,
		SlotType:      model.SlotType(strings.TrimSpace(req.SlotType)),
		StartTime:     startTime,
		EndTime:       endTime,
		BookableSeats: req.BookableSeats,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slotToResponse(slot))
}

func (h *BookingHandler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor := actorID(r)
	if actor == "" {
		http.Error(w, "missing X-Actor-Id header", http.StatusUnauthorized)
		return
	}

	var req struct {
		EventID string `json:"event_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.EventID = strings.TrimSpace(req.EventID)
	if req.EventID == "" {
		http.Error(w, "event_id required", http.StatusBadRequest)
		return
	}

	if err := h.coordinator.CancelEvent(r.Context(), actor, req.EventID); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"event_id": req.EventID,
		"status":   "cancelled",
	})
}
