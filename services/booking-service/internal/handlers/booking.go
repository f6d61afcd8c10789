package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/meetdesk/irevents/services/booking-service/internal/booking"
	"github.com/meetdesk/irevents/services/booking-service/internal/model"
)

// BookingHandler exposes the booking engine over HTTP. The gateway
// authenticates callers and forwards the acting user id in X-Actor-Id; this
// service trusts that header and enforces ownership, not identity.
type BookingHandler struct {
	coordinator *booking.Coordinator
	logger      *slog.Logger
}

func NewBookingHandler(coordinator *booking.Coordinator, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{coordinator: coordinator, logger: logger}
}

func actorID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Actor-Id"))
}

type createInquiryRequest struct {
	EventID string `json:"event_id"`
	SlotID  string `json:"slot_id"`
}

type inquiryResponse struct {
	InquiryID   string `json:"inquiry_id"`
	EventID     string `json:"event_id"`
	SlotID      string `json:"slot_id"`
	RequesterID string `json:"requester_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type inquiryActionRequest struct {
	InquiryID string `json:"inquiry_id"`
}

type deleteInquiryResponse struct {
	InquiryID    string `json:"inquiry_id"`
	FreedSlotID  string `json:"freed_slot_id"`
	WasConfirmed bool   `json:"was_confirmed"`
}

type slotResponse struct {
	SlotID        string `json:"slot_id"`
	EventID       string `json:"event_id"`
	SlotType      string `json:"slot_type"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	BookableSeats int    `json:"bookable_seats"`
	BookedSeats   int    `json:"booked_seats"`
	SeatsLeft     int    `json:"seats_left"`
}

func (h *BookingHandler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	requesterID := actorID(r)
	if requesterID == "" {
		http.Error(w, "missing X-Actor-Id header", http.StatusUnauthorized)
		return
	}

	var req createInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.EventID = strings.TrimSpace(req.EventID)
	req.SlotID = strings.TrimSpace(req.SlotID)
	if req.EventID == "" || req.SlotID == "" {
		http.Error(w, "event_id and slot_id required", http.StatusBadRequest)
		return
	}

	inq, err := h.coordinator.CreateInquiry(r.Context(), requesterID, req.EventID, req.SlotID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inquiryToResponse(inq))
}

func (h *BookingHandler) ConfirmInquiry(w http.ResponseWriter, r *http.Request) {
	h.inquiryAction(w, r, h.coordinator.ConfirmInquiry, "confirmed")
}

func (h *BookingHandler) RejectInquiry(w http.ResponseWriter, r *http.Request) {
	h.inquiryAction(w, r, h.coordinator.RejectInquiry, "rejected")
}

func (h *BookingHandler) inquiryAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, actorID, inquiryID string) error, status string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor := actorID(r)
	if actor == "" {
		http.Error(w, "missing X-Actor-Id header", http.StatusUnauthorized)
		return
	}

	var req inquiryActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.InquiryID = strings.TrimSpace(req.InquiryID)
	if req.InquiryID == "" {
		http.Error(w, "inquiry_id required", http.StatusBadRequest)
		return
	}

	if err := action(r.Context(), actor, req.InquiryID); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"inquiry_id": req.InquiryID,
		"status":     status,
	})
}

func (h *BookingHandler) DeleteInquiry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor := actorID(r)
	if actor == "" {
		http.Error(w, "missing X-Actor-Id header", http.StatusUnauthorized)
		return
	}

	inquiryID := strings.TrimSpace(r.URL.Query().Get("inquiry_id"))
	if inquiryID == "" {
		var req inquiryActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			inquiryID = strings.TrimSpace(req.InquiryID)
		}
	}
	if inquiryID == "" {
		http.Error(w, "inquiry_id required", http.StatusBadRequest)
		return
	}

	result, err := h.coordinator.DeleteInquiry(r.Context(), actor, inquiryID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteInquiryResponse{
		InquiryID:    inquiryID,
		FreedSlotID:  result.FreedSlotID,
		WasConfirmed: result.WasConfirmed,
	})
}

func (h *BookingHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor := actorID(r)
	if actor == "" {
		http.Error(w, "missing X-Actor-Id header", http.StatusUnauthorized)
		return
	}

	slotID := strings.TrimSpace(r.URL.Query().Get("slot_id"))
	if slotID == "" {
		var req struct {
			SlotID string `json:"slot_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			slotID = strings.TrimSpace(req.SlotID)
		}
	}
	if slotID == "" {
		http.Error(w, "slot_id required", http.StatusBadRequest)
		return
	}

	affected, err := h.coordinator.DeleteSlot(r.Context(), actor, slotID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if affected == nil {
		affected = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slot_id":              slotID,
		"confirmed_requesters": affected,
	})
}

func (h *BookingHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	slotID := strings.TrimSpace(r.URL.Query().Get("slot_id"))
	if slotID == "" {
		http.Error(w, "slot_id required", http.StatusBadRequest)
		return
	}

	slot, err := h.coordinator.GetSlot(r.Context(), slotID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slotToResponse(slot))
}

func (h *BookingHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	eventID := strings.TrimSpace(r.URL.Query().Get("event_id"))
	if eventID == "" {
		http.Error(w, "event_id required", http.StatusBadRequest)
		return
	}

	slots, err := h.coordinator.ListSlots(r.Context(), eventID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	items := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		items = append(items, slotToResponse(s))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *BookingHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	eventID := strings.TrimSpace(r.URL.Query().Get("event_id"))
	if eventID == "" {
		http.Error(w, "event_id required", http.StatusBadRequest)
		return
	}
	filter := booking.InquiryFilter{
		SlotID:      strings.TrimSpace(r.URL.Query().Get("slot_id")),
		RequesterID: strings.TrimSpace(r.URL.Query().Get("requester_id")),
		Status:      model.InquiryStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
	}

	inquiries, err := h.coordinator.ListInquiries(r.Context(), eventID, filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	items := make([]inquiryResponse, 0, len(inquiries))
	for _, inq := range inquiries {
		items = append(items, inquiryToResponse(inq))
	}
	writeJSON(w, http.StatusOK, items)
}

// writeError maps the coordinator's sentinel errors to HTTP statuses.
func (h *BookingHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrEventNotFound),
		errors.Is(err, booking.ErrSlotNotFound),
		errors.Is(err, booking.ErrInquiryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, booking.ErrForbidden),
		errors.Is(err, booking.ErrNotInvited):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, booking.ErrEventCancelled),
		errors.Is(err, booking.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, booking.ErrCapacityExceeded),
		errors.Is(err, booking.ErrDuplicateInquiry),
		errors.Is(err, booking.ErrPreviouslyRejected),
		errors.Is(err, booking.ErrSlotDisallowed):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, booking.ErrTitleRequired),
		errors.Is(err, booking.ErrOwnerRequired),
		errors.Is(err, booking.ErrInvalidSeats),
		errors.Is(err, booking.ErrInvalidWindow),
		errors.Is(err, booking.ErrInvalidSlotType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func inquiryToResponse(inq model.Inquiry) inquiryResponse {
	resp := inquiryResponse{
		InquiryID:   inq.ID,
		EventID:     inq.EventID,
		SlotID:      inq.SlotID,
		RequesterID: inq.RequesterID,
		Status:      string(inq.Status),
	}
	if !inq.CreatedAt.IsZero() {
		resp.CreatedAt = inq.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !inq.UpdatedAt.IsZero() {
		resp.UpdatedAt = inq.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func slotToResponse(s model.Slot) slotResponse {
	return slotResponse{
		SlotID:        s.ID,
		EventID:       s.EventID,
		SlotType:      string(s.SlotType),
		StartTime:     s.StartTime.UTC().Format(time.RFC3339),
		EndTime:       s.EndTime.UTC().Format(time.RFC3339),
		BookableSeats: s.BookableSeats,
		BookedSeats:   s.BookedSeats,
		SeatsLeft:     s.BookableSeats - s.BookedSeats,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
