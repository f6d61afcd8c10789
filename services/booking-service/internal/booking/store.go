package booking

import (
	"context"

	"github.com/meetdesk/irevents/services/booking-service/internal/model"
	"github.com/meetdesk/irevents/services/booking-service/internal/outbox"
)

// InquiryFilter narrows ListInquiries. Zero fields are ignored.
type InquiryFilter struct {
	SlotID      string
	RequesterID string
	Status      model.InquiryStatus
}

// Store is the persistence contract of the booking engine. Implementations
// must make WithTx run fn inside one transaction and roll the whole thing
// back when fn returns an error; every other method participates in the
// transaction carried by ctx when there is one.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Events. GetEventForUpdate takes a row lock on the event, which is the
	// serialization point for everything that touches the event's slots.
	CreateEvent(ctx context.Context, ev model.Event) error
	GetEvent(ctx context.Context, eventID string) (model.Event, error)
	GetEventForUpdate(ctx context.Context, eventID string) (model.Event, error)
	MarkEventCancelled(ctx context.Context, eventID string) error

	// Slots.
	CreateSlot(ctx context.Context, slot model.Slot) error
	GetSlot(ctx context.Context, slotID string) (model.Slot, error)
	ListSlots(ctx context.Context, eventID string) ([]model.Slot, error)
	// IncrementBooked fails with ErrCapacityExceeded when the slot is full.
	IncrementBooked(ctx context.Context, slotID string) error
	// DecrementBooked floors at zero so duplicate deletes stay harmless.
	DecrementBooked(ctx context.Context, slotID string) error
	DeleteSlot(ctx context.Context, slotID string) error

	// Inquiries. CreateInquiry fails with ErrDuplicateInquiry when a live row
	// already exists for the same (requester, slot).
	CreateInquiry(ctx context.Context, inq model.Inquiry) error
	GetInquiry(ctx context.Context, inquiryID string) (model.Inquiry, error)
	GetLiveInquiry(ctx context.Context, slotID, requesterID string) (*model.Inquiry, error)
	UpdateInquiryStatus(ctx context.Context, inquiryID string, status model.InquiryStatus) error
	DeleteInquiry(ctx context.Context, inquiryID string) error
	ListInquiries(ctx context.Context, eventID string, filter InquiryFilter) ([]model.Inquiry, error)
	ListConfirmedRequesters(ctx context.Context, slotID string) ([]string, error)
	DeleteInquiriesBySlot(ctx context.Context, slotID string) error

	// Disallow registry: per-slot set of requester ids barred from inquiring.
	// Add and Remove are idempotent set operations.
	IsDisallowed(ctx context.Context, slotID, requesterID string) (bool, error)
	AddDisallowed(ctx context.Context, slotID, requesterID string) error
	RemoveDisallowed(ctx context.Context, slotID, requesterID string) error
	AddDisallowedSiblings(ctx context.Context, eventID, exceptSlotID, requesterID string) error
	RemoveDisallowedSiblings(ctx context.Context, eventID, exceptSlotID, requesterID string) error
	DeleteDisallowedBySlot(ctx context.Context, slotID string) error

	// History log: append-only except for the slot-deletion cascade, which
	// removes the slot's entries along with the slot.
	AppendHistory(ctx context.Context, entry model.HistoryEntry) error
	HasOwnerRejection(ctx context.Context, slotID, requesterID string) (bool, error)
	DeleteHistoryBySlot(ctx context.Context, slotID string) error

	// EnqueueEvent appends a notification event to the transactional outbox.
	EnqueueEvent(ctx context.Context, evt outbox.Event) error
}
