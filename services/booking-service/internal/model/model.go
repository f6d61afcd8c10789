package model

import "time"

type EventKind string

const (
	EventKindCorporate   EventKind = "corporate"
	EventKindOpenMeeting EventKind = "open_meeting"
)

type SlotType string

const (
	SlotTypeOneOnOne SlotType = "one_on_one"
	SlotTypeGroup    SlotType = "group"
)

type InquiryStatus string

const (
	InquiryStatusInquired  InquiryStatus = "inquired"
	InquiryStatusConfirmed InquiryStatus = "confirmed"
	InquiryStatusRejected  InquiryStatus = "rejected"
	InquiryStatusDeleted   InquiryStatus = "deleted"
)

// Event is the bookable parent of a set of meeting slots. Corporate access
// events and open meetings share the same booking semantics; Kind only matters
// to the surrounding platform.
type Event struct {
	ID           string
	Title        string
	Kind         EventKind
	OwnerID      string
	InviteesOnly bool
	Draft        bool
	Cancelled    bool
	CreatedAt    time.Time
}

// Slot is a bounded-capacity time window within an event.
// Invariant: 0 <= BookedSeats <= BookableSeats.
type Slot struct {
	ID            string
	EventID       string
	SlotType      SlotType
	StartTime     time.Time
	EndTime       time.Time
	BookableSeats int
	BookedSeats   int
	CreatedAt     time.Time
}

// Inquiry is a requester's live request to occupy a slot. At most one live
// inquiry exists per (requester, slot); the row is removed on deletion and
// only the history entry survives.
type Inquiry struct {
	ID          string
	EventID     string
	SlotID      string
	RequesterID string
	Status      InquiryStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HistoryEntry is an immutable record of one inquiry status transition.
type HistoryEntry struct {
	ID          int64
	EventID     string
	SlotID      string
	RequesterID string
	Status      InquiryStatus
	ActorID     string
	RecordedAt  time.Time
}
