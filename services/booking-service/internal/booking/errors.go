package booking

import "errors"

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrSlotNotFound    = errors.New("slot not found")
	ErrInquiryNotFound = errors.New("inquiry not found")

	// ErrForbidden means the actor may not perform the requested transition.
	ErrForbidden = errors.New("forbidden")

	// ErrEventCancelled blocks every inquiry mutation on a cancelled event.
	ErrEventCancelled = errors.New("event cancelled")

	// ErrCapacityExceeded is returned when a confirmation would push a slot
	// past its bookable seat count, including the losing side of a race.
	ErrCapacityExceeded = errors.New("slot capacity exceeded")

	// ErrDuplicateInquiry is returned when a live inquiry already exists for
	// the same requester and slot.
	ErrDuplicateInquiry = errors.New("duplicate inquiry")

	// ErrPreviouslyRejected is returned when the history log shows an
	// owner-issued rejection for this requester and slot.
	ErrPreviouslyRejected = errors.New("previously rejected for this slot")

	// ErrSlotDisallowed is returned when the requester is on the slot's
	// disallow list (confirmed into a sibling slot, or rejected).
	ErrSlotDisallowed = errors.New("requester disallowed for this slot")

	ErrNotInvited        = errors.New("requester not invited to this event")
	ErrInvalidTransition = errors.New("invalid inquiry status transition")

	ErrTitleRequired   = errors.New("event title required")
	ErrOwnerRequired   = errors.New("event owner required")
	ErrInvalidSeats    = errors.New("bookable seats must be at least one")
	ErrInvalidWindow   = errors.New("slot end must be after start")
	ErrInvalidSlotType = errors.New("invalid slot type")
)
