package directory

import "context"

// EventMeta is the event metadata the booking engine needs for policy checks.
type EventMeta struct {
	ID           string
	OwnerID      string
	Cancelled    bool
	Draft        bool
	InviteesOnly bool
}

// Provider answers event metadata and invitee membership questions. In a full
// deployment both live in the platform's event directory service; the default
// implementation reads the local projection tables.
type Provider interface {
	GetEvent(ctx context.Context, eventID string) (EventMeta, error)
	IsInvited(ctx context.Context, eventID, requesterID string) (bool, error)
}
