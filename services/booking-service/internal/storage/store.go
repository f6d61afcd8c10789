package storage

import (
	"github.com/meetdesk/irevents/libs/db"
	"github.com/meetdesk/irevents/services/booking-service/internal/booking"
)

// Store is the Postgres-backed persistence layer of the booking engine.
// One table per component: events, slots, inquiries, slot_disallow,
// inquiry_history, outbox_events.
type Store struct {
	pool *db.Pool
}

var _ booking.Store = (*Store)(nil)

func NewStore(pool *db.Pool) *Store {
	return &Store{pool: pool}
}
