package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/meetdesk/irevents/libs/db"
)

var ErrEventNotFound = errors.New("directory: event not found")

type pgProvider struct {
	pool *db.Pool
}

// NewPGProvider serves event metadata and invitee membership from the local
// events projection tables.
func NewPGProvider(pool *db.Pool) Provider {
	return &pgProvider{pool: pool}
}

func (p *pgProvider) GetEvent(ctx context.Context, eventID string) (EventMeta, error) {
	var meta EventMeta
	err := p.pool.QueryRow(ctx, `
		SELECT id, owner_id, cancelled, draft, invitees_only
		FROM events
		WHERE id = $1
	`, eventID).Scan(&meta.ID, &meta.OwnerID, &meta.Cancelled, &meta.Draft, &meta.InviteesOnly)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EventMeta{}, ErrEventNotFound
		}
		return EventMeta{}, err
	}
	return meta, nil
}

func (p *pgProvider) IsInvited(ctx context.Context, eventID, requesterID string) (bool, error) {
	var invited bool
	err := p.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM event_invitees
			WHERE event_id = $1 AND requester_id = $2
		)
	`, eventID, requesterID).Scan(&invited)
	if err != nil {
		return false, err
	}
	return invited, nil
}
