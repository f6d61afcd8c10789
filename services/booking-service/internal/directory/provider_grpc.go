//go:build protogen

package directory

import (
	"context"
	"log/slog"
	"time"

	"github.com/meetdesk/irevents/libs/db"
	"github.com/meetdesk/irevents/libs/grpcx"
	directoryv1 "github.com/meetdesk/irevents/protos/gen/directory/v1"
)

type grpcProvider struct {
	client directoryv1.EventDirectoryClient
}

// NewProvider dials the platform's event directory service. When addr is
// empty or the dial fails, the local projection keeps serving so bookings
// survive a directory outage.
func NewProvider(logger *slog.Logger, pool *db.Pool, addr string) (Provider, error) {
	if addr == "" {
		return NewPGProvider(pool), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := grpcx.Dial(ctx, addr, grpcx.DialOptions{Timeout: 5 * time.Second})
	if err != nil {
		logger.Warn("grpc event directory unavailable, using local projection", "err", err)
		return NewPGProvider(pool), nil
	}

	logger.Info("grpc event directory enabled", "addr", addr)
	return &grpcProvider{client: directoryv1.NewEventDirectoryClient(conn)}, nil
}

func (p *grpcProvider) GetEvent(ctx context.Context, eventID string) (EventMeta, error) {
	resp, err := p.client.GetEvent(ctx, &directoryv1.GetEventRequest{EventId: eventID})
	if err != nil {
		return EventMeta{}, err
	}
	return EventMeta{
		ID:           resp.GetEventId(),
		OwnerID:      resp.GetOwnerId(),
		Cancelled:    resp.GetCancelled(),
		Draft:        resp.GetDraft(),
		InviteesOnly: resp.GetInviteesOnly(),
	}, nil
}

func (p *grpcProvider) IsInvited(ctx context.Context, eventID, requesterID string) (bool, error) {
	resp, err := p.client.IsInvited(ctx, &directoryv1.IsInvitedRequest{
		EventId:     eventID,
		RequesterId: requesterID,
	})
	if err != nil {
		return false, err
	}
	return resp.GetInvited(), nil
}
