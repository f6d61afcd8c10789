package storage

import (
	"context"
	"encoding/json"

	"github.com/meetdesk/irevents/libs/db"
)

// Notification is one queued message for a platform user. Delivery happens in
// the surrounding platform; this service records what should be said to whom.
type Notification struct {
	RecipientID string
	EventID     string
	SlotID      string
	InquiryID   string
	Kind        string
	Payload     map[string]any
}

type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications (recipient_id, event_id, slot_id, inquiry_id, kind, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, n.RecipientID, n.EventID, n.SlotID, n.InquiryID, n.Kind, payload)
	return err
}

// ListByRecipient returns the newest notifications for a user.
func (r *Repository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT recipient_id, event_id, slot_id, inquiry_id, kind, payload
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var raw []byte
		if err := rows.Scan(&n.RecipientID, &n.EventID, &n.SlotID, &n.InquiryID, &n.Kind, &raw); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &n.Payload)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
