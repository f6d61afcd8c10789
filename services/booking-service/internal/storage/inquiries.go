package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/meetdesk/irevents/services/booking-service/internal/booking"
	"github.com/meetdesk/irevents/services/booking-service/internal/model"
)

const inquiryColumns = `id, event_id, slot_id, requester_id, status, created_at, updated_at`

func (s *Store) CreateInquiry(ctx context.Context, inq model.Inquiry) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO inquiries (id, event_id, slot_id, requester_id, status)
		VALUES ($1, $2, $3, $4, $5)
	`, inq.ID, inq.EventID, inq.SlotID, inq.RequesterID, inq.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return booking.ErrDuplicateInquiry
		}
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

func (s *Store) GetInquiry(ctx context.Context, inquiryID string) (model.Inquiry, error) {
	var inq model.Inquiry
	err := s.q(ctx).QueryRow(ctx, `
		SELECT `+inquiryColumns+` FROM inquiries WHERE id = $1
	`, inquiryID).Scan(&inq.ID, &inq.EventID, &inq.SlotID, &inq.RequesterID, &inq.Status, &inq.CreatedAt, &inq.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Inquiry{}, booking.ErrInquiryNotFound
		}
		return model.Inquiry{}, fmt.Errorf("get inquiry: %w", err)
	}
	return inq, nil
}

func (s *Store) GetLiveInquiry(ctx context.Context, slotID, requesterID string) (*model.Inquiry, error) {
	var inq model.Inquiry
	err := s.q(ctx).QueryRow(ctx, `
		SELECT `+inquiryColumns+` FROM inquiries
		WHERE slot_id = $1 AND requester_id = $2
	`, slotID, requesterID).Scan(&inq.ID, &inq.EventID, &inq.SlotID, &inq.RequesterID, &inq.Status, &inq.CreatedAt, &inq.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get live inquiry: %w", err)
	}
	return &inq, nil
}

func (s *Store) UpdateInquiryStatus(ctx context.Context, inquiryID string, status model.InquiryStatus) error {
	tag, err := s.q(ctx).Exec(ctx, `
		UPDATE inquiries
		SET status = $1, updated_at = now()
		WHERE id = $2
	`, status, inquiryID)
	if err != nil {
		return fmt.Errorf("update inquiry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrInquiryNotFound
	}
	return nil
}

func (s *Store) DeleteInquiry(ctx context.Context, inquiryID string) error {
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM inquiries WHERE id = $1`, inquiryID)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrInquiryNotFound
	}
	return nil
}

func (s *Store) ListInquiries(ctx context.Context, eventID string, filter booking.InquiryFilter) ([]model.Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE event_id = $1`
	args := []any{eventID}
	if filter.SlotID != "" {
		args = append(args, filter.SlotID)
		query += ` AND slot_id = $` + strconv.Itoa(len(args))
	}
	if filter.RequesterID != "" {
		args = append(args, filter.RequesterID)
		query += ` AND requester_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []model.Inquiry
	for rows.Next() {
		var inq model.Inquiry
		if err := rows.Scan(&inq.ID, &inq.EventID, &inq.SlotID, &inq.RequesterID, &inq.Status, &inq.CreatedAt, &inq.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		inquiries = append(inquiries, inq)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return inquiries, nil
}

func (s *Store) ListConfirmedRequesters(ctx context.Context, slotID string) ([]string, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT requester_id FROM inquiries
		WHERE slot_id = $1 AND status = $2
		ORDER BY requester_id
	`, slotID, model.InquiryStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("list confirmed requesters: %w", err)
	}
	defer rows.Close()

	var requesters []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan requester: %w", err)
		}
		requesters = append(requesters, id)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return requesters, nil
}

func (s *Store) DeleteInquiriesBySlot(ctx context.Context, slotID string) error {
	_, err := s.q(ctx).Exec(ctx, `DELETE FROM inquiries WHERE slot_id = $1`, slotID)
	if err != nil {
		return fmt.Errorf("delete inquiries by slot: %w", err)
	}
	return nil
}
