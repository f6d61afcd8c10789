package booking

import (
	"context"
	"sync"
	"time"

	"github.com/meetdesk/irevents/services/booking-service/internal/model"
	"github.com/meetdesk/irevents/services/booking-service/internal/outbox"
)

// fakeStore is an in-memory Store. WithTx serializes callers behind one
// mutex, which models the event-row lock the real store takes; mutations are
// applied directly, so a returned error leaves partial state behind. Tests
// that care about rollback semantics belong against a real database.
type fakeStore struct {
	mu        sync.Mutex
	events    map[string]model.Event
	slots     map[string]model.Slot
	inquiries map[string]model.Inquiry
	disallow  map[string]map[string]bool
	history   []model.HistoryEntry
	outbox    []outbox.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:    make(map[string]model.Event),
		slots:     make(map[string]model.Slot),
		inquiries: make(map[string]model.Inquiry),
		disallow:  make(map[string]map[string]bool),
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeStore) CreateEvent(ctx context.Context, ev model.Event) error {
	ev.CreatedAt = time.Now()
	f.events[ev.ID] = ev
	return nil
}

func (f *fakeStore) GetEvent(ctx context.Context, eventID string) (model.Event, error) {
	ev, ok := f.events[eventID]
	if !ok {
		return model.Event{}, ErrEventNotFound
	}
	return ev, nil
}

func (f *fakeStore) GetEventForUpdate(ctx context.Context, eventID string) (model.Event, error) {
	return f.GetEvent(ctx, eventID)
}

func (f *fakeStore) MarkEventCancelled(ctx context.Context, eventID string) error {
	ev, ok := f.events[eventID]
	if !ok {
		return ErrEventNotFound
	}
	ev.Cancelled = true
	f.events[eventID] = ev
	return nil
}

func (f *fakeStore) CreateSlot(ctx context.Context, slot model.Slot) error {
	slot.CreatedAt = time.Now()
	f.slots[slot.ID] = slot
	return nil
}

func (f *fakeStore) GetSlot(ctx context.Context, slotID string) (model.Slot, error) {
	slot, ok := f.slots[slotID]
	if !ok {
		return model.Slot{}, ErrSlotNotFound
	}
	return slot, nil
}

func (f *fakeStore) ListSlots(ctx context.Context, eventID string) ([]model.Slot, error) {
	var out []model.Slot
	for _, s := range f.slots {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) IncrementBooked(ctx context.Context, slotID string) error {
	slot, ok := f.slots[slotID]
	if !ok {
		return ErrSlotNotFound
	}
	if slot.BookedSeats >= slot.BookableSeats {
		return ErrCapacityExceeded
	}
	slot.BookedSeats++
	f.slots[slotID] = slot
	return nil
}

func (f *fakeStore) DecrementBooked(ctx context.Context, slotID string) error {
	slot, ok := f.slots[slotID]
	if !ok {
		return ErrSlotNotFound
	}
	if slot.BookedSeats > 0 {
		slot.BookedSeats--
	}
	f.slots[slotID] = slot
	return nil
}

func (f *fakeStore) DeleteSlot(ctx context.Context, slotID string) error {
	delete(f.slots, slotID)
	return nil
}

func (f *fakeStore) CreateInquiry(ctx context.Context, inq model.Inquiry) error {
	for _, existing := range f.inquiries {
		if existing.SlotID == inq.SlotID && existing.RequesterID == inq.RequesterID {
			return ErrDuplicateInquiry
		}
	}
	inq.CreatedAt = time.Now()
	inq.UpdatedAt = inq.CreatedAt
	f.inquiries[inq.ID] = inq
	return nil
}

func (f *fakeStore) GetInquiry(ctx context.Context, inquiryID string) (model.Inquiry, error) {
	inq, ok := f.inquiries[inquiryID]
	if !ok {
		return model.Inquiry{}, ErrInquiryNotFound
	}
	return inq, nil
}

func (f *fakeStore) GetLiveInquiry(ctx context.Context, slotID, requesterID string) (*model.Inquiry, error) {
	for _, inq := range f.inquiries {
		if inq.SlotID == slotID && inq.RequesterID == requesterID {
			found := inq
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateInquiryStatus(ctx context.Context, inquiryID string, status model.InquiryStatus) error {
	inq, ok := f.inquiries[inquiryID]
	if !ok {
		return ErrInquiryNotFound
	}
	inq.Status = status
	inq.UpdatedAt = time.Now()
	f.inquiries[inquiryID] = inq
	return nil
}

func (f *fakeStore) DeleteInquiry(ctx context.Context, inquiryID string) error {
	delete(f.inquiries, inquiryID)
	return nil
}

func (f *fakeStore) ListInquiries(ctx context.Context, eventID string, filter InquiryFilter) ([]model.Inquiry, error) {
	var out []model.Inquiry
	for _, inq := range f.inquiries {
		if inq.EventID != eventID {
			continue
		}
		if filter.SlotID != "" && inq.SlotID != filter.SlotID {
			continue
		}
		if filter.RequesterID != "" && inq.RequesterID != filter.RequesterID {
			continue
		}
		if filter.Status != "" && inq.Status != filter.Status {
			continue
		}
		out = append(out, inq)
	}
	return out, nil
}

func (f *fakeStore) ListConfirmedRequesters(ctx context.Context, slotID string) ([]string, error) {
	var out []string
	for _, inq := range f.inquiries {
		if inq.SlotID == slotID && inq.Status == model.InquiryStatusConfirmed {
			out = append(out, inq.RequesterID)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteInquiriesBySlot(ctx context.Context, slotID string) error {
	for id, inq := range f.inquiries {
		if inq.SlotID == slotID {
			delete(f.inquiries, id)
		}
	}
	return nil
}

func (f *fakeStore) IsDisallowed(ctx context.Context, slotID, requesterID string) (bool, error) {
	return f.disallow[slotID][requesterID], nil
}

func (f *fakeStore) AddDisallowed(ctx context.Context, slotID, requesterID string) error {
	if f.disallow[slotID] == nil {
		f.disallow[slotID] = make(map[string]bool)
	}
	f.disallow[slotID][requesterID] = true
	return nil
}

func (f *fakeStore) RemoveDisallowed(ctx context.Context, slotID, requesterID string) error {
	delete(f.disallow[slotID], requesterID)
	return nil
}

func (f *fakeStore) AddDisallowedSiblings(ctx context.Context, eventID, exceptSlotID, requesterID string) error {
	for id, s := range f.slots {
		if s.EventID == eventID && id != exceptSlotID {
			if err := f.AddDisallowed(ctx, id, requesterID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fakeStore) RemoveDisallowedSiblings(ctx context.Context, eventID, exceptSlotID, requesterID string) error {
	for id, s := range f.slots {
		if s.EventID == eventID && id != exceptSlotID {
			delete(f.disallow[id], requesterID)
		}
	}
	return nil
}

func (f *fakeStore) DeleteDisallowedBySlot(ctx context.Context, slotID string) error {
	delete(f.disallow, slotID)
	return nil
}

func (f *fakeStore) AppendHistory(ctx context.Context, entry model.HistoryEntry) error {
	entry.ID = int64(len(f.history) + 1)
	entry.RecordedAt = time.Now()
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeStore) HasOwnerRejection(ctx context.Context, slotID, requesterID string) (bool, error) {
	for _, entry := range f.history {
		if entry.SlotID == slotID &&
			entry.RequesterID == requesterID &&
			entry.Status == model.InquiryStatusRejected &&
			entry.ActorID != requesterID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) DeleteHistoryBySlot(ctx context.Context, slotID string) error {
	kept := f.history[:0]
	for _, entry := range f.history {
		if entry.SlotID != slotID {
			kept = append(kept, entry)
		}
	}
	f.history = kept
	return nil
}

func (f *fakeStore) EnqueueEvent(ctx context.Context, evt outbox.Event) error {
	f.outbox = append(f.outbox, evt)
	return nil
}

func (f *fakeStore) outboxTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.outbox))
	for _, evt := range f.outbox {
		out = append(out, evt.EventType)
	}
	return out
}
