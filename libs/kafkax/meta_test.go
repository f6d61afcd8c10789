package kafkax

import (
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestExtractEventMeta(t *testing.T) {
	msg := kafka.Message{
		Topic: "booking.inquiry.created.v1",
		Key:   []byte("inq-1"),
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte("evt-42")},
			{Key: "event_type", Value: []byte("booking.inquiry.created.v1")},
		},
	}
	meta := ExtractEventMeta(msg)
	if meta.EventID != "evt-42" {
		t.Fatalf("expected header event id, got %q", meta.EventID)
	}
	if meta.EventType != "booking.inquiry.created.v1" {
		t.Fatalf("unexpected event type %q", meta.EventType)
	}

	// Without headers, the key and topic stand in.
	bare := kafka.Message{Topic: "booking.slot.deleted.v1", Key: []byte("slot-7")}
	meta = ExtractEventMeta(bare)
	if meta.EventID != "slot-7" || meta.EventType != "booking.slot.deleted.v1" {
		t.Fatalf("unexpected fallback meta %+v", meta)
	}
}

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" kafka-1:9092, ,kafka-2:9092 ")
	if len(got) != 2 || got[0] != "kafka-1:9092" || got[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers %v", got)
	}
	if got := SplitBrokers(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}
