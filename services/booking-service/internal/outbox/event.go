package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Topics emitted by the booking engine. Downstream notification fan-out
// consumes these; the booking transaction never waits on delivery.
const (
	TopicInquiryCreated   = "booking.inquiry.created.v1"
	TopicInquiryConfirmed = "booking.inquiry.confirmed.v1"
	TopicInquiryRejected  = "booking.inquiry.rejected.v1"
	TopicInquiryDeleted   = "booking.inquiry.deleted.v1"
	TopicSlotDeleted      = "booking.slot.deleted.v1"
	TopicEventCancelled   = "booking.event.cancelled.v1"
)
