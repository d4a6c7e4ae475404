package models

// QueuedMessage is the wire envelope the enqueuer hands to the broker.
// MessageID and CorrelationID both carry the idempotency key, so consumers
// can deduplicate without parsing the body. Properties mirror a few payload
// fields for routing and observability.
type QueuedMessage struct {
	Body          []byte
	MessageID     string
	CorrelationID string
	ContentType   string
	Properties    map[string]string
}
