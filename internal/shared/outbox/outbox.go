package outbox

import (
	"time"

	contractsv1 "spotlight/contracts/gen/events/v1"
)

const (
	StatusPending   = "pending"
	StatusPublished = "published"
	// StatusFailed parks a row whose payload cannot be decoded.
	StatusFailed = "failed"
)

// Message is an outbox row written alongside the state change it announces.
// The relay reads pending rows and publishes them to the event bus.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	Status       string
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

type Envelope = contractsv1.Envelope
