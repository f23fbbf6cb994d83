package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the wire format for scan events published by instrumented
// scanner devices. Payload carries the raw scan record as stored in the
// key-path store day node.
type Envelope struct {
	EventID    uuid.UUID       `json:"event_id"`
	DeviceID   string          `json:"device_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	EventType  string          `json:"event_type"`
	Payload    json.RawMessage `json:"payload"`
}

const (
	TopicScanEvents    = "scan.events"
	TopicScanEventsDLQ = "scan.events.dlq"
)

const (
	EventTypeScanRecorded = "scan.recorded"
)
