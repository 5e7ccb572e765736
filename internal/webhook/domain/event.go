package domain

import (
	"encoding/json"
	"time"
)

// DeliveryAttempt classifies why a notification is being sent.
type DeliveryAttempt string

const (
	DeliveryAttemptInitial        DeliveryAttempt = "initial_attempt"
	DeliveryAttemptAutomaticRetry DeliveryAttempt = "automatic_retry"
	DeliveryAttemptManualRetry    DeliveryAttempt = "manual_retry"
)

// Event is one delivery attempt of an outgoing webhook, immutable once
// persisted apart from its outcome flags. Retry events reference the Initial
// event of their chain through InitialAttemptID; every chain terminates at
// exactly one Initial event.
type Event struct {
	EventID                     string
	MerchantID                  string
	BusinessProfileID           string
	EventType                   EventType
	EventClass                  EventClass
	PrimaryObjectID             string
	PrimaryObjectType           string
	PrimaryObjectCreatedAt      *time.Time
	CreatedAt                   time.Time
	DeliveryAttempt             DeliveryAttempt
	IdempotentEventID           string
	InitialAttemptID            string
	Request                     json.RawMessage
	Response                    json.RawMessage
	Metadata                    json.RawMessage
	IsWebhookNotified           bool
	IsOverallDeliverySuccessful bool
}

// IsLegacyFormat reports whether the event was stored before request
// snapshots existed. Legacy events cannot be replayed verbatim; a retry must
// reconcile against the resource's current state instead.
func (e Event) IsLegacyFormat() bool { return len(e.Request) == 0 }

// TrackingData is the opaque payload this engine stores on a retry job. The
// job store round-trips it without interpreting it.
type TrackingData struct {
	MerchantID        string     `json:"merchant_id"`
	BusinessProfileID string     `json:"business_profile_id"`
	PrimaryObjectID   string     `json:"primary_object_id"`
	EventType         EventType  `json:"event_type"`
	EventClass        EventClass `json:"event_class"`
	// InitialAttemptID is empty on jobs enqueued before event chaining
	// existed; those resolve their triggering event by the legacy key.
	InitialAttemptID string `json:"initial_attempt_id,omitempty"`
}
