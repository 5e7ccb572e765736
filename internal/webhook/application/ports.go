package application

import (
	"context"
	"encoding/json"
	"time"

	merchant "github.com/offsoc/hyperswitch/internal/merchant/domain"
	resource "github.com/offsoc/hyperswitch/internal/resource/domain"
	"github.com/offsoc/hyperswitch/internal/webhook/domain"
)

// WorkflowName is the process tracker job name this engine's workflow runs
// under.
const WorkflowName = "OUTGOING_WEBHOOK_RETRY"

type KeyStoreReader interface {
	GetMerchantKeyStore(ctx context.Context, merchantID string) (merchant.KeyStore, error)
}

type ProfileReader interface {
	GetBusinessProfile(ctx context.Context, profileID string) (merchant.BusinessProfile, error)
}

// EventLog is the append-only store of delivery-attempt records. Insert must
// fail the whole execution when it cannot persist: no webhook may go out
// without a backing Event row.
type EventLog interface {
	Insert(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByEventID(ctx context.Context, merchantID, eventID string) (domain.Event, error)
	// FindByLegacyKey resolves events stored before chained attempt ids,
	// keyed "{primary_object_id}_{event_type}".
	FindByLegacyKey(ctx context.Context, merchantID, legacyKey string) (domain.Event, error)
	UpdateOutcome(ctx context.Context, merchantID, eventID string, response json.RawMessage, notified, overallSuccess bool) error
	ListAttempts(ctx context.Context, merchantID, initialAttemptID string) ([]domain.Event, error)
}

// Per-class read-only resource lookups. Implementations must serve the
// already-persisted local view and never force a sync with upstream payment
// networks.
type PaymentReader interface {
	RetrievePayment(ctx context.Context, merchantID, paymentID string) (resource.Envelope, error)
}

type RefundReader interface {
	RetrieveRefund(ctx context.Context, merchantID, refundID string) (resource.Envelope, error)
}

type DisputeReader interface {
	RetrieveDispute(ctx context.Context, merchantID, disputeID string) (resource.Envelope, error)
}

type MandateReader interface {
	RetrieveMandate(ctx context.Context, merchantID, mandateID string) (resource.Envelope, error)
}

type PayoutReader interface {
	RetrievePayout(ctx context.Context, merchantID, payoutID string) (resource.Envelope, error)
}

// MerchantContext bundles the merchant material resolved at the top of an
// execution.
type MerchantContext struct {
	KeyStore merchant.KeyStore
	Profile  merchant.BusinessProfile
}

// DeliveryOutcome is the transport's report of one delivery attempt. A nil
// error with Delivered=false means the endpoint answered but rejected the
// notification; both count as failed deliveries for scheduling purposes.
type DeliveryOutcome struct {
	StatusCode int
	Response   json.RawMessage
	Delivered  bool
}

type DeliveryTransport interface {
	Send(ctx context.Context, profile merchant.BusinessProfile, event domain.Event, content domain.RequestContent) (DeliveryOutcome, error)
}

// DeliveryOutcomeEvent is published after every settled delivery attempt.
type DeliveryOutcomeEvent struct {
	MerchantID        string                 `json:"merchant_id"`
	EventID           string                 `json:"event_id"`
	IdempotentEventID string                 `json:"idempotent_event_id"`
	EventType         domain.EventType       `json:"event_type"`
	DeliveryAttempt   domain.DeliveryAttempt `json:"delivery_attempt"`
	PrimaryObjectID   string                 `json:"primary_object_id"`
	Delivered         bool                   `json:"delivered"`
	StatusCode        int                    `json:"status_code,omitempty"`
	Timestamp         time.Time              `json:"timestamp"`
}

type OutcomePublisher interface {
	Publish(ctx context.Context, outcome DeliveryOutcomeEvent) error
}
