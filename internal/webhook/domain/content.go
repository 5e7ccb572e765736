package domain

import (
	"encoding/json"
	"fmt"
	"time"

	resource "github.com/offsoc/hyperswitch/internal/resource/domain"
)

// WebhookContent is the closed union over the five resource kinds a webhook
// can carry. The unexported marker keeps the set closed; dispatch over it is
// an exhaustive type switch.
type WebhookContent interface {
	Class() EventClass
	webhookContent()
}

type PaymentDetails struct{ Payment resource.Payment }

func (PaymentDetails) Class() EventClass { return EventClassPayments }
func (PaymentDetails) webhookContent()   {}

type RefundDetails struct{ Refund resource.Refund }

func (RefundDetails) Class() EventClass { return EventClassRefunds }
func (RefundDetails) webhookContent()   {}

type DisputeDetails struct{ Dispute resource.Dispute }

func (DisputeDetails) Class() EventClass { return EventClassDisputes }
func (DisputeDetails) webhookContent()   {}

type MandateDetails struct{ Mandate resource.Mandate }

func (MandateDetails) Class() EventClass { return EventClassMandates }
func (MandateDetails) webhookContent()   {}

type PayoutDetails struct{ Payout resource.Payout }

func (PayoutDetails) Class() EventClass { return EventClassPayouts }
func (PayoutDetails) webhookContent()   {}

// OutgoingWebhook is the notification envelope delivered to a merchant's
// endpoint. It is never persisted; its rendered request form is.
type OutgoingWebhook struct {
	MerchantID string
	EventID    string
	EventType  EventType
	Content    WebhookContent
	Timestamp  time.Time
}

func (w OutgoingWebhook) MarshalJSON() ([]byte, error) {
	type taggedContent struct {
		Type   string `json:"type"`
		Object any    `json:"object"`
	}
	var content taggedContent
	switch c := w.Content.(type) {
	case PaymentDetails:
		content = taggedContent{Type: "payment_details", Object: c.Payment}
	case RefundDetails:
		content = taggedContent{Type: "refund_details", Object: c.Refund}
	case DisputeDetails:
		content = taggedContent{Type: "dispute_details", Object: c.Dispute}
	case MandateDetails:
		content = taggedContent{Type: "mandate_details", Object: c.Mandate}
	case PayoutDetails:
		content = taggedContent{Type: "payout_details", Object: c.Payout}
	default:
		return nil, fmt.Errorf("unknown webhook content %T", w.Content)
	}
	return json.Marshal(struct {
		MerchantID string        `json:"merchant_id"`
		EventID    string        `json:"event_id"`
		EventType  EventType     `json:"event_type"`
		Content    taggedContent `json:"content"`
		Timestamp  time.Time     `json:"timestamp"`
	}{
		MerchantID: w.MerchantID,
		EventID:    w.EventID,
		EventType:  w.EventType,
		Content:    content,
		Timestamp:  w.Timestamp,
	})
}
