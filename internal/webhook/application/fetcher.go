package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	resource "github.com/offsoc/hyperswitch/internal/resource/domain"
	"github.com/offsoc/hyperswitch/internal/webhook/domain"
)

// ResourceFetcher resolves a resource's current canonical state and renders
// it as webhook content. Dispatch over the five event classes is exhaustive.
type ResourceFetcher struct {
	log      *slog.Logger
	payments PaymentReader
	refunds  RefundReader
	disputes DisputeReader
	mandates MandateReader
	payouts  PayoutReader
}

func NewResourceFetcher(log *slog.Logger, payments PaymentReader, refunds RefundReader,
	disputes DisputeReader, mandates MandateReader, payouts PayoutReader) *ResourceFetcher {
	return &ResourceFetcher{
		log:      log,
		payments: payments,
		refunds:  refunds,
		disputes: disputes,
		mandates: mandates,
		payouts:  payouts,
	}
}

// Fetch returns the resource's rendered content and the event type its
// current status maps to. The returned event type is empty when the status
// produces no notification; callers treat that as a state mismatch. A
// non-JSON envelope from a reader is a collaborator contract violation and
// surfaces as ResourceFetchingFailedError.
func (f *ResourceFetcher) Fetch(ctx context.Context, mc MerchantContext, class domain.EventClass, objectID string) (domain.WebhookContent, domain.EventType, error) {
	merchantID := mc.Profile.MerchantID

	switch class {
	case domain.EventClassPayments:
		env, err := f.payments.RetrievePayment(ctx, merchantID, objectID)
		if err != nil {
			return nil, "", err
		}
		var p resource.Payment
		if err := f.decode(env, objectID, &p); err != nil {
			return nil, "", err
		}
		eventType, _ := domain.EventTypeFromPaymentStatus(p.Status)
		f.log.Debug("fetched current payment state", "payment_id", objectID, "status", p.Status)
		return domain.PaymentDetails{Payment: p}, eventType, nil

	case domain.EventClassRefunds:
		env, err := f.refunds.RetrieveRefund(ctx, merchantID, objectID)
		if err != nil {
			return nil, "", err
		}
		var r resource.Refund
		if err := f.decode(env, objectID, &r); err != nil {
			return nil, "", err
		}
		eventType, _ := domain.EventTypeFromRefundStatus(r.Status)
		f.log.Debug("fetched current refund state", "refund_id", objectID, "status", r.Status)
		return domain.RefundDetails{Refund: r}, eventType, nil

	case domain.EventClassDisputes:
		env, err := f.disputes.RetrieveDispute(ctx, merchantID, objectID)
		if err != nil {
			return nil, "", err
		}
		var d resource.Dispute
		if err := f.decode(env, objectID, &d); err != nil {
			return nil, "", err
		}
		eventType, _ := domain.EventTypeFromDisputeStatus(d.Status)
		f.log.Debug("fetched current dispute state", "dispute_id", objectID, "status", d.Status)
		return domain.DisputeDetails{Dispute: d}, eventType, nil

	case domain.EventClassMandates:
		env, err := f.mandates.RetrieveMandate(ctx, merchantID, objectID)
		if err != nil {
			return nil, "", err
		}
		var m resource.Mandate
		if err := f.decode(env, objectID, &m); err != nil {
			return nil, "", err
		}
		eventType, _ := domain.EventTypeFromMandateStatus(m.Status)
		f.log.Debug("fetched current mandate state", "mandate_id", objectID, "status", m.Status)
		return domain.MandateDetails{Mandate: m}, eventType, nil

	case domain.EventClassPayouts:
		env, err := f.payouts.RetrievePayout(ctx, merchantID, objectID)
		if err != nil {
			return nil, "", err
		}
		var p resource.Payout
		if err := f.decode(env, objectID, &p); err != nil {
			return nil, "", err
		}
		eventType, _ := domain.EventTypeFromPayoutStatus(p.Status)
		f.log.Debug("fetched current payout state", "payout_id", objectID, "status", p.Status)
		return domain.PayoutDetails{Payout: p}, eventType, nil

	default:
		return nil, "", fmt.Errorf("unsupported event class %q", class)
	}
}

func (f *ResourceFetcher) decode(env resource.Envelope, objectID string, out any) error {
	if env.Kind != resource.ResponseKindJSON {
		return &domain.ResourceFetchingFailedError{ResourceName: objectID}
	}
	if err := json.Unmarshal(env.Body, out); err != nil {
		return fmt.Errorf("%w: resource %q: %v", domain.ErrDeserializationFailed, objectID, err)
	}
	return nil
}
