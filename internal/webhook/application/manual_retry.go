package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/offsoc/hyperswitch/internal/webhook/domain"
)

// ErrManualRetryUnavailable means the referenced event has no stored request
// snapshot, so there is nothing to replay verbatim.
var ErrManualRetryUnavailable = errors.New("event has no stored request to replay")

// RetryManually re-delivers a current-format event's stored request right
// away, outside the automatic retry schedule. It mints a ManualRetry event
// chained to the same Initial event and returns it with its outcome flags
// settled.
func (o *Orchestrator) RetryManually(ctx context.Context, merchantID, eventID string) (domain.Event, error) {
	ctx, span := o.tracer.Start(ctx, "OutgoingWebhookManualRetry")
	defer span.End()

	triggering, err := o.events.FindByEventID(ctx, merchantID, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if triggering.IsLegacyFormat() {
		return domain.Event{}, fmt.Errorf("%w: event %s", ErrManualRetryUnavailable, eventID)
	}

	keyStore, err := o.keys.GetMerchantKeyStore(ctx, triggering.MerchantID)
	if err != nil {
		return domain.Event{}, err
	}
	profile, err := o.profiles.GetBusinessProfile(ctx, triggering.BusinessProfileID)
	if err != nil {
		return domain.Event{}, err
	}
	mc := MerchantContext{KeyStore: keyStore, Profile: profile}

	initialAttemptID := triggering.InitialAttemptID
	if initialAttemptID == "" {
		initialAttemptID = triggering.EventID
	}

	event, err := o.events.Insert(ctx, domain.Event{
		EventID:                domain.GenerateEventID(),
		MerchantID:             triggering.MerchantID,
		BusinessProfileID:      triggering.BusinessProfileID,
		EventType:              triggering.EventType,
		EventClass:             triggering.EventClass,
		PrimaryObjectID:        triggering.PrimaryObjectID,
		PrimaryObjectType:      triggering.PrimaryObjectType,
		PrimaryObjectCreatedAt: triggering.PrimaryObjectCreatedAt,
		CreatedAt:              time.Now().UTC(),
		DeliveryAttempt:        domain.DeliveryAttemptManualRetry,
		IdempotentEventID:      domain.IdempotentEventID(triggering.PrimaryObjectID, triggering.EventType, domain.DeliveryAttemptManualRetry),
		InitialAttemptID:       initialAttemptID,
		Request:                triggering.Request,
		Metadata:               triggering.Metadata,
	})
	if err != nil {
		o.log.Error("failed to insert manual retry event", "triggering_event_id", eventID, "err", err)
		return domain.Event{}, err
	}

	var content domain.RequestContent
	if err := json.Unmarshal(event.Request, &content); err != nil {
		return domain.Event{}, fmt.Errorf("%w: stored request of event %s: %v", domain.ErrDeserializationFailed, event.EventID, err)
	}

	outcome, err := o.transport.Send(ctx, mc.Profile, event, content)
	if err != nil {
		o.log.Warn("manual webhook delivery failed", "event_id", event.EventID, "err", err)
	} else {
		if uerr := o.events.UpdateOutcome(ctx, event.MerchantID, event.EventID,
			outcome.Response, outcome.Delivered, outcome.Delivered); uerr != nil {
			o.log.Error("failed to record delivery outcome", "event_id", event.EventID, "err", uerr)
		}
		event.IsWebhookNotified = outcome.Delivered
		event.IsOverallDeliverySuccessful = outcome.Delivered
	}
	o.publishOutcome(ctx, event, outcome)

	return event, nil
}
