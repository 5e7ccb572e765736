package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/offsoc/hyperswitch/internal/scheduler"
	"github.com/offsoc/hyperswitch/internal/webhook/domain"
	"github.com/offsoc/hyperswitch/internal/webhook/schedule"
)

// Orchestrator executes one due retry job: it resolves the merchant material
// and the triggering event, mints exactly one new Event, then either replays
// the stored request or reconciles against the resource's current state
// before delivering. Every failed delivery gets exactly one
// reschedule-or-finish decision.
type Orchestrator struct {
	log       *slog.Logger
	tracer    trace.Tracer
	keys      KeyStoreReader
	profiles  ProfileReader
	events    EventLog
	fetcher   *ResourceFetcher
	schedule  *schedule.Loader
	transport DeliveryTransport
	publisher OutcomePublisher
	store     scheduler.Store
}

func NewOrchestrator(log *slog.Logger, keys KeyStoreReader, profiles ProfileReader, events EventLog,
	fetcher *ResourceFetcher, sched *schedule.Loader, transport DeliveryTransport,
	publisher OutcomePublisher, store scheduler.Store) *Orchestrator {
	return &Orchestrator{
		log:       log,
		tracer:    otel.Tracer("webhook-orchestrator"),
		keys:      keys,
		profiles:  profiles,
		events:    events,
		fetcher:   fetcher,
		schedule:  sched,
		transport: transport,
		publisher: publisher,
		store:     store,
	}
}

// Execute implements scheduler.Workflow. A returned error is an
// infrastructure failure: the job store's own error handling requeues the
// job, independent of the business retry schedule consulted here.
func (o *Orchestrator) Execute(ctx context.Context, process scheduler.ProcessTracker) error {
	ctx, span := o.tracer.Start(ctx, "OutgoingWebhookRetry")
	defer span.End()

	attempt := domain.DeliveryAttemptAutomaticRetry

	var tracking domain.TrackingData
	if err := json.Unmarshal(process.TrackingData, &tracking); err != nil {
		return fmt.Errorf("%w: tracking data for process %s: %v", domain.ErrDeserializationFailed, process.ID, err)
	}

	keyStore, err := o.keys.GetMerchantKeyStore(ctx, tracking.MerchantID)
	if err != nil {
		return err
	}
	profile, err := o.profiles.GetBusinessProfile(ctx, tracking.BusinessProfileID)
	if err != nil {
		return err
	}
	mc := MerchantContext{KeyStore: keyStore, Profile: profile}

	eventID := domain.GenerateEventID()
	idempotentID := domain.IdempotentEventID(tracking.PrimaryObjectID, tracking.EventType, attempt)

	var triggering domain.Event
	if tracking.InitialAttemptID != "" {
		triggering, err = o.events.FindByEventID(ctx, profile.MerchantID, tracking.InitialAttemptID)
	} else {
		// Tracking data written by an old application version carries no
		// initial attempt id; its event sits under the old id format.
		legacyKey := domain.LegacyEventID(tracking.PrimaryObjectID, tracking.EventType)
		triggering, err = o.events.FindByLegacyKey(ctx, profile.MerchantID, legacyKey)
	}
	if err != nil {
		return err
	}

	event, err := o.events.Insert(ctx, domain.Event{
		EventID:                eventID,
		MerchantID:             profile.MerchantID,
		BusinessProfileID:      profile.ProfileID,
		EventType:              triggering.EventType,
		EventClass:             triggering.EventClass,
		PrimaryObjectID:        triggering.PrimaryObjectID,
		PrimaryObjectType:      triggering.PrimaryObjectType,
		PrimaryObjectCreatedAt: triggering.PrimaryObjectCreatedAt,
		CreatedAt:              time.Now().UTC(),
		DeliveryAttempt:        attempt,
		IdempotentEventID:      idempotentID,
		InitialAttemptID:       triggering.EventID,
		Request:                triggering.Request,
		Metadata:               triggering.Metadata,
	})
	if err != nil {
		o.log.Error("failed to insert event", "event_id", eventID, "err", err)
		return err
	}

	if !event.IsLegacyFormat() {
		// Current-format event: replay the stored request verbatim, no
		// reconciliation.
		var content domain.RequestContent
		if err := json.Unmarshal(event.Request, &content); err != nil {
			return fmt.Errorf("%w: stored request of event %s: %v", domain.ErrDeserializationFailed, event.EventID, err)
		}
		return o.deliverAndSettle(ctx, mc, process, event, content)
	}

	// Legacy-format event: re-derive the payload from the resource's current
	// state and check the state is still the one this retry was scheduled for.
	content, currentType, err := o.fetcher.Fetch(ctx, mc, tracking.EventClass, tracking.PrimaryObjectID)
	if err != nil {
		return err
	}
	if currentType != tracking.EventType {
		o.log.Warn("resource status changed since event creation, finishing job",
			"event_id", event.EventID,
			"primary_object_id", tracking.PrimaryObjectID,
			"current_event_type", currentType,
			"recorded_event_type", tracking.EventType)
		return o.store.FinishWithBusinessStatus(ctx, process, scheduler.BusinessStatusResourceStatusMismatch)
	}

	webhook := domain.OutgoingWebhook{
		MerchantID: tracking.MerchantID,
		EventID:    event.EventID,
		EventType:  currentType,
		Content:    content,
		Timestamp:  event.CreatedAt,
	}
	requestContent, err := domain.BuildRequestContent(webhook, event, profile)
	if err != nil {
		o.log.Error("failed to build outgoing webhook request", "event_id", event.EventID, "err", err)
		return err
	}
	return o.deliverAndSettle(ctx, mc, process, event, requestContent)
}

// deliverAndSettle hands the rendered request to the transport, records the
// outcome on the Event, raises the outcome event, and makes the single
// reschedule-or-finish decision.
func (o *Orchestrator) deliverAndSettle(ctx context.Context, mc MerchantContext, process scheduler.ProcessTracker,
	event domain.Event, content domain.RequestContent) error {
	outcome, err := o.transport.Send(ctx, mc.Profile, event, content)
	if err != nil {
		o.log.Warn("webhook delivery failed", "event_id", event.EventID, "err", err)
	} else {
		if uerr := o.events.UpdateOutcome(ctx, event.MerchantID, event.EventID,
			outcome.Response, outcome.Delivered, outcome.Delivered); uerr != nil {
			o.log.Error("failed to record delivery outcome", "event_id", event.EventID, "err", uerr)
		}
	}

	o.publishOutcome(ctx, event, outcome)

	if err == nil && outcome.Delivered {
		o.log.Info("webhook delivered", "event_id", event.EventID, "status_code", outcome.StatusCode)
		return o.store.FinishWithBusinessStatus(ctx, process, scheduler.BusinessStatusCompleted)
	}
	return o.rescheduleOrFinish(ctx, process, event.MerchantID)
}

// rescheduleOrFinish consults the business retry schedule for the next
// attempt and either reschedules the job or finishes it exhausted.
func (o *Orchestrator) rescheduleOrFinish(ctx context.Context, process scheduler.ProcessTracker, merchantID string) error {
	when, ok := o.schedule.NextScheduleTime(ctx, merchantID, process.RetryCount+1)
	if !ok {
		o.log.Info("webhook retry budget exhausted",
			"process_id", process.ID, "merchant_id", merchantID, "retry_count", process.RetryCount)
		return o.store.FinishWithBusinessStatus(ctx, process, scheduler.BusinessStatusRetriesExceeded)
	}
	return o.store.RetryProcess(ctx, process, when)
}

func (o *Orchestrator) publishOutcome(ctx context.Context, event domain.Event, outcome DeliveryOutcome) {
	if o.publisher == nil {
		return
	}
	err := o.publisher.Publish(ctx, DeliveryOutcomeEvent{
		MerchantID:        event.MerchantID,
		EventID:           event.EventID,
		IdempotentEventID: event.IdempotentEventID,
		EventType:         event.EventType,
		DeliveryAttempt:   event.DeliveryAttempt,
		PrimaryObjectID:   event.PrimaryObjectID,
		Delivered:         outcome.Delivered,
		StatusCode:        outcome.StatusCode,
		Timestamp:         time.Now().UTC(),
	})
	if err != nil {
		o.log.Error("failed to publish delivery outcome", "event_id", event.EventID, "err", err)
	}
}
