package application_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	merchant "github.com/offsoc/hyperswitch/internal/merchant/domain"
	resource "github.com/offsoc/hyperswitch/internal/resource/domain"
	"github.com/offsoc/hyperswitch/internal/scheduler"
	"github.com/offsoc/hyperswitch/internal/webhook/application"
	"github.com/offsoc/hyperswitch/internal/webhook/domain"
	"github.com/offsoc/hyperswitch/internal/webhook/schedule"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type fakeMerchants struct {
	keyStore merchant.KeyStore
	profile  merchant.BusinessProfile
}

func (f *fakeMerchants) GetMerchantKeyStore(ctx context.Context, merchantID string) (merchant.KeyStore, error) {
	return f.keyStore, nil
}

func (f *fakeMerchants) GetBusinessProfile(ctx context.Context, profileID string) (merchant.BusinessProfile, error) {
	return f.profile, nil
}

type fakeEventLog struct {
	events      map[string]domain.Event
	inserted    []domain.Event
	legacyKeys  []string
	chainedKeys []string
	insertErr   error
	outcomes    []recordedOutcome
}

type recordedOutcome struct {
	eventID  string
	notified bool
}

func newFakeEventLog(events ...domain.Event) *fakeEventLog {
	log := &fakeEventLog{events: make(map[string]domain.Event)}
	for _, e := range events {
		log.events[e.EventID] = e
	}
	return log
}

func (f *fakeEventLog) Insert(ctx context.Context, event domain.Event) (domain.Event, error) {
	if f.insertErr != nil {
		return domain.Event{}, f.insertErr
	}
	f.inserted = append(f.inserted, event)
	f.events[event.EventID] = event
	return event, nil
}

func (f *fakeEventLog) FindByEventID(ctx context.Context, merchantID, eventID string) (domain.Event, error) {
	f.chainedKeys = append(f.chainedKeys, eventID)
	event, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, fmt.Errorf("%w: event %q", domain.ErrNotFound, eventID)
	}
	return event, nil
}

func (f *fakeEventLog) FindByLegacyKey(ctx context.Context, merchantID, legacyKey string) (domain.Event, error) {
	f.legacyKeys = append(f.legacyKeys, legacyKey)
	event, ok := f.events[legacyKey]
	if !ok {
		return domain.Event{}, fmt.Errorf("%w: event %q", domain.ErrNotFound, legacyKey)
	}
	return event, nil
}

func (f *fakeEventLog) UpdateOutcome(ctx context.Context, merchantID, eventID string, response json.RawMessage, notified, overallSuccess bool) error {
	f.outcomes = append(f.outcomes, recordedOutcome{eventID: eventID, notified: notified})
	return nil
}

func (f *fakeEventLog) ListAttempts(ctx context.Context, merchantID, initialAttemptID string) ([]domain.Event, error) {
	var attempts []domain.Event
	for _, e := range f.events {
		if e.EventID == initialAttemptID || e.InitialAttemptID == initialAttemptID {
			attempts = append(attempts, e)
		}
	}
	return attempts, nil
}

type fakeReaders struct {
	envelope resource.Envelope
	err      error
	calls    int
}

func (f *fakeReaders) retrieve() (resource.Envelope, error) {
	f.calls++
	if f.err != nil {
		return resource.Envelope{}, f.err
	}
	return f.envelope, nil
}

func (f *fakeReaders) RetrievePayment(ctx context.Context, merchantID, paymentID string) (resource.Envelope, error) {
	return f.retrieve()
}

func (f *fakeReaders) RetrieveRefund(ctx context.Context, merchantID, refundID string) (resource.Envelope, error) {
	return f.retrieve()
}

func (f *fakeReaders) RetrieveDispute(ctx context.Context, merchantID, disputeID string) (resource.Envelope, error) {
	return f.retrieve()
}

func (f *fakeReaders) RetrieveMandate(ctx context.Context, merchantID, mandateID string) (resource.Envelope, error) {
	return f.retrieve()
}

func (f *fakeReaders) RetrievePayout(ctx context.Context, merchantID, payoutID string) (resource.Envelope, error) {
	return f.retrieve()
}

type sentRequest struct {
	event   domain.Event
	content domain.RequestContent
}

type fakeTransport struct {
	sent    []sentRequest
	outcome application.DeliveryOutcome
	err     error
}

func (f *fakeTransport) Send(ctx context.Context, profile merchant.BusinessProfile, event domain.Event, content domain.RequestContent) (application.DeliveryOutcome, error) {
	f.sent = append(f.sent, sentRequest{event: event, content: content})
	if f.err != nil {
		return application.DeliveryOutcome{}, f.err
	}
	return f.outcome, nil
}

type fakeStore struct {
	finished       []string
	retriedAt      []time.Time
	retriedProcess []scheduler.ProcessTracker
}

func (f *fakeStore) Enqueue(ctx context.Context, pt scheduler.ProcessTracker) error { return nil }

func (f *fakeStore) ClaimDue(ctx context.Context, workerID string, limit int, lease time.Duration) ([]scheduler.ProcessTracker, error) {
	return nil, nil
}

func (f *fakeStore) RetryProcess(ctx context.Context, pt scheduler.ProcessTracker, scheduleTime time.Time) error {
	f.retriedAt = append(f.retriedAt, scheduleTime)
	f.retriedProcess = append(f.retriedProcess, pt)
	return nil
}

func (f *fakeStore) FinishWithBusinessStatus(ctx context.Context, pt scheduler.ProcessTracker, businessStatus string) error {
	f.finished = append(f.finished, businessStatus)
	return nil
}

func (f *fakeStore) ReleaseStale(ctx context.Context) (int64, error) { return 0, nil }

type fakePublisher struct {
	published []application.DeliveryOutcomeEvent
}

func (f *fakePublisher) Publish(ctx context.Context, outcome application.DeliveryOutcomeEvent) error {
	f.published = append(f.published, outcome)
	return nil
}

type notFoundConfigStore struct{}

func (notFoundConfigStore) FindConfigByKey(ctx context.Context, key string) (string, error) {
	return "", fmt.Errorf("%w: config %q", domain.ErrNotFound, key)
}

type staticConfigStore struct{ config string }

func (s staticConfigStore) FindConfigByKey(ctx context.Context, key string) (string, error) {
	return s.config, nil
}

// testHarness wires an orchestrator over fakes with the built-in default
// retry mapping unless a config store is supplied.
type testHarness struct {
	merchants *fakeMerchants
	events    *fakeEventLog
	readers   *fakeReaders
	transport *fakeTransport
	store     *fakeStore
	publisher *fakePublisher
	svc       *application.Orchestrator
}

func newHarness(events *fakeEventLog, configStore schedule.ConfigStore) *testHarness {
	if configStore == nil {
		configStore = notFoundConfigStore{}
	}
	h := &testHarness{
		merchants: &fakeMerchants{
			keyStore: merchant.KeyStore{MerchantID: "m1", Key: "key"},
			profile: merchant.BusinessProfile{
				ProfileID:              "prof_1",
				MerchantID:             "m1",
				WebhookURL:             "https://merchant.example/webhooks",
				PaymentResponseHashKey: "secret",
			},
		},
		events:    events,
		readers:   &fakeReaders{},
		transport: &fakeTransport{outcome: application.DeliveryOutcome{StatusCode: 200, Delivered: true}},
		store:     &fakeStore{},
		publisher: &fakePublisher{},
	}
	log := discardLogger()
	loader := schedule.NewLoader(log, configStore, nil, time.Minute)
	fetcher := application.NewResourceFetcher(log, h.readers, h.readers, h.readers, h.readers, h.readers)
	h.svc = application.NewOrchestrator(log, h.merchants, h.merchants, h.events,
		fetcher, loader, h.transport, h.publisher, h.store)
	return h
}

func trackingPayload(t interface{ Fatalf(string, ...any) }, td domain.TrackingData) json.RawMessage {
	raw, err := json.Marshal(td)
	if err != nil {
		t.Fatalf("marshal tracking data: %v", err)
	}
	return raw
}
