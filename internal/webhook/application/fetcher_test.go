package application_test

import (
	"context"
	"errors"
	"testing"

	merchant "github.com/offsoc/hyperswitch/internal/merchant/domain"
	resource "github.com/offsoc/hyperswitch/internal/resource/domain"
	"github.com/offsoc/hyperswitch/internal/webhook/application"
	"github.com/offsoc/hyperswitch/internal/webhook/domain"
)

func merchantContext() application.MerchantContext {
	return application.MerchantContext{
		KeyStore: merchant.KeyStore{MerchantID: "m1", Key: "key"},
		Profile:  merchant.BusinessProfile{ProfileID: "prof_1", MerchantID: "m1"},
	}
}

func newFetcher(readers *fakeReaders) *application.ResourceFetcher {
	return application.NewResourceFetcher(discardLogger(), readers, readers, readers, readers, readers)
}

func TestFetchMapsPaymentStatusToEventType(t *testing.T) {
	readers := &fakeReaders{}
	env, err := resource.JSONEnvelope(resource.Payment{PaymentID: "pay_1", Status: resource.PaymentStatusSucceeded})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	readers.envelope = env

	content, eventType, err := newFetcher(readers).Fetch(context.Background(), merchantContext(), domain.EventClassPayments, "pay_1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if eventType != domain.EventTypePaymentSucceeded {
		t.Fatalf("event type = %q, want %q", eventType, domain.EventTypePaymentSucceeded)
	}
	details, ok := content.(domain.PaymentDetails)
	if !ok {
		t.Fatalf("content type = %T, want PaymentDetails", content)
	}
	if details.Payment.PaymentID != "pay_1" {
		t.Fatalf("payment id = %q, want pay_1", details.Payment.PaymentID)
	}
	if details.Class() != domain.EventClassPayments {
		t.Fatalf("content class = %q, want payments", details.Class())
	}
}

func TestFetchDispatchesPerEventClass(t *testing.T) {
	cases := []struct {
		class     domain.EventClass
		body      any
		eventType domain.EventType
	}{
		{domain.EventClassRefunds, resource.Refund{RefundID: "ref_1", Status: resource.RefundStatusSucceeded}, domain.EventTypeRefundSucceeded},
		{domain.EventClassDisputes, resource.Dispute{DisputeID: "dp_1", Status: resource.DisputeStatusOpened}, domain.EventTypeDisputeOpened},
		{domain.EventClassMandates, resource.Mandate{MandateID: "man_1", Status: resource.MandateStatusActive}, domain.EventTypeMandateActive},
		{domain.EventClassPayouts, resource.Payout{PayoutID: "po_1", Status: resource.PayoutStatusSuccess}, domain.EventTypePayoutSuccess},
	}
	for _, tc := range cases {
		t.Run(string(tc.class), func(t *testing.T) {
			readers := &fakeReaders{}
			env, err := resource.JSONEnvelope(tc.body)
			if err != nil {
				t.Fatalf("build envelope: %v", err)
			}
			readers.envelope = env

			content, eventType, err := newFetcher(readers).Fetch(context.Background(), merchantContext(), tc.class, "obj_1")
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if eventType != tc.eventType {
				t.Fatalf("event type = %q, want %q", eventType, tc.eventType)
			}
			if content.Class() != tc.class {
				t.Fatalf("content class = %q, want %q", content.Class(), tc.class)
			}
			if readers.calls != 1 {
				t.Fatalf("reader calls = %d, want 1", readers.calls)
			}
		})
	}
}

func TestFetchTerminalStatusYieldsNoEventType(t *testing.T) {
	readers := &fakeReaders{}
	env, err := resource.JSONEnvelope(resource.Payment{PaymentID: "pay_1", Status: resource.PaymentStatusRequiresPaymentMethod})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	readers.envelope = env

	_, eventType, err := newFetcher(readers).Fetch(context.Background(), merchantContext(), domain.EventClassPayments, "pay_1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if eventType != "" {
		t.Fatalf("event type = %q, want empty for unmapped status", eventType)
	}
}

func TestFetchRejectsNonJSONEnvelope(t *testing.T) {
	readers := &fakeReaders{envelope: resource.Envelope{Kind: resource.ResponseKindRedirect}}

	_, _, err := newFetcher(readers).Fetch(context.Background(), merchantContext(), domain.EventClassRefunds, "ref_9")
	var fetchErr *domain.ResourceFetchingFailedError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want ResourceFetchingFailedError", err)
	}
	if fetchErr.ResourceName != "ref_9" {
		t.Fatalf("resource name = %q, want ref_9", fetchErr.ResourceName)
	}
}

func TestFetchWrapsMalformedBody(t *testing.T) {
	readers := &fakeReaders{envelope: resource.Envelope{Kind: resource.ResponseKindJSON, Body: []byte("not-json")}}

	_, _, err := newFetcher(readers).Fetch(context.Background(), merchantContext(), domain.EventClassPayments, "pay_1")
	if !errors.Is(err, domain.ErrDeserializationFailed) {
		t.Fatalf("error = %v, want ErrDeserializationFailed", err)
	}
}

func TestFetchPropagatesReaderError(t *testing.T) {
	readerErr := errors.New("connection reset")
	readers := &fakeReaders{err: readerErr}

	_, _, err := newFetcher(readers).Fetch(context.Background(), merchantContext(), domain.EventClassPayouts, "po_1")
	if !errors.Is(err, readerErr) {
		t.Fatalf("error = %v, want reader error", err)
	}
}

func TestFetchRejectsUnknownEventClass(t *testing.T) {
	readers := &fakeReaders{}
	_, _, err := newFetcher(readers).Fetch(context.Background(), merchantContext(), domain.EventClass("invoices"), "inv_1")
	if err == nil {
		t.Fatal("Fetch accepted unknown event class, want error")
	}
	if readers.calls != 0 {
		t.Fatalf("reader calls = %d, want 0", readers.calls)
	}
}
