package domain

import resource "github.com/offsoc/hyperswitch/internal/resource/domain"

// EventClass is the resource category a notification concerns.
type EventClass string

const (
	EventClassPayments EventClass = "payments"
	EventClassRefunds  EventClass = "refunds"
	EventClassDisputes EventClass = "disputes"
	EventClassMandates EventClass = "mandates"
	EventClassPayouts  EventClass = "payouts"
)

// EventType identifies the state change a webhook notifies subscribers about.
type EventType string

const (
	EventTypePaymentSucceeded  EventType = "payment_succeeded"
	EventTypePaymentFailed     EventType = "payment_failed"
	EventTypePaymentProcessing EventType = "payment_processing"
	EventTypePaymentCancelled  EventType = "payment_cancelled"
	EventTypePaymentAuthorized EventType = "payment_authorized"
	EventTypePaymentCaptured   EventType = "payment_captured"
	EventTypeActionRequired    EventType = "action_required"
	EventTypeRefundSucceeded   EventType = "refund_succeeded"
	EventTypeRefundFailed      EventType = "refund_failed"
	EventTypeDisputeOpened     EventType = "dispute_opened"
	EventTypeDisputeExpired    EventType = "dispute_expired"
	EventTypeDisputeAccepted   EventType = "dispute_accepted"
	EventTypeDisputeCancelled  EventType = "dispute_cancelled"
	EventTypeDisputeChallenged EventType = "dispute_challenged"
	EventTypeDisputeWon        EventType = "dispute_won"
	EventTypeDisputeLost       EventType = "dispute_lost"
	EventTypeMandateActive     EventType = "mandate_active"
	EventTypeMandateRevoked    EventType = "mandate_revoked"
	EventTypePayoutSuccess     EventType = "payout_success"
	EventTypePayoutFailed      EventType = "payout_failed"
	EventTypePayoutInitiated   EventType = "payout_initiated"
	EventTypePayoutExpired     EventType = "payout_expired"
	EventTypePayoutReversed    EventType = "payout_reversed"
	EventTypePayoutCancelled   EventType = "payout_cancelled"
)

// EventTypeFromPaymentStatus maps a payment's current status to the event
// type a webhook about it would carry. The second return is false for
// statuses that never produce a notification.
func EventTypeFromPaymentStatus(s resource.PaymentStatus) (EventType, bool) {
	switch s {
	case resource.PaymentStatusSucceeded, resource.PaymentStatusPartiallyCaptured:
		return EventTypePaymentSucceeded, true
	case resource.PaymentStatusFailed:
		return EventTypePaymentFailed, true
	case resource.PaymentStatusProcessing:
		return EventTypePaymentProcessing, true
	case resource.PaymentStatusCancelled:
		return EventTypePaymentCancelled, true
	case resource.PaymentStatusRequiresCapture:
		return EventTypePaymentAuthorized, true
	case resource.PaymentStatusRequiresCustomerAction:
		return EventTypeActionRequired, true
	default:
		return "", false
	}
}

func EventTypeFromRefundStatus(s resource.RefundStatus) (EventType, bool) {
	switch s {
	case resource.RefundStatusSucceeded:
		return EventTypeRefundSucceeded, true
	case resource.RefundStatusFailed:
		return EventTypeRefundFailed, true
	default:
		return "", false
	}
}

func EventTypeFromDisputeStatus(s resource.DisputeStatus) (EventType, bool) {
	switch s {
	case resource.DisputeStatusOpened:
		return EventTypeDisputeOpened, true
	case resource.DisputeStatusExpired:
		return EventTypeDisputeExpired, true
	case resource.DisputeStatusAccepted:
		return EventTypeDisputeAccepted, true
	case resource.DisputeStatusCancelled:
		return EventTypeDisputeCancelled, true
	case resource.DisputeStatusChallenged:
		return EventTypeDisputeChallenged, true
	case resource.DisputeStatusWon:
		return EventTypeDisputeWon, true
	case resource.DisputeStatusLost:
		return EventTypeDisputeLost, true
	default:
		return "", false
	}
}

func EventTypeFromMandateStatus(s resource.MandateStatus) (EventType, bool) {
	switch s {
	case resource.MandateStatusActive:
		return EventTypeMandateActive, true
	case resource.MandateStatusRevoked:
		return EventTypeMandateRevoked, true
	default:
		return "", false
	}
}

func EventTypeFromPayoutStatus(s resource.PayoutStatus) (EventType, bool) {
	switch s {
	case resource.PayoutStatusSuccess:
		return EventTypePayoutSuccess, true
	case resource.PayoutStatusFailed:
		return EventTypePayoutFailed, true
	case resource.PayoutStatusInitiated:
		return EventTypePayoutInitiated, true
	case resource.PayoutStatusExpired:
		return EventTypePayoutExpired, true
	case resource.PayoutStatusReversed:
		return EventTypePayoutReversed, true
	case resource.PayoutStatusCancelled:
		return EventTypePayoutCancelled, true
	default:
		return "", false
	}
}
