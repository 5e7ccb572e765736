package domain

import "time"

type PayoutStatus string

const (
	PayoutStatusSuccess              PayoutStatus = "success"
	PayoutStatusFailed               PayoutStatus = "failed"
	PayoutStatusCancelled            PayoutStatus = "cancelled"
	PayoutStatusInitiated            PayoutStatus = "initiated"
	PayoutStatusExpired              PayoutStatus = "expired"
	PayoutStatusReversed             PayoutStatus = "reversed"
	PayoutStatusPending              PayoutStatus = "pending"
	PayoutStatusRequiresFulfillment  PayoutStatus = "requires_fulfillment"
	PayoutStatusRequiresConfirmation PayoutStatus = "requires_confirmation"
)

type Payout struct {
	PayoutID     string       `json:"payout_id"`
	MerchantID   string       `json:"merchant_id"`
	CustomerID   string       `json:"customer_id"`
	Status       PayoutStatus `json:"status"`
	Amount       int64        `json:"amount"`
	Currency     string       `json:"currency"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
