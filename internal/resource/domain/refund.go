package domain

import "time"

type RefundStatus string

const (
	RefundStatusSucceeded RefundStatus = "succeeded"
	RefundStatusFailed    RefundStatus = "failed"
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusReview    RefundStatus = "review"
)

type Refund struct {
	RefundID     string       `json:"refund_id"`
	PaymentID    string       `json:"payment_id"`
	MerchantID   string       `json:"merchant_id"`
	Status       RefundStatus `json:"status"`
	Amount       int64        `json:"amount"`
	Currency     string       `json:"currency"`
	Reason       *string      `json:"reason,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
