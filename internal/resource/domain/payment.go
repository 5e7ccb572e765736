package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusSucceeded              PaymentStatus = "succeeded"
	PaymentStatusFailed                 PaymentStatus = "failed"
	PaymentStatusCancelled              PaymentStatus = "cancelled"
	PaymentStatusProcessing             PaymentStatus = "processing"
	PaymentStatusRequiresCapture        PaymentStatus = "requires_capture"
	PaymentStatusRequiresCustomerAction PaymentStatus = "requires_customer_action"
	PaymentStatusRequiresPaymentMethod  PaymentStatus = "requires_payment_method"
	PaymentStatusPartiallyCaptured      PaymentStatus = "partially_captured"
)

type Payment struct {
	PaymentID    string        `json:"payment_id"`
	MerchantID   string        `json:"merchant_id"`
	Status       PaymentStatus `json:"status"`
	Amount       int64         `json:"amount"`
	Currency     string        `json:"currency"`
	Connector    string        `json:"connector,omitempty"`
	ErrorMessage *string       `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
