package domain

import "time"

type MandateStatus string

const (
	MandateStatusActive   MandateStatus = "active"
	MandateStatusInactive MandateStatus = "inactive"
	MandateStatusPending  MandateStatus = "pending"
	MandateStatusRevoked  MandateStatus = "revoked"
)

type Mandate struct {
	MandateID       string        `json:"mandate_id"`
	MerchantID      string        `json:"merchant_id"`
	CustomerID      string        `json:"customer_id"`
	PaymentMethodID string        `json:"payment_method_id"`
	Status          MandateStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
