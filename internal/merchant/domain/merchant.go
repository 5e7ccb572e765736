package domain

import "time"

// KeyStore holds a merchant's key material, looked up per execution.
type KeyStore struct {
	MerchantID string
	Key        string
	CreatedAt  time.Time
}

// BusinessProfile carries the delivery settings for one of a merchant's
// profiles: where webhooks go and how their payloads are signed.
type BusinessProfile struct {
	ProfileID              string
	MerchantID             string
	ProfileName            string
	WebhookURL             string
	PaymentResponseHashKey string
	CustomHeaders          map[string]string
	CreatedAt              time.Time
}
