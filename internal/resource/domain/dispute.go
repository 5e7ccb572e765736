package domain

import "time"

type DisputeStatus string

const (
	DisputeStatusOpened     DisputeStatus = "dispute_opened"
	DisputeStatusExpired    DisputeStatus = "dispute_expired"
	DisputeStatusAccepted   DisputeStatus = "dispute_accepted"
	DisputeStatusCancelled  DisputeStatus = "dispute_cancelled"
	DisputeStatusChallenged DisputeStatus = "dispute_challenged"
	DisputeStatusWon        DisputeStatus = "dispute_won"
	DisputeStatusLost       DisputeStatus = "dispute_lost"
)

type Dispute struct {
	DisputeID           string        `json:"dispute_id"`
	PaymentID           string        `json:"payment_id"`
	MerchantID          string        `json:"merchant_id"`
	Status              DisputeStatus `json:"status"`
	Amount              int64         `json:"amount"`
	Currency            string        `json:"currency"`
	Stage               string        `json:"stage"`
	ConnectorReason     *string       `json:"connector_reason,omitempty"`
	ChallengeRequiredBy *time.Time    `json:"challenge_required_by,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}
