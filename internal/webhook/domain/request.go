package domain

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"

	merchant "github.com/offsoc/hyperswitch/internal/merchant/domain"
)

// Header names surfaced to the subscriber for client-side deduplication and
// payload verification.
const (
	HeaderEventID           = "X-Webhook-Event-Id"
	HeaderIdempotentEventID = "X-Webhook-Idempotent-Event-Id"
	HeaderDeliveryAttempt   = "X-Webhook-Delivery-Attempt"
	HeaderSignature         = "X-Webhook-Signature"
)

// RequestContent is the rendered form of an outgoing webhook: the exact body
// and headers to put on the wire. It is snapshotted on the Event so retries
// of current-format events replay it verbatim.
type RequestContent struct {
	Body    json.RawMessage   `json:"body"`
	Headers map[string]string `json:"headers"`
}

// BuildRequestContent renders a webhook into its wire form, signing the body
// with the profile's payment response hash key when one is configured.
func BuildRequestContent(webhook OutgoingWebhook, event Event, profile merchant.BusinessProfile) (RequestContent, error) {
	body, err := json.Marshal(webhook)
	if err != nil {
		return RequestContent{}, fmt.Errorf("marshal outgoing webhook: %w", err)
	}

	headers := map[string]string{
		"Content-Type":          "application/json",
		HeaderEventID:           event.EventID,
		HeaderIdempotentEventID: event.IdempotentEventID,
		HeaderDeliveryAttempt:   string(event.DeliveryAttempt),
	}
	if profile.PaymentResponseHashKey != "" {
		headers[HeaderSignature] = SignPayload(body, profile.PaymentResponseHashKey)
	}
	for k, v := range profile.CustomHeaders {
		headers[k] = v
	}
	return RequestContent{Body: body, Headers: headers}, nil
}

// SignPayload computes the hex HMAC-SHA512 of the payload under the
// merchant's secret.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
