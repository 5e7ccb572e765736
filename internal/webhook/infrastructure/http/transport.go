package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	merchant "github.com/offsoc/hyperswitch/internal/merchant/domain"
	"github.com/offsoc/hyperswitch/internal/webhook/application"
	"github.com/offsoc/hyperswitch/internal/webhook/domain"
)

const maxResponseBytes = 64 * 1024

// Transport delivers rendered webhook requests to merchant endpoints. A
// returned error is a transport-level failure (the endpoint was never
// reached); an HTTP response, whatever its status, settles the attempt.
type Transport struct {
	log    *slog.Logger
	client *http.Client
}

func NewTransport(log *slog.Logger, timeout time.Duration) *Transport {
	return &Transport{
		log:    log,
		client: &http.Client{Timeout: timeout},
	}
}

func (t *Transport) Send(ctx context.Context, profile merchant.BusinessProfile, event domain.Event, content domain.RequestContent) (application.DeliveryOutcome, error) {
	if profile.WebhookURL == "" {
		return application.DeliveryOutcome{}, fmt.Errorf("business profile %s has no webhook url", profile.ProfileID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, profile.WebhookURL, bytes.NewReader(content.Body))
	if err != nil {
		return application.DeliveryOutcome{}, err
	}
	for k, v := range content.Headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return application.DeliveryOutcome{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		t.log.Warn("failed to read webhook response body", "event_id", event.EventID, "err", err)
		body = nil
	}

	delivered := resp.StatusCode >= 200 && resp.StatusCode < 300
	snapshot, _ := json.Marshal(struct {
		StatusCode int    `json:"status_code"`
		Body       string `json:"body,omitempty"`
	}{StatusCode: resp.StatusCode, Body: string(body)})

	return application.DeliveryOutcome{
		StatusCode: resp.StatusCode,
		Response:   snapshot,
		Delivered:  delivered,
	}, nil
}
