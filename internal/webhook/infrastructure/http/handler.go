package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/offsoc/hyperswitch/internal/webhook/application"
	"github.com/offsoc/hyperswitch/internal/webhook/domain"
)

// Handler exposes the operator surface: inspect an event's delivery attempt
// chain and fire manual retries.
type Handler struct {
	log    *slog.Logger
	svc    *application.Orchestrator
	events application.EventLog
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, svc *application.Orchestrator, events application.EventLog) *Handler {
	return &Handler{
		log:    log,
		svc:    svc,
		events: events,
		tracer: otel.Tracer("webhook-ops-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/webhooks/{merchant_id}/events/{event_id}/attempts", h.listAttempts)
	r.Post("/webhooks/{merchant_id}/events/{event_id}/retry", h.retryEvent)
	return r
}

type attemptResponse struct {
	EventID                     string                 `json:"event_id"`
	IdempotentEventID           string                 `json:"idempotent_event_id"`
	EventType                   domain.EventType       `json:"event_type"`
	EventClass                  domain.EventClass      `json:"event_class"`
	DeliveryAttempt             domain.DeliveryAttempt `json:"delivery_attempt"`
	InitialAttemptID            string                 `json:"initial_attempt_id,omitempty"`
	IsWebhookNotified           bool                   `json:"is_webhook_notified"`
	IsOverallDeliverySuccessful bool                   `json:"is_overall_delivery_successful"`
	CreatedAt                   time.Time              `json:"created_at"`
}

func (h *Handler) listAttempts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListDeliveryAttempts")
	defer span.End()

	merchantID := chi.URLParam(r, "merchant_id")
	eventID := chi.URLParam(r, "event_id")

	event, err := h.events.FindByEventID(ctx, merchantID, eventID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	initialAttemptID := event.InitialAttemptID
	if initialAttemptID == "" {
		initialAttemptID = event.EventID
	}

	attempts, err := h.events.ListAttempts(ctx, merchantID, initialAttemptID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]attemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, toAttemptResponse(a))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *Handler) retryEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ManualRetryEvent")
	defer span.End()

	merchantID := chi.URLParam(r, "merchant_id")
	eventID := chi.URLParam(r, "event_id")

	event, err := h.svc.RetryManually(ctx, merchantID, eventID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.log.Info("manual retry triggered", "merchant_id", merchantID, "event_id", event.EventID)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toAttemptResponse(event))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, application.ErrManualRetryUnavailable):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Error("ops request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAttemptResponse(e domain.Event) attemptResponse {
	return attemptResponse{
		EventID:                     e.EventID,
		IdempotentEventID:           e.IdempotentEventID,
		EventType:                   e.EventType,
		EventClass:                  e.EventClass,
		DeliveryAttempt:             e.DeliveryAttempt,
		InitialAttemptID:            e.InitialAttemptID,
		IsWebhookNotified:           e.IsWebhookNotified,
		IsOverallDeliverySuccessful: e.IsOverallDeliverySuccessful,
		CreatedAt:                   e.CreatedAt,
	}
}
