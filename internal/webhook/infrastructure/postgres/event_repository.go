package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/offsoc/hyperswitch/internal/webhook/domain"
)

const eventColumns = `event_id, merchant_id, business_profile_id, event_type, event_class,
	primary_object_id, primary_object_type, primary_object_created_at, created_at,
	delivery_attempt, idempotent_event_id, coalesce(initial_attempt_id, ''),
	request, response, metadata, is_webhook_notified, is_overall_delivery_successful`

// EventRepository is the append-only Event Log. Rows are never updated after
// insert except for their outcome columns.
type EventRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewEventRepository(log *slog.Logger, pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{log: log, pool: pool}
}

func (r *EventRepository) Insert(ctx context.Context, event domain.Event) (domain.Event, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO events (event_id, merchant_id, business_profile_id, event_type, event_class,
			primary_object_id, primary_object_type, primary_object_created_at, created_at,
			delivery_attempt, idempotent_event_id, initial_attempt_id,
			request, response, metadata, is_webhook_notified, is_overall_delivery_successful)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, nullif($12, ''), $13, $14, $15, $16, $17)
	`, event.EventID, event.MerchantID, event.BusinessProfileID, event.EventType, event.EventClass,
		event.PrimaryObjectID, event.PrimaryObjectType, event.PrimaryObjectCreatedAt, event.CreatedAt,
		event.DeliveryAttempt, event.IdempotentEventID, event.InitialAttemptID,
		event.Request, event.Response, event.Metadata, event.IsWebhookNotified, event.IsOverallDeliverySuccessful)
	if err != nil {
		return domain.Event{}, fmt.Errorf("insert event %s: %w", event.EventID, err)
	}
	return event, nil
}

func (r *EventRepository) FindByEventID(ctx context.Context, merchantID, eventID string) (domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE merchant_id = $1 AND event_id = $2
	`, merchantID, eventID)
	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("%w: event %q", domain.ErrNotFound, eventID)
	}
	return event, err
}

// FindByLegacyKey resolves events written before chained attempt ids: those
// rows carry the composite "{primary_object_id}_{event_type}" value as their
// event id.
func (r *EventRepository) FindByLegacyKey(ctx context.Context, merchantID, legacyKey string) (domain.Event, error) {
	return r.FindByEventID(ctx, merchantID, legacyKey)
}

func (r *EventRepository) UpdateOutcome(ctx context.Context, merchantID, eventID string, response json.RawMessage, notified, overallSuccess bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE events
		SET response = $3, is_webhook_notified = $4, is_overall_delivery_successful = $5
		WHERE merchant_id = $1 AND event_id = $2
	`, merchantID, eventID, response, notified, overallSuccess)
	return err
}

func (r *EventRepository) ListAttempts(ctx context.Context, merchantID, initialAttemptID string) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE merchant_id = $1 AND (event_id = $2 OR initial_attempt_id = $2)
		ORDER BY created_at
	`, merchantID, initialAttemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var event domain.Event
	err := row.Scan(&event.EventID, &event.MerchantID, &event.BusinessProfileID, &event.EventType,
		&event.EventClass, &event.PrimaryObjectID, &event.PrimaryObjectType, &event.PrimaryObjectCreatedAt,
		&event.CreatedAt, &event.DeliveryAttempt, &event.IdempotentEventID, &event.InitialAttemptID,
		&event.Request, &event.Response, &event.Metadata, &event.IsWebhookNotified, &event.IsOverallDeliverySuccessful)
	return event, err
}
