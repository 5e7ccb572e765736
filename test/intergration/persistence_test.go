package intergration

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/offsoc/hyperswitch/internal/scheduler"
	schedulerpg "github.com/offsoc/hyperswitch/internal/scheduler/postgres"
	"github.com/offsoc/hyperswitch/internal/webhook/domain"
	webhookpg "github.com/offsoc/hyperswitch/internal/webhook/infrastructure/postgres"
)

const schemaDDL = `
CREATE TABLE events (
	event_id                       text PRIMARY KEY,
	merchant_id                    text NOT NULL,
	business_profile_id            text NOT NULL,
	event_type                     text NOT NULL,
	event_class                    text NOT NULL,
	primary_object_id              text NOT NULL,
	primary_object_type            text NOT NULL,
	primary_object_created_at      timestamptz,
	created_at                     timestamptz NOT NULL,
	delivery_attempt               text NOT NULL,
	idempotent_event_id            text NOT NULL,
	initial_attempt_id             text,
	request                        jsonb,
	response                       jsonb,
	metadata                       jsonb,
	is_webhook_notified            boolean NOT NULL DEFAULT false,
	is_overall_delivery_successful boolean NOT NULL DEFAULT false
);

CREATE TABLE process_tracker (
	id              text PRIMARY KEY,
	name            text NOT NULL,
	tracking_data   jsonb,
	retry_count     int NOT NULL DEFAULT 0,
	schedule_time   timestamptz NOT NULL,
	status          text NOT NULL,
	business_status text,
	worker_id       text,
	lease_until     timestamptz,
	created_at      timestamptz NOT NULL,
	updated_at      timestamptz NOT NULL
);
`

func TestPostgresPersistence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	ctx := context.Background()
	env, err := Setup(ctx)
	if err != nil {
		t.Skipf("containers unavailable: %v", err)
	}
	defer env.Teardown(ctx)

	pool, err := pgxpool.New(ctx, env.PGURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	log := slog.New(slog.DiscardHandler)

	t.Run("event log round trip", func(t *testing.T) {
		repo := webhookpg.NewEventRepository(log, pool)
		created := time.Now().UTC().Truncate(time.Microsecond)

		initial := domain.Event{
			EventID:           "evt_initial",
			MerchantID:        "m1",
			BusinessProfileID: "prof_1",
			EventType:         domain.EventTypePaymentSucceeded,
			EventClass:        domain.EventClassPayments,
			PrimaryObjectID:   "pay_1",
			PrimaryObjectType: "payment",
			CreatedAt:         created,
			DeliveryAttempt:   domain.DeliveryAttemptInitial,
			IdempotentEventID: "pay_1_payment_succeeded",
			Request:           json.RawMessage(`{"body":{"event_id":"evt_initial"},"headers":{"Content-Type":"application/json"}}`),
		}
		if _, err := repo.Insert(ctx, initial); err != nil {
			t.Fatalf("insert initial: %v", err)
		}

		got, err := repo.FindByEventID(ctx, "m1", "evt_initial")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got.IdempotentEventID != initial.IdempotentEventID || got.InitialAttemptID != "" {
			t.Errorf("found event = %+v, want stored initial attempt", got)
		}
		if got.IsLegacyFormat() {
			t.Error("stored request did not survive the round trip")
		}

		if err := repo.UpdateOutcome(ctx, "m1", "evt_initial", json.RawMessage(`{"status_code":200}`), true, true); err != nil {
			t.Fatalf("update outcome: %v", err)
		}
		got, err = repo.FindByEventID(ctx, "m1", "evt_initial")
		if err != nil {
			t.Fatalf("find after outcome: %v", err)
		}
		if !got.IsWebhookNotified || !got.IsOverallDeliverySuccessful {
			t.Errorf("outcome flags = (%v, %v), want both set", got.IsWebhookNotified, got.IsOverallDeliverySuccessful)
		}

		retry := initial
		retry.EventID = "evt_retry"
		retry.InitialAttemptID = "evt_initial"
		retry.DeliveryAttempt = domain.DeliveryAttemptAutomaticRetry
		retry.IdempotentEventID = "pay_1_payment_succeeded_automatic_retry"
		retry.CreatedAt = created.Add(time.Minute)
		if _, err := repo.Insert(ctx, retry); err != nil {
			t.Fatalf("insert retry: %v", err)
		}

		attempts, err := repo.ListAttempts(ctx, "m1", "evt_initial")
		if err != nil {
			t.Fatalf("list attempts: %v", err)
		}
		if len(attempts) != 2 || attempts[0].EventID != "evt_initial" || attempts[1].EventID != "evt_retry" {
			t.Errorf("attempt chain = %+v, want [evt_initial evt_retry] in creation order", attempts)
		}

		if _, err := repo.FindByEventID(ctx, "m1", "evt_missing"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("find missing = %v, want ErrNotFound", err)
		}
	})

	t.Run("claim lease and release", func(t *testing.T) {
		store := schedulerpg.NewStore(log, pool)

		pt := scheduler.ProcessTracker{
			ID:           "pt_1",
			Name:         "OUTGOING_WEBHOOK_RETRY",
			TrackingData: json.RawMessage(`{"merchant_id":"m1"}`),
			ScheduleTime: time.Now().UTC().Add(-time.Second),
		}
		if err := store.Enqueue(ctx, pt); err != nil {
			t.Fatalf("enqueue: %v", err)
		}

		claimed, err := store.ClaimDue(ctx, "worker-a", 10, 5*time.Minute)
		if err != nil {
			t.Fatalf("claim: %v", err)
		}
		if len(claimed) != 1 || claimed[0].ID != "pt_1" {
			t.Fatalf("claimed = %+v, want [pt_1]", claimed)
		}

		// A five minute lease must land minutes out, not a month out.
		var leaseUntil time.Time
		if err := pool.QueryRow(ctx, `SELECT lease_until FROM process_tracker WHERE id = $1`, "pt_1").Scan(&leaseUntil); err != nil {
			t.Fatalf("read lease: %v", err)
		}
		if d := time.Until(leaseUntil); d < 4*time.Minute || d > 6*time.Minute {
			t.Fatalf("lease_until is %v out, want ~5m", d)
		}

		again, err := store.ClaimDue(ctx, "worker-b", 10, 5*time.Minute)
		if err != nil {
			t.Fatalf("second claim: %v", err)
		}
		if len(again) != 0 {
			t.Fatalf("second worker claimed %+v, want none while pt_1 is processing", again)
		}

		if err := store.RetryProcess(ctx, claimed[0], time.Now().UTC().Add(-time.Second)); err != nil {
			t.Fatalf("retry process: %v", err)
		}
		reclaimed, err := store.ClaimDue(ctx, "worker-a", 10, 5*time.Minute)
		if err != nil {
			t.Fatalf("reclaim: %v", err)
		}
		if len(reclaimed) != 1 || reclaimed[0].RetryCount != 1 {
			t.Fatalf("reclaimed = %+v, want pt_1 with retry_count 1", reclaimed)
		}

		if err := store.FinishWithBusinessStatus(ctx, reclaimed[0], scheduler.BusinessStatusCompleted); err != nil {
			t.Fatalf("finish: %v", err)
		}
		done, err := store.ClaimDue(ctx, "worker-a", 10, 5*time.Minute)
		if err != nil {
			t.Fatalf("claim after finish: %v", err)
		}
		if len(done) != 0 {
			t.Fatalf("claimed %+v after finish, want none", done)
		}

		// Crash recovery: an expired lease on a processing row is released.
		_, err = pool.Exec(ctx, `
			INSERT INTO process_tracker (id, name, tracking_data, retry_count, schedule_time, status, worker_id, lease_until, created_at, updated_at)
			VALUES ('pt_stale', 'OUTGOING_WEBHOOK_RETRY', '{}', 0, now() - interval '1 minute', 'processing', 'worker-dead', now() - interval '1 minute', now(), now())
		`)
		if err != nil {
			t.Fatalf("seed stale row: %v", err)
		}
		released, err := store.ReleaseStale(ctx)
		if err != nil {
			t.Fatalf("release stale: %v", err)
		}
		if released != 1 {
			t.Fatalf("released = %d stale claims, want 1", released)
		}
		recovered, err := store.ClaimDue(ctx, "worker-a", 10, 5*time.Minute)
		if err != nil {
			t.Fatalf("claim recovered: %v", err)
		}
		if len(recovered) != 1 || recovered[0].ID != "pt_stale" {
			t.Fatalf("recovered = %+v, want [pt_stale]", recovered)
		}
	})
}
