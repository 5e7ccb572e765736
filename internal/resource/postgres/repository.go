package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/offsoc/hyperswitch/internal/resource/domain"
	webhookdomain "github.com/offsoc/hyperswitch/internal/webhook/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) GetPayment(ctx context.Context, merchantID, paymentID string) (domain.Payment, error) {
	var p domain.Payment
	err := r.pool.QueryRow(ctx, `
		SELECT payment_id, merchant_id, status, amount, currency, coalesce(connector, ''), error_message, created_at, updated_at
		FROM payments
		WHERE merchant_id = $1 AND payment_id = $2
	`, merchantID, paymentID).Scan(&p.PaymentID, &p.MerchantID, &p.Status, &p.Amount, &p.Currency,
		&p.Connector, &p.ErrorMessage, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payment{}, fmt.Errorf("%w: payment %q", webhookdomain.ErrNotFound, paymentID)
	}
	if err != nil {
		return domain.Payment{}, err
	}
	return p, nil
}

func (r *Repository) GetRefund(ctx context.Context, merchantID, refundID string) (domain.Refund, error) {
	var rf domain.Refund
	err := r.pool.QueryRow(ctx, `
		SELECT refund_id, payment_id, merchant_id, status, amount, currency, reason, error_message, created_at, updated_at
		FROM refunds
		WHERE merchant_id = $1 AND refund_id = $2
	`, merchantID, refundID).Scan(&rf.RefundID, &rf.PaymentID, &rf.MerchantID, &rf.Status, &rf.Amount,
		&rf.Currency, &rf.Reason, &rf.ErrorMessage, &rf.CreatedAt, &rf.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Refund{}, fmt.Errorf("%w: refund %q", webhookdomain.ErrNotFound, refundID)
	}
	if err != nil {
		return domain.Refund{}, err
	}
	return rf, nil
}

func (r *Repository) GetDispute(ctx context.Context, merchantID, disputeID string) (domain.Dispute, error) {
	var d domain.Dispute
	err := r.pool.QueryRow(ctx, `
		SELECT dispute_id, payment_id, merchant_id, status, amount, currency, stage, connector_reason, challenge_required_by, created_at, updated_at
		FROM disputes
		WHERE merchant_id = $1 AND dispute_id = $2
	`, merchantID, disputeID).Scan(&d.DisputeID, &d.PaymentID, &d.MerchantID, &d.Status, &d.Amount,
		&d.Currency, &d.Stage, &d.ConnectorReason, &d.ChallengeRequiredBy, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Dispute{}, fmt.Errorf("%w: dispute %q", webhookdomain.ErrNotFound, disputeID)
	}
	if err != nil {
		return domain.Dispute{}, err
	}
	return d, nil
}

func (r *Repository) GetMandate(ctx context.Context, merchantID, mandateID string) (domain.Mandate, error) {
	var m domain.Mandate
	err := r.pool.QueryRow(ctx, `
		SELECT mandate_id, merchant_id, customer_id, payment_method_id, status, created_at, updated_at
		FROM mandates
		WHERE merchant_id = $1 AND mandate_id = $2
	`, merchantID, mandateID).Scan(&m.MandateID, &m.MerchantID, &m.CustomerID, &m.PaymentMethodID,
		&m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Mandate{}, fmt.Errorf("%w: mandate %q", webhookdomain.ErrNotFound, mandateID)
	}
	if err != nil {
		return domain.Mandate{}, err
	}
	return m, nil
}

func (r *Repository) GetPayout(ctx context.Context, merchantID, payoutID string) (domain.Payout, error) {
	var p domain.Payout
	err := r.pool.QueryRow(ctx, `
		SELECT payout_id, merchant_id, customer_id, status, amount, currency, error_message, created_at, updated_at
		FROM payouts
		WHERE merchant_id = $1 AND payout_id = $2
	`, merchantID, payoutID).Scan(&p.PayoutID, &p.MerchantID, &p.CustomerID, &p.Status, &p.Amount,
		&p.Currency, &p.ErrorMessage, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payout{}, fmt.Errorf("%w: payout %q", webhookdomain.ErrNotFound, payoutID)
	}
	if err != nil {
		return domain.Payout{}, err
	}
	return p, nil
}
