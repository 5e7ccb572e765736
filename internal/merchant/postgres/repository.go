package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/offsoc/hyperswitch/internal/merchant/domain"
	webhookdomain "github.com/offsoc/hyperswitch/internal/webhook/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) GetMerchantKeyStore(ctx context.Context, merchantID string) (domain.KeyStore, error) {
	var ks domain.KeyStore
	err := r.pool.QueryRow(ctx, `
		SELECT merchant_id, key, created_at
		FROM merchant_key_store
		WHERE merchant_id = $1
	`, merchantID).Scan(&ks.MerchantID, &ks.Key, &ks.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.KeyStore{}, fmt.Errorf("%w: key store for merchant %q", webhookdomain.ErrNotFound, merchantID)
	}
	if err != nil {
		return domain.KeyStore{}, err
	}
	return ks, nil
}

func (r *Repository) GetBusinessProfile(ctx context.Context, profileID string) (domain.BusinessProfile, error) {
	var bp domain.BusinessProfile
	err := r.pool.QueryRow(ctx, `
		SELECT profile_id, merchant_id, profile_name, coalesce(webhook_url, ''), coalesce(payment_response_hash_key, ''), coalesce(custom_headers, '{}'::jsonb), created_at
		FROM business_profile
		WHERE profile_id = $1
	`, profileID).Scan(&bp.ProfileID, &bp.MerchantID, &bp.ProfileName, &bp.WebhookURL,
		&bp.PaymentResponseHashKey, &bp.CustomHeaders, &bp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.BusinessProfile{}, fmt.Errorf("%w: business profile %q", webhookdomain.ErrNotFound, profileID)
	}
	if err != nil {
		return domain.BusinessProfile{}, err
	}
	return bp, nil
}
