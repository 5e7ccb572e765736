package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/offsoc/hyperswitch/internal/webhook/domain"
)

// ConfigStore reads keyed config values from the configs table.
type ConfigStore struct {
	pool *pgxpool.Pool
}

func NewConfigStore(pool *pgxpool.Pool) *ConfigStore {
	return &ConfigStore{pool: pool}
}

func (s *ConfigStore) FindConfigByKey(ctx context.Context, key string) (string, error) {
	var config string
	err := s.pool.QueryRow(ctx, `SELECT config FROM configs WHERE key = $1`, key).Scan(&config)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: config %q", domain.ErrNotFound, key)
	}
	if err != nil {
		return "", err
	}
	return config, nil
}
