package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists snapshots in a Postgres key/value table, for
// deployments that outgrow the file backend. The data layer is
// unaware of the difference.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects, pings and ensures the snapshot table exists.
func NewPGStore(ctx context.Context, databaseURL string, maxConns, minConns int32) (*PGStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS snapshot (
			key        TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

func (p *PGStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM snapshot WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return data, nil
}

func (p *PGStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO snapshot (key, data) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		key, data)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (p *PGStore) Clear(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM snapshot`)
	if err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}

func (p *PGStore) Close() {
	p.pool.Close()
}
