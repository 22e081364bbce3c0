package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrisdamba/menusight/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
    namespace  TEXT        NOT NULL,
    key        TEXT        NOT NULL,
    value      JSONB       NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (namespace, key)
)`

type KVRepository struct {
	pool      *pgxpool.Pool
	namespace string
}

func NewKVRepository(ctx context.Context, dsn, namespace string) (*KVRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to create kv_entries table: %w", err)
	}
	return &KVRepository{pool: pool, namespace: namespace}, nil
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`,
		r.namespace, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrKeyNotFound
	}
	return value, err
}

// PutAll upserts every entry in one transaction.
func (r *KVRepository) PutAll(ctx context.Context, entries map[string][]byte) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for key, value := range entries {
		batch.Queue(`
            INSERT INTO kv_entries (namespace, key, value, updated_at)
            VALUES ($1, $2, $3, now())
            ON CONFLICT (namespace, key)
            DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
			r.namespace, key, string(value),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert kv entries: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *KVRepository) DeleteAll(ctx context.Context, keys []string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM kv_entries WHERE namespace = $1 AND key = ANY($2)`,
		r.namespace, keys,
	)
	return err
}

func (r *KVRepository) Close() error {
	r.pool.Close()
	return nil
}
