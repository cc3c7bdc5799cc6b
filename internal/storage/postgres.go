package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"pocat/internal/config"
	"pocat/internal/configurator"
)

// PostgresStorage keeps drafts in the drafts table. It implements
// configurator.DraftStore.
type PostgresStorage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPostgresStorage(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...", zap.String("host", cfg.Host), zap.String("database", cfg.Name))

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return NewPostgresStorageWithDB(db, logger), nil
}

func NewPostgresStorageWithDB(db *sqlx.DB, logger *zap.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, logger: logger}
}

// DB exposes the underlying handle for migrations.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) LoadDraft(ctx context.Context, key string) ([]byte, error) {
	const operation = "storage.LoadDraft"
	const query = `SELECT payload FROM drafts WHERE draft_key = $1`

	var payload []byte
	err := s.db.GetContext(ctx, &payload, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, configurator.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return payload, nil
}

func (s *PostgresStorage) SaveDraft(ctx context.Context, key string, blob []byte) error {
	const operation = "storage.SaveDraft"
	const query = `
        INSERT INTO drafts (draft_key, payload, updated_at)
        VALUES ($1, $2::jsonb, now())
        ON CONFLICT (draft_key)
        DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
    `

	if _, err := s.db.ExecContext(ctx, query, key, string(blob)); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

func (s *PostgresStorage) DeleteDraft(ctx context.Context, key string) error {
	const operation = "storage.DeleteDraft"
	const query = `DELETE FROM drafts WHERE draft_key = $1`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

// PurgeDrafts deletes drafts not touched since before cutoff.
func (s *PostgresStorage) PurgeDrafts(ctx context.Context, cutoff time.Time) (int64, error) {
	const operation = "storage.PurgeDrafts"
	const query = `DELETE FROM drafts WHERE updated_at < $1`

	res, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", operation, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", operation, err)
	}
	if n > 0 {
		s.logger.Info("Purged stale drafts", zap.Int64("count", n))
	}
	return n, nil
}

// RunPurger removes drafts older than ttl every interval until ctx is done.
func (s *PostgresStorage) RunPurger(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PurgeDrafts(ctx, time.Now().Add(-ttl)); err != nil {
				s.logger.Warn("Failed to purge drafts", zap.Error(err))
			}
		}
	}
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
