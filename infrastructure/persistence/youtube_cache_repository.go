package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/filecsv"
	"channel-insights/infrastructure/logger"
)

// EnsureChannelCacheSchema creates the table for caching channel datasets if not exists
func EnsureChannelCacheSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS channel_dataset_cache (
        cache_key TEXT PRIMARY KEY,
        data TEXT NOT NULL,
        row_count INTEGER NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create channel_dataset_cache table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_channel_dataset_cache_updated_at ON channel_dataset_cache(updated_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_channel_dataset_cache_updated_at")
	}
	return nil
}

// PostgresChannelCache keeps each dataset as its CSV artifact in a single row,
// so a commit is one atomic upsert.
type PostgresChannelCache struct{ db *sql.DB }

func NewPostgresChannelCache(db *sql.DB) *PostgresChannelCache {
	return &PostgresChannelCache{db: db}
}

// Lookup returns the cached dataset for key if present
func (r *PostgresChannelCache) Lookup(ctx context.Context, key string) (model.VideoDataset, bool, error) {
	if r.db == nil {
		return nil, false, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT data FROM channel_dataset_cache WHERE cache_key=$1`, key)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	dataset, err := filecsv.Unmarshal([]byte(raw))
	if err != nil {
		return nil, false, err
	}
	return dataset, true, nil
}

// Commit upserts the whole dataset for key
func (r *PostgresChannelCache) Commit(ctx context.Context, key string, dataset model.VideoDataset) error {
	if r.db == nil {
		return model.ErrCacheNotConfigured
	}
	raw, err := filecsv.Marshal(dataset)
	if err != nil {
		return err
	}
	q := `INSERT INTO channel_dataset_cache(cache_key, data, row_count, updated_at)
          VALUES ($1,$2,$3,NOW())
          ON CONFLICT (cache_key) DO UPDATE SET data=EXCLUDED.data, row_count=EXCLUDED.row_count, updated_at=EXCLUDED.updated_at`
	_, err = r.db.ExecContext(ctx, q, key, string(raw), len(dataset))
	return err
}
