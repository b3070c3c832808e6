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

// EnsureChannelCacheSchemaMSSQL creates the channel dataset table on SQL Server if not exists
func EnsureChannelCacheSchemaMSSQL(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.channel_dataset_cache') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.channel_dataset_cache (
        cache_key NVARCHAR(64) NOT NULL PRIMARY KEY,
        data NVARCHAR(MAX) NOT NULL,
        row_count INT NOT NULL,
        updated_at DATETIMEOFFSET NOT NULL
    );
END`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create channel_dataset_cache table (mssql): %w", err)
	}

	if _, err := db.Exec(`IF NOT EXISTS (SELECT * FROM sys.indexes WHERE name = 'idx_channel_dataset_cache_updated_at' AND object_id = OBJECT_ID('dbo.channel_dataset_cache'))
CREATE INDEX idx_channel_dataset_cache_updated_at ON dbo.channel_dataset_cache(updated_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_channel_dataset_cache_updated_at (mssql)")
	}
	return nil
}

// MSSQLChannelCache stores the same CSV artifact as PostgresChannelCache, one row per key
type MSSQLChannelCache struct{ db *sql.DB }

func NewMSSQLChannelCache(db *sql.DB) *MSSQLChannelCache {
	return &MSSQLChannelCache{db: db}
}

func (r *MSSQLChannelCache) Lookup(ctx context.Context, key string) (model.VideoDataset, bool, error) {
	if r.db == nil {
		return nil, false, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT data FROM dbo.channel_dataset_cache WHERE cache_key=@p1`, key)
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

// Commit replaces the dataset for key in a single MERGE
func (r *MSSQLChannelCache) Commit(ctx context.Context, key string, dataset model.VideoDataset) error {
	if r.db == nil {
		return model.ErrCacheNotConfigured
	}
	raw, err := filecsv.Marshal(dataset)
	if err != nil {
		return err
	}
	q := `MERGE dbo.channel_dataset_cache AS target
USING (SELECT @p1 AS cache_key) AS src
ON (target.cache_key = src.cache_key)
WHEN MATCHED THEN UPDATE SET data=@p2, row_count=@p3, updated_at=SYSDATETIMEOFFSET()
WHEN NOT MATCHED THEN INSERT (cache_key, data, row_count, updated_at)
VALUES (@p1, @p2, @p3, SYSDATETIMEOFFSET());`
	_, err = r.db.ExecContext(ctx, q, key, string(raw), len(dataset))
	return err
}
