package repository

import (
	"context"

	"channel-insights/domain/model"
)

// IChannelCache defines a store of materialized channel datasets keyed by CacheKey
type IChannelCache interface {
	// Lookup returns the cached dataset for key. A missing entry is (nil, false, nil);
	// an unreadable entry returns an error.
	Lookup(ctx context.Context, key string) (model.VideoDataset, bool, error)
	// Commit replaces the entry for key with the complete dataset.
	Commit(ctx context.Context, key string, dataset model.VideoDataset) error
}

// IRefreshPublisher announces that a channel dataset was refreshed
type IRefreshPublisher interface {
	PublishRefreshed(ctx context.Context, event model.RefreshEvent) error
}
