package main

import (
	"context"
	"testing"

	"channel-insights/infrastructure/clients/ytdlp"
	"channel-insights/infrastructure/configuration"
	"channel-insights/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiateCache(t *testing.T) {
	ctx := context.Background()

	t.Run("file backend", func(t *testing.T) {
		cfg := configuration.Config{Cache: configuration.Cache{Backend: configuration.CacheBackendFile, Dir: t.TempDir()}}
		store, closeFn, err := InitiateCache(ctx, cfg)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &persistence.FileChannelCache{}, store)
	})

	t.Run("unreachable redis falls back to file", func(t *testing.T) {
		cfg := configuration.Config{
			Cache:       configuration.Cache{Backend: configuration.CacheBackendRedis, Dir: t.TempDir()},
			RedisClient: configuration.RedisClient{Host: "127.0.0.1", Port: "1"},
		}
		store, closeFn, err := InitiateCache(ctx, cfg)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &persistence.FileChannelCache{}, store)
	})

	t.Run("unreachable mssql falls back to file", func(t *testing.T) {
		cfg := configuration.Config{
			Cache:    configuration.Cache{Backend: configuration.CacheBackendMSSQL, Dir: t.TempDir()},
			Database: configuration.Database{Mssql: configuration.Db{Host: "127.0.0.1", Port: "1"}},
		}
		store, closeFn, err := InitiateCache(ctx, cfg)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &persistence.FileChannelCache{}, store)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := configuration.Config{Cache: configuration.Cache{Backend: "memcached"}}
		store, _, err := InitiateCache(ctx, cfg)
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestInitiateExtractor(t *testing.T) {
	ctx := context.Background()

	extractor, err := InitiateExtractor(ctx, configuration.Extractor{Mode: configuration.ExtractorModeYtdlp, TimeoutSeconds: 30})
	require.NoError(t, err)
	assert.IsType(t, &ytdlp.Client{}, extractor)

	_, err = InitiateExtractor(ctx, configuration.Extractor{Mode: configuration.ExtractorModeAPI})
	assert.Error(t, err, "api mode requires a key")

	_, err = InitiateExtractor(ctx, configuration.Extractor{Mode: "scraper"})
	assert.Error(t, err)
}

func TestInitiatePublisher(t *testing.T) {
	ctx := context.Background()

	publisher, closeFn := InitiatePublisher(ctx, configuration.Config{Notifier: configuration.NotifierNone})
	assert.Nil(t, publisher)
	closeFn()

	publisher, closeFn = InitiatePublisher(ctx, configuration.Config{Notifier: configuration.NotifierPubsub})
	assert.Nil(t, publisher, "pubsub without a project id")
	closeFn()

	publisher, closeFn = InitiatePublisher(ctx, configuration.Config{Notifier: configuration.NotifierServiceBus})
	assert.Nil(t, publisher, "service bus without a namespace")
	closeFn()
}
