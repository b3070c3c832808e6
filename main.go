package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"channel-insights/domain/repository"
	"channel-insights/infrastructure/cache"
	"channel-insights/infrastructure/clients/throttle"
	youtubeclient "channel-insights/infrastructure/clients/youtube"
	"channel-insights/infrastructure/clients/ytdlp"
	"channel-insights/infrastructure/configuration"
	"channel-insights/infrastructure/logger"
	"channel-insights/infrastructure/persistence"
	"channel-insights/infrastructure/pubsub"
	"channel-insights/infrastructure/servicebus"
	httpHandler "channel-insights/interfaces/http"
	"channel-insights/server"
	"channel-insights/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	cfg := configuration.C
	app := cfg.App

	channelCache, closeCache, err := InitiateCache(ctx, cfg)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cache initialization failed")
		os.Exit(1)
	}
	defer closeCache()

	extractor, err := InitiateExtractor(ctx, cfg.Extractor)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Extractor initialization failed")
		os.Exit(1)
	}

	extractor = throttle.Wrap(extractor, cfg.Extractor.RequestsPerSecond, 1)

	acquisitionUsecase := usecase.NewAcquisitionUsecase(extractor, channelCache, cfg.Dashboard.MaxResults).
		WithMaxResultsCap(cfg.Dashboard.MaxResultsCap)
	if publisher, closePublisher := InitiatePublisher(ctx, cfg); publisher != nil {
		defer closePublisher()
		acquisitionUsecase = acquisitionUsecase.WithPublisher(publisher)
	}
	engagementUsecase := usecase.NewEngagementUsecase(acquisitionUsecase, cfg.Dashboard.DefaultChannel, cfg.Dashboard.TopN)

	channelHandler := httpHandler.NewChannelHandler(engagementUsecase, cfg.Dashboard.MaxResultsCap)
	healthHandler := httpHandler.NewHealthHandler(cfg.Cache.Backend, cfg.Extractor.Mode)
	router := server.InitiateRouter(channelHandler, healthHandler, cfg.Cors.AllowOrigins)

	logger.GetLogger().WithFields(map[string]interface{}{
		"port":       app.Port,
		"tls":        app.TLSEnabled,
		"cache":      cfg.Cache.Backend,
		"extractor":  cfg.Extractor.Mode,
		"maxResults": cfg.Dashboard.MaxResults,
		"maxCap":     cfg.Dashboard.MaxResultsCap,
		"topN":       cfg.Dashboard.TopN,
	}).Info("Starting application")

	g.Go(func() error {
		httpServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", app.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateCache builds the configured cache store. Redis and PostgreSQL fall back to the
// file store when unreachable so the dashboard keeps working.
func InitiateCache(ctx context.Context, cfg configuration.Config) (repository.IChannelCache, func(), error) {
	noop := func() {}
	fileCache := func() repository.IChannelCache {
		return persistence.NewFileChannelCache(cfg.Cache.Dir)
	}

	switch cfg.Cache.Backend {
	case configuration.CacheBackendFile:
		logger.GetLogger().WithField("dir", cfg.Cache.Dir).Info("Using file cache")
		return fileCache(), noop, nil

	case configuration.CacheBackendRedis:
		addr := fmt.Sprintf("%s:%s", cfg.RedisClient.Host, cfg.RedisClient.Port)
		redisClient, err := cache.NewCache(ctx, addr, cfg.RedisClient.Username, cfg.RedisClient.Password, cfg.RedisClient.DB)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - falling back to file cache")
			return fileCache(), noop, nil
		}
		logger.GetLogger().WithField("addr", addr).Info("Redis client initialized successfully.")
		return cache.NewRedisChannelCache(redisClient), func() { _ = redisClient.Close() }, nil

	case configuration.CacheBackendPostgres:
		db, err := persistence.NewPostgreSQLDB(cfg.Database.Psql)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available - falling back to file cache")
			return fileCache(), noop, nil
		}
		if err := persistence.EnsureChannelCacheSchema(db); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("ensure channel cache schema: %w", err)
		}
		logger.GetLogger().Info("PostgreSQL channel cache ready")
		return persistence.NewPostgresChannelCache(db), func() { _ = db.Close() }, nil

	case configuration.CacheBackendMSSQL:
		db, err := persistence.NewMSSQLDB(cfg.Database.Mssql)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("MSSQL not available - falling back to file cache")
			return fileCache(), noop, nil
		}
		if err := persistence.EnsureChannelCacheSchemaMSSQL(db); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("ensure channel cache schema (mssql): %w", err)
		}
		logger.GetLogger().Info("MSSQL channel cache ready")
		return persistence.NewMSSQLChannelCache(db), func() { _ = db.Close() }, nil

	case configuration.CacheBackendMongo:
		client, err := persistence.NewMongoDb(ctx, cfg.Database.Mongo)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("MongoDB not available - falling back to file cache")
			return fileCache(), noop, nil
		}
		logger.GetLogger().Info("MongoDB connected successfully")
		return persistence.NewMongoChannelCache(client, cfg.Database.Mongo.Name), func() { _ = client.Disconnect(context.Background()) }, nil
	}

	return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

// InitiateExtractor builds the configured video metadata extractor
func InitiateExtractor(ctx context.Context, cfg configuration.Extractor) (repository.IVideoExtractor, error) {
	switch cfg.Mode {
	case configuration.ExtractorModeYtdlp:
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		logger.GetLogger().WithFields(map[string]interface{}{"path": cfg.YtdlpPath, "timeout": timeout.String()}).Info("Using yt-dlp extractor")
		return ytdlp.NewYtdlpClient(cfg.YtdlpPath, timeout, cfg.ExtraArgs), nil

	case configuration.ExtractorModeAPI:
		client, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{APIKey: cfg.APIKey, AccessToken: cfg.AccessToken})
		if err != nil {
			return nil, fmt.Errorf("youtube data api client: %w", err)
		}
		logger.GetLogger().Info("Using YouTube Data API extractor")
		return client, nil
	}

	return nil, fmt.Errorf("unknown extractor mode %q", cfg.Mode)
}

// InitiatePublisher returns a nil publisher when refresh notifications are disabled or unavailable
func InitiatePublisher(ctx context.Context, cfg configuration.Config) (repository.IRefreshPublisher, func()) {
	switch cfg.Notifier {
	case configuration.NotifierPubsub:
		client, err := pubsub.NewPubSub(ctx, cfg.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - refresh notifications disabled")
			return nil, func() {}
		}
		publisher := pubsub.NewRefreshPublisher(client, cfg.Pubsub.Topic)
		logger.GetLogger().WithField("topic", cfg.Pubsub.Topic).Info("Publishing refresh events to Pub/Sub")
		return publisher, publisher.Stop

	case configuration.NotifierServiceBus:
		client, err := servicebus.NewServiceBus(cfg.ServiceBus.Namespace, cfg.ServiceBus.ConnectionString)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - refresh notifications disabled")
			return nil, func() {}
		}
		sender := servicebus.NewRefreshSender(client, cfg.ServiceBus.Queue)
		logger.GetLogger().WithField("queue", cfg.ServiceBus.Queue).Info("Publishing refresh events to Service Bus")
		return sender, func() { _ = sender.Close(context.Background()) }
	}

	logger.GetLogger().Info("Refresh notifications disabled")
	return nil, func() {}
}
