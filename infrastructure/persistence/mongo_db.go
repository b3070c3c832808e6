package persistence

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"channel-insights/infrastructure/configuration"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoURI builds a connection string; credentials are optional
func MongoURI(cfg configuration.Db) string {
	u := url.URL{
		Scheme: "mongodb",
		Host:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:   "/",
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}

// NewMongoDb connects to MongoDB and verifies the connection with a ping
func NewMongoDb(ctx context.Context, cfg configuration.Db) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(MongoURI(cfg)).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}
