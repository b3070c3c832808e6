package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/logger"
)

// NewPubSub creates a Pub/Sub client for projectID
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("pubsub project id is required")
	}
	return pubsub.NewClient(ctx, projectID)
}

// RefreshPublisher publishes channel refresh events to a single topic
type RefreshPublisher struct {
	client    *pubsub.Client
	topicName string

	mu    sync.Mutex
	topic *pubsub.Topic
}

func NewRefreshPublisher(client *pubsub.Client, topicName string) *RefreshPublisher {
	return &RefreshPublisher{client: client, topicName: topicName}
}

// PublishRefreshed sends event as JSON. Without a client it is a no-op.
func (p *RefreshPublisher) PublishRefreshed(ctx context.Context, event model.RefreshEvent) error {
	if p.client == nil {
		return nil
	}
	payload, err := EncodeRefreshEvent(event)
	if err != nil {
		return err
	}
	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return err
	}

	msg := &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"type": "channel.refreshed", "cache_key": event.CacheKey},
	}
	serverID, err := topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish refresh event: %w", err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{"serverId": serverID, "cacheKey": event.CacheKey}).Info("Refresh event published")
	return nil
}

// ensureTopic resolves the topic, creating it if it doesn't exist
func (p *RefreshPublisher) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}

	topic := p.client.Topic(p.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicName).Info("Topic doesn't exist - creating it")
		if topic, err = p.client.CreateTopic(ctx, p.topicName); err != nil {
			return nil, err
		}
	}
	p.topic = topic
	return topic, nil
}

// EncodeRefreshEvent is the wire format of a refresh notification
func EncodeRefreshEvent(event model.RefreshEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Stop flushes pending messages and closes the client
func (p *RefreshPublisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		p.topic.Stop()
		p.topic = nil
	}
	if p.client != nil {
		_ = p.client.Close()
	}
}
