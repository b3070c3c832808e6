package servicebus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/logger"
)

const refreshedSubject = "channel.refreshed"

// NewServiceBus creates a client from a connection string when given, otherwise
// from the fully qualified namespace using the default Azure credential chain.
func NewServiceBus(namespace, connectionString string) (*azservicebus.Client, error) {
	if connectionString != "" {
		return azservicebus.NewClientFromConnectionString(connectionString, nil)
	}
	if namespace == "" {
		return nil, fmt.Errorf("service bus namespace or connection string is required")
	}
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	return azservicebus.NewClient(namespace, credential, nil)
}

// RefreshSender sends channel refresh events to a queue or topic
type RefreshSender struct {
	client *azservicebus.Client
	queue  string
}

func NewRefreshSender(client *azservicebus.Client, queue string) *RefreshSender {
	return &RefreshSender{client: client, queue: queue}
}

// PublishRefreshed sends event as JSON. Without a client it is a no-op.
func (s *RefreshSender) PublishRefreshed(ctx context.Context, event model.RefreshEvent) error {
	if s.client == nil {
		return nil
	}
	message, err := NewRefreshMessage(event)
	if err != nil {
		return err
	}

	sender, err := s.client.NewSender(s.queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func(sender *azservicebus.Sender) {
		if err := sender.Close(context.Background()); err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}(sender)

	if err := sender.SendMessage(ctx, message, nil); err != nil {
		return fmt.Errorf("send refresh event: %w", err)
	}
	return nil
}

// Close releases the underlying connection
func (s *RefreshSender) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Close(ctx)
}

// NewRefreshMessage builds the Service Bus message for a refresh event
func NewRefreshMessage(event model.RefreshEvent) (*azservicebus.Message, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode refresh event: %w", err)
	}
	subject := refreshedSubject
	contentType := "application/json"
	messageID := event.CacheKey + ":" + event.RefreshedAt
	return &azservicebus.Message{
		Body:        body,
		Subject:     &subject,
		ContentType: &contentType,
		MessageID:   &messageID,
		ApplicationProperties: map[string]any{
			"cache_key": event.CacheKey,
		},
	}, nil
}
