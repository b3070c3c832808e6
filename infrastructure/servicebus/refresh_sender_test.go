package servicebus_test

import (
	"context"
	"testing"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/servicebus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshSender_NilClientIsNoop(t *testing.T) {
	sender := servicebus.NewRefreshSender(nil, "channel-refreshed")

	assert.NoError(t, sender.PublishRefreshed(context.Background(), model.RefreshEvent{CacheKey: "k"}))
	assert.NoError(t, sender.Close(context.Background()))
}

func TestNewRefreshMessage(t *testing.T) {
	event := model.RefreshEvent{
		Reference:   "https://www.youtube.com/@golang/videos",
		CacheKey:    "abc",
		Videos:      9,
		Failed:      1,
		RefreshedAt: "2024-01-02T03:04:05Z",
	}

	message, err := servicebus.NewRefreshMessage(event)
	require.NoError(t, err)

	assert.JSONEq(t, `{"reference":"https://www.youtube.com/@golang/videos","cache_key":"abc","videos":9,"failed":1,"refreshed_at":"2024-01-02T03:04:05Z"}`, string(message.Body))
	require.NotNil(t, message.Subject)
	assert.Equal(t, "channel.refreshed", *message.Subject)
	require.NotNil(t, message.MessageID)
	assert.Equal(t, "abc:2024-01-02T03:04:05Z", *message.MessageID)
	assert.Equal(t, "abc", message.ApplicationProperties["cache_key"])
}

func TestNewServiceBus_RequiresNamespace(t *testing.T) {
	_, err := servicebus.NewServiceBus("", "")
	assert.Error(t, err)
}
