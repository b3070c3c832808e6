package persistence

import (
	"context"
	"testing"
	"time"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/configuration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://localhost:27017/", MongoURI(configuration.Db{Host: "localhost", Port: "27017"}))
	assert.Equal(t, "mongodb://app:p%40ss@db:27017/", MongoURI(configuration.Db{Host: "db", Port: "27017", User: "app", Password: "p@ss"}))
}

func TestDatasetDocument_BSONRoundTrip(t *testing.T) {
	dataset := model.VideoDataset{
		{Title: "First, video", Views: 10, Likes: 2, Comments: 1, Duration: 61, UploadDate: "20240102"},
		{Title: "Second", Views: 0},
	}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	doc, err := newDatasetDocument("k1", dataset, now)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.RowCount)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "k1", bson.Raw(raw).Lookup("_id").StringValue())

	var decoded channelDatasetDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	got, err := decodeDatasetDocument(decoded)
	require.NoError(t, err)
	assert.Equal(t, dataset, got)
	assert.True(t, now.Equal(decoded.UpdatedAt))
}

func TestDecodeDatasetDocument_Corrupt(t *testing.T) {
	_, err := decodeDatasetDocument(channelDatasetDocument{Key: "k", Data: "not,a,dataset\n"})
	assert.Error(t, err)
}

func TestMongoChannelCache_NilClient(t *testing.T) {
	c := NewMongoChannelCache(nil, "channel_insights")

	dataset, ok, err := c.Lookup(context.Background(), "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, dataset)
	assert.ErrorIs(t, c.Commit(context.Background(), "k", model.VideoDataset{}), model.ErrCacheNotConfigured)
}
