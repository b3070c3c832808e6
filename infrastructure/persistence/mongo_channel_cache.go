package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/filecsv"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const channelDatasetCollection = "channel_datasets"

// channelDatasetDocument keeps the CSV artifact as a single string so a document
// is replaced whole on every commit.
type channelDatasetDocument struct {
	Key       string    `bson:"_id"`
	Data      string    `bson:"data"`
	RowCount  int       `bson:"row_count"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoChannelCache stores datasets in one collection keyed by cache key
type MongoChannelCache struct {
	collection *mongo.Collection
}

func NewMongoChannelCache(client *mongo.Client, database string) *MongoChannelCache {
	if client == nil {
		return &MongoChannelCache{}
	}
	return &MongoChannelCache{collection: client.Database(database).Collection(channelDatasetCollection)}
}

func (c *MongoChannelCache) Lookup(ctx context.Context, key string) (model.VideoDataset, bool, error) {
	if c.collection == nil {
		return nil, false, nil
	}
	var doc channelDatasetDocument
	err := c.collection.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find cached dataset %s: %w", key, err)
	}
	dataset, err := decodeDatasetDocument(doc)
	if err != nil {
		return nil, false, err
	}
	return dataset, true, nil
}

func (c *MongoChannelCache) Commit(ctx context.Context, key string, dataset model.VideoDataset) error {
	if c.collection == nil {
		return model.ErrCacheNotConfigured
	}
	doc, err := newDatasetDocument(key, dataset, time.Now().UTC())
	if err != nil {
		return err
	}
	_, err = c.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace cached dataset %s: %w", key, err)
	}
	return nil
}

func newDatasetDocument(key string, dataset model.VideoDataset, now time.Time) (channelDatasetDocument, error) {
	data, err := filecsv.Marshal(dataset)
	if err != nil {
		return channelDatasetDocument{}, fmt.Errorf("encode dataset %s: %w", key, err)
	}
	return channelDatasetDocument{Key: key, Data: string(data), RowCount: len(dataset), UpdatedAt: now}, nil
}

func decodeDatasetDocument(doc channelDatasetDocument) (model.VideoDataset, error) {
	dataset, err := filecsv.Unmarshal([]byte(doc.Data))
	if err != nil {
		return nil, fmt.Errorf("decode cached dataset %s: %w", doc.Key, err)
	}
	return dataset, nil
}
