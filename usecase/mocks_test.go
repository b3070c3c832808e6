package usecase_test

import (
	"context"

	"channel-insights/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ListChannelVideos(ctx context.Context, listingURL string, limit int) (*model.ChannelListing, error) {
	args := m.Called(ctx, listingURL, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChannelListing), args.Error(1)
}

func (m *MockExtractor) GetVideoDetails(ctx context.Context, videoURL string) (*model.VideoDetails, error) {
	args := m.Called(ctx, videoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VideoDetails), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Lookup(ctx context.Context, key string) (model.VideoDataset, bool, error) {
	args := m.Called(ctx, key)
	dataset, _ := args.Get(0).(model.VideoDataset)
	return dataset, args.Bool(1), args.Error(2)
}

func (m *MockCache) Commit(ctx context.Context, key string, dataset model.VideoDataset) error {
	args := m.Called(ctx, key, dataset)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishRefreshed(ctx context.Context, event model.RefreshEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockAcquisition struct {
	mock.Mock
}

func (m *MockAcquisition) Fetch(ctx context.Context, reference string, maxResults int, refresh bool) model.FetchResult {
	args := m.Called(ctx, reference, maxResults, refresh)
	return args.Get(0).(model.FetchResult)
}

func count(v int64) *int64 {
	return &v
}

func details(id, title string, views, likes, comments int64) *model.VideoDetails {
	return &model.VideoDetails{
		ID:           id,
		Title:        title,
		ViewCount:    count(views),
		LikeCount:    count(likes),
		CommentCount: count(comments),
		Duration:     count(60),
		UploadDate:   "20240101",
	}
}

func listing(ids ...string) *model.ChannelListing {
	entries := make([]model.ListingEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, model.ListingEntry{ID: id})
	}
	return &model.ChannelListing{Entries: entries}
}
