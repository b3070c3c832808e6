package repository

import (
	"context"

	"channel-insights/domain/model"
)

// IVideoExtractor defines the extraction capability the acquisition pipeline consumes.
// Either call may fail independently.
type IVideoExtractor interface {
	// ListChannelVideos enumerates at most limit videos of a channel listing URL
	ListChannelVideos(ctx context.Context, listingURL string, limit int) (*model.ChannelListing, error)
	// GetVideoDetails returns the attributes of a single video URL
	GetVideoDetails(ctx context.Context, videoURL string) (*model.VideoDetails, error)
}
