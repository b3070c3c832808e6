// Package throttle paces calls to a video extractor with a token bucket
package throttle

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"channel-insights/domain/model"
	"channel-insights/domain/repository"
)

// Extractor waits for a token before every listing or detail query
type Extractor struct {
	next    repository.IVideoExtractor
	limiter *rate.Limiter
}

// Wrap returns next unchanged when rps is not positive
func Wrap(next repository.IVideoExtractor, rps float64, burst int) repository.IVideoExtractor {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &Extractor{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (e *Extractor) ListChannelVideos(ctx context.Context, listingURL string, limit int) (*model.ChannelListing, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("throttle listing: %w", err)
	}
	return e.next.ListChannelVideos(ctx, listingURL, limit)
}

func (e *Extractor) GetVideoDetails(ctx context.Context, videoURL string) (*model.VideoDetails, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("throttle details: %w", err)
	}
	return e.next.GetVideoDetails(ctx, videoURL)
}
