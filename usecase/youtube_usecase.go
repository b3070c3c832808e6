package usecase

import (
	"context"
	"fmt"
	"time"

	"channel-insights/domain/model"
	"channel-insights/domain/repository"
	"channel-insights/infrastructure/logger"
	"channel-insights/infrastructure/utils"
)

// IAcquisitionUsecase retrieves a channel dataset from cache or from the extractor
type IAcquisitionUsecase interface {
	// Fetch never returns an error: every failure degrades to an empty or partial
	// dataset and is reported through FetchResult.Outcome.
	Fetch(ctx context.Context, reference string, maxResults int, refresh bool) model.FetchResult
}

// AcquisitionUsecase implements the acquisition pipeline
type AcquisitionUsecase struct {
	extractor         repository.IVideoExtractor
	cache             repository.IChannelCache
	publisher         repository.IRefreshPublisher // optional
	defaultMaxResults int
	maxResultsCap     int // 0 means uncapped
	now               func() time.Time
}

// NewAcquisitionUsecase creates a pipeline over an extractor and a cache store
func NewAcquisitionUsecase(extractor repository.IVideoExtractor, cache repository.IChannelCache, defaultMaxResults int) *AcquisitionUsecase {
	if defaultMaxResults <= 0 {
		defaultMaxResults = 10
	}
	return &AcquisitionUsecase{
		extractor:         extractor,
		cache:             cache,
		defaultMaxResults: defaultMaxResults,
		now:               utils.GetCurrentTime,
	}
}

// WithPublisher enables refresh notifications (fluent)
func (u *AcquisitionUsecase) WithPublisher(publisher repository.IRefreshPublisher) *AcquisitionUsecase {
	u.publisher = publisher
	return u
}

// WithMaxResultsCap bounds the batch size of a single run (fluent)
func (u *AcquisitionUsecase) WithMaxResultsCap(limit int) *AcquisitionUsecase {
	u.maxResultsCap = limit
	return u
}

func (u *AcquisitionUsecase) Fetch(ctx context.Context, reference string, maxResults int, refresh bool) model.FetchResult {
	normalized := utils.NormalizeChannelReference(reference)
	if normalized == "" {
		return model.FetchResult{Dataset: model.VideoDataset{}, Outcome: model.OutcomeInvalidReference}
	}
	if maxResults <= 0 {
		maxResults = u.defaultMaxResults
	}
	if u.maxResultsCap > 0 && maxResults > u.maxResultsCap {
		maxResults = u.maxResultsCap
	}

	result := model.FetchResult{
		Reference: normalized,
		CacheKey:  utils.CacheKey(normalized),
		Dataset:   model.VideoDataset{},
	}
	log := logger.GetLogger().WithFields(map[string]interface{}{
		"reference": normalized,
		"cacheKey":  result.CacheKey,
		"refresh":   refresh,
	})

	if !refresh {
		dataset, ok, err := u.cache.Lookup(ctx, result.CacheKey)
		switch {
		case err != nil:
			log.WithField("error", err).Warn("Cached dataset unreadable, fetching live")
		case ok:
			log.WithField("videos", len(dataset)).Debug("Serving cached dataset")
			result.Dataset = dataset
			result.Outcome = model.OutcomeCached
			return result
		}
	}

	listing, err := u.extractor.ListChannelVideos(ctx, normalized, maxResults)
	if err != nil || listing == nil {
		log.WithField("error", err).Warn("Channel listing failed")
		result.Outcome = model.OutcomeFailed
		return result
	}
	result.Meta = channelMetaFromListing(listing)

	for _, outcome := range u.fetchVideos(ctx, listing.Entries, maxResults) {
		if !outcome.OK() {
			result.Failed++
			log.WithFields(map[string]interface{}{"videoId": outcome.VideoID, "error": outcome.Err}).Debug("Skipping video")
			continue
		}
		result.Dataset = append(result.Dataset, *outcome.Record)
	}
	result.Outcome = model.OutcomeFetched

	if err := u.cache.Commit(ctx, result.CacheKey, result.Dataset); err != nil {
		log.WithField("error", err).Error("Failed to commit dataset to cache")
		return result
	}
	u.publishRefreshed(ctx, result)

	log.WithFields(map[string]interface{}{"videos": len(result.Dataset), "failed": result.Failed}).Info("Channel dataset refreshed")
	return result
}

// fetchVideos issues one detail query per identified entry, in listing order
func (u *AcquisitionUsecase) fetchVideos(ctx context.Context, entries []model.ListingEntry, maxResults int) []model.VideoOutcome {
	outcomes := make([]model.VideoOutcome, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == "" {
			continue
		}
		if len(outcomes) >= maxResults {
			break
		}
		outcomes = append(outcomes, u.fetchVideo(ctx, entry.ID))
	}
	return outcomes
}

func (u *AcquisitionUsecase) fetchVideo(ctx context.Context, videoID string) model.VideoOutcome {
	outcome := model.VideoOutcome{VideoID: videoID}
	details, err := u.extractor.GetVideoDetails(ctx, utils.VideoURL(videoID))
	switch {
	case err != nil:
		outcome.Err = err
	case details == nil:
		outcome.Err = fmt.Errorf("%w: %s", model.ErrVideoUnavailable, videoID)
	default:
		record := details.ToRecord()
		outcome.Record = &record
	}
	return outcome
}

func (u *AcquisitionUsecase) publishRefreshed(ctx context.Context, result model.FetchResult) {
	if u.publisher == nil {
		return
	}
	event := model.RefreshEvent{
		Reference:   result.Reference,
		CacheKey:    result.CacheKey,
		Videos:      len(result.Dataset),
		Failed:      result.Failed,
		RefreshedAt: u.now().Format(time.RFC3339),
	}
	if err := u.publisher.PublishRefreshed(ctx, event); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to publish refresh event")
	}
}

// channelMetaFromListing picks the display name and the best logo candidate
func channelMetaFromListing(listing *model.ChannelListing) model.ChannelMeta {
	var meta model.ChannelMeta
	if listing.Uploader != "" {
		name := listing.Uploader
		meta.DisplayName = &name
	}
	if logo := bestLogo(listing.Thumbnails); logo != "" {
		meta.LogoURL = &logo
	}
	return meta
}

// bestLogo prefers the uncropped avatar, then the largest image, then the last candidate
func bestLogo(thumbnails []model.Thumbnail) string {
	var best model.Thumbnail
	for _, t := range thumbnails {
		if t.URL == "" {
			continue
		}
		if t.ID == "avatar_uncropped" {
			return t.URL
		}
		if best.URL == "" || t.Width*t.Height >= best.Width*best.Height {
			best = t
		}
	}
	return best.URL
}
