package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// maxPageSize is the largest page playlistItems.list accepts
const maxPageSize = 50

// Client implements repository.IVideoExtractor on top of the YouTube Data API v3
type Client struct {
	service *youtube.Service
}

// Config represents YouTube API configuration. An API key takes precedence over
// an OAuth access token.
type Config struct {
	APIKey      string `json:"api_key"`
	AccessToken string `json:"access_token"`
}

// NewYouTubeClient creates a read-only YouTube API client
func NewYouTubeClient(ctx context.Context, config *Config, opts ...option.ClientOption) (*Client, error) {
	credential, err := credentialOption(config)
	if err != nil {
		if len(opts) == 0 {
			return nil, err
		}
	} else {
		opts = append([]option.ClientOption{credential}, opts...)
	}
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

func credentialOption(config *Config) (option.ClientOption, error) {
	switch {
	case config == nil:
	case config.APIKey != "":
		return option.WithAPIKey(config.APIKey), nil
	case config.AccessToken != "":
		token := &oauth2.Token{AccessToken: config.AccessToken, TokenType: "Bearer"}
		return option.WithTokenSource(oauth2.StaticTokenSource(token)), nil
	}
	return nil, fmt.Errorf("youtube api key or access token is required")
}

// ListChannelVideos resolves the channel behind a listing URL and pages its uploads playlist
func (c *Client) ListChannelVideos(ctx context.Context, listingURL string, limit int) (*model.ChannelListing, error) {
	ref, err := parseChannelURL(listingURL)
	if err != nil {
		return nil, err
	}

	call := c.service.Channels.List([]string{"snippet", "contentDetails"}).Context(ctx)
	switch {
	case ref.channelID != "":
		call = call.Id(ref.channelID)
	case ref.username != "":
		call = call.ForUsername(ref.username)
	default:
		call = call.ForHandle(ref.handle)
	}
	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel details: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrChannelNotFound, listingURL)
	}

	channel := response.Items[0]
	listing := &model.ChannelListing{Entries: []model.ListingEntry{}}
	if channel.Snippet != nil {
		listing.Uploader = channel.Snippet.Title
		listing.Thumbnails = convertThumbnails(channel.Snippet.Thumbnails)
	}
	if channel.ContentDetails == nil || channel.ContentDetails.RelatedPlaylists == nil ||
		channel.ContentDetails.RelatedPlaylists.Uploads == "" {
		return listing, nil
	}

	entries, err := c.listPlaylist(ctx, channel.ContentDetails.RelatedPlaylists.Uploads, limit)
	if err != nil {
		return nil, err
	}
	listing.Entries = entries

	logger.GetLogger().WithFields(map[string]interface{}{
		"channelId": channel.Id,
		"entries":   len(entries),
	}).Debug("YouTube uploads playlist listed")
	return listing, nil
}

func (c *Client) listPlaylist(ctx context.Context, playlistID string, limit int) ([]model.ListingEntry, error) {
	entries := make([]model.ListingEntry, 0)
	pageToken := ""
	for {
		pageSize := maxPageSize
		if limit > 0 && limit-len(entries) < pageSize {
			pageSize = limit - len(entries)
		}
		call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(int64(pageSize)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list playlist items: %w", err)
		}
		for _, item := range response.Items {
			entries = append(entries, convertPlaylistItem(item))
			if limit > 0 && len(entries) >= limit {
				return entries, nil
			}
		}
		if response.NextPageToken == "" || response.NextPageToken == pageToken || len(response.Items) == 0 {
			return entries, nil
		}
		pageToken = response.NextPageToken
	}
}

// GetVideoDetails retrieves statistics and content details for a watch URL
func (c *Client) GetVideoDetails(ctx context.Context, videoURL string) (*model.VideoDetails, error) {
	videoID, err := parseVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	response, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrVideoUnavailable, videoID)
	}

	details := convertToVideoDetails(response.Items[0])
	return &details, nil
}

func convertToVideoDetails(video *youtube.Video) model.VideoDetails {
	details := model.VideoDetails{ID: video.Id}
	if video.Snippet != nil {
		details.Title = video.Snippet.Title
		if publishedAt, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt); err == nil {
			details.UploadDate = publishedAt.UTC().Format("20060102")
		}
	}
	if video.Statistics != nil {
		details.ViewCount = counter(video.Statistics.ViewCount)
		details.LikeCount = counter(video.Statistics.LikeCount)
		details.CommentCount = counter(video.Statistics.CommentCount)
	}
	if video.ContentDetails != nil {
		if secs, err := parseISODuration(video.ContentDetails.Duration); err == nil {
			details.Duration = &secs
		}
	}
	return details
}

func convertPlaylistItem(item *youtube.PlaylistItem) model.ListingEntry {
	var entry model.ListingEntry
	if item.ContentDetails != nil {
		entry.ID = item.ContentDetails.VideoId
	}
	if item.Snippet != nil {
		entry.Title = item.Snippet.Title
		if entry.ID == "" && item.Snippet.ResourceId != nil {
			entry.ID = item.Snippet.ResourceId.VideoId
		}
	}
	return entry
}

func convertThumbnails(details *youtube.ThumbnailDetails) []model.Thumbnail {
	if details == nil {
		return nil
	}
	var out []model.Thumbnail
	add := func(id string, t *youtube.Thumbnail) {
		if t != nil && t.Url != "" {
			out = append(out, model.Thumbnail{ID: id, URL: t.Url, Width: t.Width, Height: t.Height})
		}
	}
	add("default", details.Default)
	add("medium", details.Medium)
	add("high", details.High)
	add("standard", details.Standard)
	add("maxres", details.Maxres)
	return out
}

func counter(v uint64) *int64 {
	n := int64(v)
	if n < 0 {
		n = 0
	}
	return &n
}

type channelRef struct {
	handle    string
	channelID string
	username  string
}

// parseChannelURL extracts the channel identity from a normalized listing URL
func parseChannelURL(raw string) (channelRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return channelRef{}, fmt.Errorf("%w: %v", model.ErrInvalidReference, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return channelRef{}, fmt.Errorf("%w: %s", model.ErrInvalidReference, raw)
	}

	switch {
	case strings.HasPrefix(parts[0], "@"):
		return channelRef{handle: parts[0]}, nil
	case parts[0] == "channel" && len(parts) > 1:
		return channelRef{channelID: parts[1]}, nil
	case parts[0] == "user" && len(parts) > 1:
		return channelRef{username: parts[1]}, nil
	case parts[0] == "c" && len(parts) > 1:
		// custom URLs have no API lookup; most of them match the channel handle
		return channelRef{handle: "@" + parts[1]}, nil
	}
	return channelRef{}, fmt.Errorf("%w: unsupported channel url %s", model.ErrInvalidReference, raw)
}

// parseVideoID accepts watch, shorts and youtu.be URLs
func parseVideoID(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrVideoUnavailable, err)
	}
	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case strings.HasSuffix(u.Host, "youtu.be") && len(parts) == 1 && parts[0] != "":
		return parts[0], nil
	case len(parts) == 2 && (parts[0] == "shorts" || parts[0] == "embed" || parts[0] == "live"):
		return parts[1], nil
	}
	return "", fmt.Errorf("%w: no video id in %s", model.ErrVideoUnavailable, raw)
}
