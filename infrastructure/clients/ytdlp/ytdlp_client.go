package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/logger"
)

const (
	defaultPath    = "yt-dlp"
	defaultTimeout = 2 * time.Minute
	maxStderr      = 512
)

// Runner executes a command and returns its stdout and stderr
type Runner func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)

// Client implements repository.IVideoExtractor by running yt-dlp as a subprocess
type Client struct {
	path      string
	timeout   time.Duration
	extraArgs []string
	run       Runner
}

// NewYtdlpClient creates a client for the yt-dlp executable at path
func NewYtdlpClient(path string, timeout time.Duration, extraArgs []string) *Client {
	if path == "" {
		path = defaultPath
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		path:      path,
		timeout:   timeout,
		extraArgs: extraArgs,
		run:       execRunner,
	}
}

// WithRunner replaces the process runner (fluent)
func (c *Client) WithRunner(run Runner) *Client {
	c.run = run
	return c
}

// ListChannelVideos enumerates a channel listing without resolving each entry
func (c *Client) ListChannelVideos(ctx context.Context, listingURL string, limit int) (*model.ChannelListing, error) {
	args := []string{"--flat-playlist", "-J", "--no-warnings"}
	if limit > 0 {
		args = append(args, "--playlist-end", strconv.Itoa(limit))
	}
	out, err := c.invoke(ctx, "list", listingURL, args)
	if err != nil {
		return nil, err
	}

	listing, err := parsePlaylist(out)
	if err != nil {
		return nil, &ExtractError{Op: "list", URL: listingURL, Err: err}
	}
	if limit > 0 && len(listing.Entries) > limit {
		listing.Entries = listing.Entries[:limit]
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"url":     listingURL,
		"entries": len(listing.Entries),
	}).Debug("yt-dlp listing parsed")
	return listing, nil
}

// GetVideoDetails resolves the attributes of a single video
func (c *Client) GetVideoDetails(ctx context.Context, videoURL string) (*model.VideoDetails, error) {
	args := []string{"-J", "--skip-download", "--no-playlist", "--no-warnings"}
	out, err := c.invoke(ctx, "details", videoURL, args)
	if err != nil {
		return nil, err
	}
	details, err := parseVideo(out)
	if err != nil {
		return nil, &ExtractError{Op: "details", URL: videoURL, Err: err}
	}
	return details, nil
}

func (c *Client) invoke(ctx context.Context, op, url string, args []string) ([]byte, error) {
	args = append(args, c.extraArgs...)
	// everything after "--" is a URL, never an option
	args = append(args, "--", url)

	cmdCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stdout, stderr, err := c.run(cmdCtx, c.path, args...)
	if err == nil {
		return stdout, nil
	}

	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
		return nil, &ExtractError{Op: op, URL: url, Err: context.DeadlineExceeded}
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil, &ExtractError{Op: op, URL: url, Err: model.ErrExtractorNotInstalled}
	}
	msg := truncate(strings.TrimSpace(string(stderr)), maxStderr)
	return nil, &ExtractError{Op: op, URL: url, Err: classify(op, msg, err), Stderr: msg}
}

// classify maps common yt-dlp error messages onto domain errors
func classify(op, stderr string, err error) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "private video"),
		strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "not available in your country"),
		strings.Contains(lower, "has been removed"),
		strings.Contains(lower, "members-only"),
		strings.Contains(lower, "sign in to confirm your age"):
		return model.ErrVideoUnavailable
	case op == "list" && (strings.Contains(lower, "does not exist") || strings.Contains(lower, "404")):
		return model.ErrChannelNotFound
	}
	return err
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ytdlpPlaylist represents yt-dlp's flat JSON output for a channel tab
type ytdlpPlaylist struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Uploader   string           `json:"uploader"`
	Channel    string           `json:"channel"`
	Entries    []ytdlpEntry     `json:"entries"`
	Thumbnails []ytdlpThumbnail `json:"thumbnails"`
}

type ytdlpEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ytdlpThumbnail struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
}

// ytdlpVideo represents yt-dlp's JSON output for a single video
type ytdlpVideo struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	ViewCount    *int64   `json:"view_count"`
	LikeCount    *int64   `json:"like_count"`
	CommentCount *int64   `json:"comment_count"`
	Duration     *float64 `json:"duration"`
	UploadDate   string   `json:"upload_date"`
}

func parsePlaylist(data []byte) (*model.ChannelListing, error) {
	var playlist ytdlpPlaylist
	if err := json.Unmarshal(data, &playlist); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}

	listing := &model.ChannelListing{
		Entries:  make([]model.ListingEntry, 0, len(playlist.Entries)),
		Uploader: coalesce(playlist.Uploader, playlist.Channel),
	}
	for _, e := range playlist.Entries {
		listing.Entries = append(listing.Entries, model.ListingEntry{ID: e.ID, Title: e.Title})
	}
	for _, t := range playlist.Thumbnails {
		if t.URL == "" {
			continue
		}
		listing.Thumbnails = append(listing.Thumbnails, model.Thumbnail{ID: t.ID, URL: t.URL, Width: t.Width, Height: t.Height})
	}
	return listing, nil
}

func parseVideo(data []byte) (*model.VideoDetails, error) {
	var v ytdlpVideo
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}
	if v.ID == "" {
		return nil, fmt.Errorf("%w: missing video id", model.ErrVideoUnavailable)
	}
	details := &model.VideoDetails{
		ID:           v.ID,
		Title:        v.Title,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
		UploadDate:   v.UploadDate,
	}
	if v.Duration != nil {
		secs := int64(*v.Duration)
		details.Duration = &secs
	}
	return details, nil
}

// coalesce returns the first non-empty string
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
