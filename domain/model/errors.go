package model

import "errors"

var (
	ErrInvalidReference      = errors.New("channel reference is required")
	ErrChannelNotFound       = errors.New("channel not found")
	ErrVideoUnavailable      = errors.New("video unavailable")
	ErrExtractorNotInstalled = errors.New("extractor executable not found")
	ErrUnknownMetric         = errors.New("unknown metric")
	ErrCacheNotConfigured    = errors.New("cache not configured")
)
