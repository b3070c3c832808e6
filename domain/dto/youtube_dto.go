package dto

import "channel-insights/domain/model"

// ChannelVideosRequest represents request for a channel dataset
type ChannelVideosRequest struct {
	Channel    string `form:"channel" json:"channel"`
	MaxResults int    `form:"max_results" json:"max_results,omitempty" binding:"omitempty,min=0"`
	Refresh    bool   `form:"refresh" json:"refresh,omitempty"`
}

// ChannelTopRequest represents request for a ranked subset of a channel dataset
type ChannelTopRequest struct {
	ChannelVideosRequest
	Metric string `form:"metric" json:"metric"`
	Limit  int    `form:"limit" json:"limit,omitempty" binding:"omitempty,min=0"`
}

// ChannelInfo is the channel header shown above the charts
type ChannelInfo struct {
	DisplayName *string `json:"display_name"`
	LogoURL     *string `json:"logo_url"`
}

// ChannelVideosResponse is the tabular dataset handed to the rendering layer
type ChannelVideosResponse struct {
	Reference string                `json:"reference"`
	Outcome   model.FetchOutcome    `json:"outcome"`
	Channel   ChannelInfo           `json:"channel"`
	Total     int                   `json:"total"`
	Failed    int                   `json:"failed"`
	Summary   DashboardSummary      `json:"summary"`
	Videos    []model.EngagementRow `json:"videos"`
}

// ChannelTopResponse is a ranked top-N subset for one metric
type ChannelTopResponse struct {
	ChannelVideosResponse
	Metric model.Metric `json:"metric"`
	Limit  int          `json:"limit"`
}
