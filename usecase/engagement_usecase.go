package usecase

import (
	"context"
	"slices"
	"strings"

	"channel-insights/domain/dto"
	"channel-insights/domain/model"
)

// DefaultTopN is the ranking size used when the caller does not ask for one
const DefaultTopN = 10

// IEngagementUsecase shapes channel datasets for the dashboard
type IEngagementUsecase interface {
	GetChannelVideos(ctx context.Context, req *dto.ChannelVideosRequest) *dto.ChannelVideosResponse
	GetTopVideos(ctx context.Context, req *dto.ChannelTopRequest) (*dto.ChannelTopResponse, error)
	Metrics() []dto.MetricOption
}

// EngagementUsecase derives engagement ratios and rankings over acquired datasets
type EngagementUsecase struct {
	acquisition    IAcquisitionUsecase
	defaultChannel string
	topN           int
}

// NewEngagementUsecase creates a new engagement usecase. An empty defaultChannel
// leaves requests without a channel in the prompt state.
func NewEngagementUsecase(acquisition IAcquisitionUsecase, defaultChannel string, topN int) *EngagementUsecase {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &EngagementUsecase{
		acquisition:    acquisition,
		defaultChannel: strings.TrimSpace(defaultChannel),
		topN:           topN,
	}
}

func (u *EngagementUsecase) GetChannelVideos(ctx context.Context, req *dto.ChannelVideosRequest) *dto.ChannelVideosResponse {
	channel := req.Channel
	if strings.TrimSpace(channel) == "" {
		channel = u.defaultChannel
	}

	result := u.acquisition.Fetch(ctx, channel, req.MaxResults, req.Refresh)
	rows := WithEngagement(result.Dataset)

	return &dto.ChannelVideosResponse{
		Reference: result.Reference,
		Outcome:   result.Outcome,
		Channel: dto.ChannelInfo{
			DisplayName: result.Meta.DisplayName,
			LogoURL:     result.Meta.LogoURL,
		},
		Total:   len(rows),
		Failed:  result.Failed,
		Summary: Summarize(rows),
		Videos:  rows,
	}
}

func (u *EngagementUsecase) GetTopVideos(ctx context.Context, req *dto.ChannelTopRequest) (*dto.ChannelTopResponse, error) {
	metric := model.MetricViews
	if req.Metric != "" {
		parsed, err := model.ParseMetric(req.Metric)
		if err != nil {
			return nil, err
		}
		metric = parsed
	}
	limit := req.Limit
	if limit <= 0 {
		limit = u.topN
	}

	videos := u.GetChannelVideos(ctx, &req.ChannelVideosRequest)
	videos.Videos = RankTopN(videos.Videos, metric, limit)

	return &dto.ChannelTopResponse{
		ChannelVideosResponse: *videos,
		Metric:                metric,
		Limit:                 limit,
	}, nil
}

func (u *EngagementUsecase) Metrics() []dto.MetricOption {
	options := make([]dto.MetricOption, 0, len(model.Metrics))
	for _, m := range model.Metrics {
		options = append(options, dto.MetricOption{
			Name:  string(m),
			Label: metricLabels[m],
			Ratio: m == model.MetricLikeRate || m == model.MetricCommentRate,
		})
	}
	return options
}

var metricLabels = map[model.Metric]string{
	model.MetricViews:       "Views",
	model.MetricLikes:       "Likes",
	model.MetricComments:    "Comments",
	model.MetricLikeRate:    "Like rate (%)",
	model.MetricCommentRate: "Comment rate (%)",
}

// WithEngagement derives like_rate and comment_rate for every record, keeping order
func WithEngagement(dataset model.VideoDataset) []model.EngagementRow {
	rows := make([]model.EngagementRow, 0, len(dataset))
	for _, r := range dataset {
		rows = append(rows, model.NewEngagementRow(r))
	}
	return rows
}

// RankTopN returns the n highest rows by metric. Ties keep their original order.
// The input slice is not modified.
func RankTopN(rows []model.EngagementRow, metric model.Metric, n int) []model.EngagementRow {
	if n <= 0 {
		n = DefaultTopN
	}
	ranked := slices.Clone(rows)
	slices.SortStableFunc(ranked, func(a, b model.EngagementRow) int {
		va, vb := a.Value(metric), b.Value(metric)
		switch {
		case va > vb:
			return -1
		case va < vb:
			return 1
		}
		return 0
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []model.EngagementRow{}
	}
	return ranked
}

// Summarize aggregates totals and average ratios over the rows
func Summarize(rows []model.EngagementRow) dto.DashboardSummary {
	summary := dto.DashboardSummary{TotalVideos: len(rows)}
	if len(rows) == 0 {
		return summary
	}

	var likeRates, commentRates, durations float64
	for _, r := range rows {
		summary.TotalViews += r.Views
		summary.TotalLikes += r.Likes
		summary.TotalComments += r.Comments
		likeRates += r.LikeRate
		commentRates += r.CommentRate
		durations += float64(r.Duration)
	}
	count := float64(len(rows))
	summary.AvgLikeRate = model.Finite(likeRates / count)
	summary.AvgCommentRate = model.Finite(commentRates / count)
	summary.AvgDurationSecs = model.Finite(durations / count)
	return summary
}
