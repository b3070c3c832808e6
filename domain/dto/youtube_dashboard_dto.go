package dto

// MetricOption describes a selectable chart metric
type MetricOption struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Ratio bool   `json:"ratio"`
}

// DashboardSummary aggregates totals over a channel dataset
type DashboardSummary struct {
	TotalVideos     int     `json:"total_videos"`
	TotalViews      int64   `json:"total_views"`
	TotalLikes      int64   `json:"total_likes"`
	TotalComments   int64   `json:"total_comments"`
	AvgLikeRate     float64 `json:"avg_like_rate"`
	AvgCommentRate  float64 `json:"avg_comment_rate"`
	AvgDurationSecs float64 `json:"avg_duration_secs"`
}
