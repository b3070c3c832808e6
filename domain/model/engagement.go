package model

import (
	"fmt"
	"math"
	"strings"
)

// Metric names a numeric column the dashboard can rank by
type Metric string

const (
	MetricViews       Metric = "views"
	MetricLikes       Metric = "likes"
	MetricComments    Metric = "comments"
	MetricLikeRate    Metric = "like_rate"
	MetricCommentRate Metric = "comment_rate"
)

// Metrics is the fixed set offered to the presentation layer
var Metrics = []Metric{MetricViews, MetricLikes, MetricComments, MetricLikeRate, MetricCommentRate}

// ParseMetric validates a metric name coming from a request
func ParseMetric(name string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Metrics {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}

// EngagementRow is a dataset row enriched with derived ratios
type EngagementRow struct {
	VideoRecord
	LikeRate    float64 `json:"like_rate"`
	CommentRate float64 `json:"comment_rate"`
}

// NewEngagementRow derives like and comment rates for a record
func NewEngagementRow(r VideoRecord) EngagementRow {
	return EngagementRow{
		VideoRecord: r,
		LikeRate:    Percentage(r.Likes, r.Views),
		CommentRate: Percentage(r.Comments, r.Views),
	}
}

// Value returns the row's value for the given metric
func (r EngagementRow) Value(m Metric) float64 {
	switch m {
	case MetricViews:
		return float64(r.Views)
	case MetricLikes:
		return float64(r.Likes)
	case MetricComments:
		return float64(r.Comments)
	case MetricLikeRate:
		return r.LikeRate
	case MetricCommentRate:
		return r.CommentRate
	}
	return 0
}

// Percentage computes part/whole*100. A zero denominator or a non-finite
// result yields 0.
func Percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return Finite(float64(part) / float64(whole) * 100)
}

// Finite maps NaN and ±Inf to 0
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
