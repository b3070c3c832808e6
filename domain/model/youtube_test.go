package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLineEndings(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"Line one\r\nLine two", "Line one\nLine two"},
		{"old\rmac", "old\nmac"},
		{"mixed\r\n\r\n\rend\n", "mixed\n\n\nend\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLineEndings(tt.in), "input %q", tt.in)
	}
}

func TestVideoDetails_ToRecord(t *testing.T) {
	views, negative := int64(10), int64(-3)
	rec := VideoDetails{
		ID:         "v",
		Title:      "Line one\r\nLine two",
		ViewCount:  &views,
		LikeCount:  &negative,
		UploadDate: "20240101",
	}.ToRecord()

	assert.Equal(t, VideoRecord{Title: "Line one\nLine two", Views: 10, UploadDate: "20240101"}, rec)
}
