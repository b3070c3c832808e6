package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"channel-insights/domain/dto"
	"channel-insights/domain/model"
	httpHandler "channel-insights/interfaces/http"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEngagementUsecase struct {
	mock.Mock
}

func (m *MockEngagementUsecase) GetChannelVideos(ctx context.Context, req *dto.ChannelVideosRequest) *dto.ChannelVideosResponse {
	args := m.Called(ctx, req)
	return args.Get(0).(*dto.ChannelVideosResponse)
}

func (m *MockEngagementUsecase) GetTopVideos(ctx context.Context, req *dto.ChannelTopRequest) (*dto.ChannelTopResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChannelTopResponse), args.Error(1)
}

func (m *MockEngagementUsecase) Metrics() []dto.MetricOption {
	args := m.Called()
	return args.Get(0).([]dto.MetricOption)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func setupRouter(uc *MockEngagementUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := httpHandler.NewChannelHandler(uc, 50)
	r := gin.New()
	r.GET("/api/channel/videos", handler.GetChannelVideos)
	r.GET("/api/channel/top", handler.GetTopVideos)
	r.GET("/api/metrics", handler.GetMetrics)
	return r
}

func perform(r http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)

	var body envelope
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestGetChannelVideos_BindsQuery(t *testing.T) {
	uc := new(MockEngagementUsecase)
	expected := &dto.ChannelVideosRequest{Channel: "@golang", MaxResults: 25, Refresh: true}
	uc.On("GetChannelVideos", mock.Anything, expected).Return(&dto.ChannelVideosResponse{
		Reference: "https://www.youtube.com/@golang/videos",
		Outcome:   model.OutcomeFetched,
		Total:     1,
		Videos:    []model.EngagementRow{model.NewEngagementRow(model.VideoRecord{Title: "A", Views: 10, Likes: 5})},
	})

	w, body := perform(setupRouter(uc), "/api/channel/videos?channel=@golang&max_results=25&refresh=true")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)

	var data dto.ChannelVideosResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, model.OutcomeFetched, data.Outcome)
	require.Len(t, data.Videos, 1)
	assert.Equal(t, "A", data.Videos[0].Title)
	assert.InDelta(t, 50.0, data.Videos[0].LikeRate, 1e-9)
	uc.AssertExpectations(t)
}

func TestGetChannelVideos_EmptyChannelIsPromptState(t *testing.T) {
	uc := new(MockEngagementUsecase)
	uc.On("GetChannelVideos", mock.Anything, &dto.ChannelVideosRequest{}).Return(&dto.ChannelVideosResponse{
		Outcome: model.OutcomeInvalidReference,
		Videos:  []model.EngagementRow{},
	})

	w, body := perform(setupRouter(uc), "/api/channel/videos")

	require.Equal(t, http.StatusOK, w.Code)
	var data dto.ChannelVideosResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, model.OutcomeInvalidReference, data.Outcome)
	assert.Empty(t, data.Videos)
}

func TestGetChannelVideos_InvalidQuery(t *testing.T) {
	uc := new(MockEngagementUsecase)

	w, body := perform(setupRouter(uc), "/api/channel/videos?channel=@golang&max_results=lots")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid query parameters", body.Error)
	uc.AssertNotCalled(t, "GetChannelVideos", mock.Anything, mock.Anything)
}

func TestChannelEndpoints_RejectOutOfRangeMaxResults(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantErr string
	}{
		{"videos above cap", "/api/channel/videos?channel=@golang&max_results=100000", "max_results too large"},
		{"top above cap", "/api/channel/top?channel=@golang&max_results=51", "max_results too large"},
		{"negative", "/api/channel/videos?channel=@golang&max_results=-1", "Invalid query parameters"},
		{"negative limit", "/api/channel/top?channel=@golang&limit=-3", "Invalid query parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockEngagementUsecase)

			w, body := perform(setupRouter(uc), tt.target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, body.Error)
			uc.AssertNotCalled(t, "GetChannelVideos", mock.Anything, mock.Anything)
			uc.AssertNotCalled(t, "GetTopVideos", mock.Anything, mock.Anything)
		})
	}
}

func TestGetChannelVideos_AtCapIsAccepted(t *testing.T) {
	uc := new(MockEngagementUsecase)
	uc.On("GetChannelVideos", mock.Anything, &dto.ChannelVideosRequest{Channel: "@golang", MaxResults: 50}).
		Return(&dto.ChannelVideosResponse{Outcome: model.OutcomeCached, Videos: []model.EngagementRow{}})

	w, _ := perform(setupRouter(uc), "/api/channel/videos?channel=@golang&max_results=50")

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestGetTopVideos(t *testing.T) {
	uc := new(MockEngagementUsecase)
	expected := &dto.ChannelTopRequest{
		ChannelVideosRequest: dto.ChannelVideosRequest{Channel: "@golang"},
		Metric:               "like_rate",
		Limit:                3,
	}
	uc.On("GetTopVideos", mock.Anything, expected).Return(&dto.ChannelTopResponse{
		ChannelVideosResponse: dto.ChannelVideosResponse{Outcome: model.OutcomeCached, Total: 12},
		Metric:                model.MetricLikeRate,
		Limit:                 3,
	}, nil)

	w, body := perform(setupRouter(uc), "/api/channel/top?channel=@golang&metric=like_rate&limit=3")

	require.Equal(t, http.StatusOK, w.Code)
	var data dto.ChannelTopResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, model.MetricLikeRate, data.Metric)
	assert.Equal(t, 3, data.Limit)
	assert.Equal(t, 12, data.Total)
}

func TestGetTopVideos_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"unknown metric", fmt.Errorf("%w: %q", model.ErrUnknownMetric, "dislikes"), http.StatusBadRequest, "Unknown metric"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Failed to rank videos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockEngagementUsecase)
			uc.On("GetTopVideos", mock.Anything, mock.Anything).Return(nil, tt.err)
			uc.On("Metrics").Return([]dto.MetricOption{{Name: "views"}}).Maybe()

			w, body := perform(setupRouter(uc), "/api/channel/top?channel=@golang&metric=dislikes")

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, body.Error)
			assert.False(t, body.Success)
		})
	}
}

func TestGetMetrics(t *testing.T) {
	uc := new(MockEngagementUsecase)
	uc.On("Metrics").Return([]dto.MetricOption{
		{Name: "views", Label: "Views"},
		{Name: "like_rate", Label: "Like rate (%)", Ratio: true},
	})

	w, body := perform(setupRouter(uc), "/api/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	var data []dto.MetricOption
	require.NoError(t, json.Unmarshal(body.Data, &data))
	require.Len(t, data, 2)
	assert.True(t, data[1].Ratio)
}
