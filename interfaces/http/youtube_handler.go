package http

import (
	"errors"
	"fmt"
	"net/http"

	"channel-insights/domain/dto"
	"channel-insights/domain/model"
	"channel-insights/infrastructure/logger"
	"channel-insights/usecase"

	"github.com/gin-gonic/gin"
)

// IChannelHandler defines the HTTP handlers the dashboard calls
type IChannelHandler interface {
	GetChannelVideos(ctx *gin.Context)
	GetTopVideos(ctx *gin.Context)
	GetMetrics(ctx *gin.Context)
}

// ChannelHandler implements the channel engagement HTTP handlers
type ChannelHandler struct {
	engagementUseCase usecase.IEngagementUsecase
	maxResultsCap     int
}

// NewChannelHandler creates a new channel handler instance. Requests asking for more
// than maxResultsCap videos are rejected; 0 disables the check.
func NewChannelHandler(engagementUseCase usecase.IEngagementUsecase, maxResultsCap int) IChannelHandler {
	return &ChannelHandler{
		engagementUseCase: engagementUseCase,
		maxResultsCap:     maxResultsCap,
	}
}

func (h *ChannelHandler) rejectOversized(ctx *gin.Context, maxResults int) bool {
	if h.maxResultsCap <= 0 || maxResults <= h.maxResultsCap {
		return false
	}
	ctx.JSON(http.StatusBadRequest, gin.H{
		"error":   "max_results too large",
		"message": fmt.Sprintf("max_results must be at most %d", h.maxResultsCap),
	})
	return true
}

// GetChannelVideos handles GET /api/channel/videos
func (h *ChannelHandler) GetChannelVideos(ctx *gin.Context) {
	req := &dto.ChannelVideosRequest{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"message": err.Error(),
		})
		return
	}
	if h.rejectOversized(ctx, req.MaxResults) {
		return
	}

	response := h.engagementUseCase.GetChannelVideos(ctx.Request.Context(), req)
	logger.GetLogger().WithFields(map[string]interface{}{
		"reference": response.Reference,
		"outcome":   response.Outcome,
		"total":     response.Total,
	}).Debug("Served channel videos")

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": response})
}

// GetTopVideos handles GET /api/channel/top
func (h *ChannelHandler) GetTopVideos(ctx *gin.Context) {
	req := &dto.ChannelTopRequest{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"message": err.Error(),
		})
		return
	}
	if h.rejectOversized(ctx, req.MaxResults) {
		return
	}

	response, err := h.engagementUseCase.GetTopVideos(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrUnknownMetric) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "Unknown metric",
				"message": err.Error(),
				"metrics": h.engagementUseCase.Metrics(),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to rank videos",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": response})
}

// GetMetrics handles GET /api/metrics
func (h *ChannelHandler) GetMetrics(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": h.engagementUseCase.Metrics()})
}
