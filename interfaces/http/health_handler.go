package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type IHealthHandler interface {
	Healthz(c *gin.Context)
}

type HealthHandler struct {
	cacheBackend  string
	extractorMode string
}

func NewHealthHandler(cacheBackend, extractorMode string) IHealthHandler {
	return &HealthHandler{cacheBackend: cacheBackend, extractorMode: extractorMode}
}

// Healthz returns OK for health checks
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"cache":     h.cacheBackend,
		"extractor": h.extractorMode,
	})
}
