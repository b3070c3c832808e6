package server

import (
	"slices"
	"time"

	httpHandler "channel-insights/interfaces/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultAllowOrigins = []string{"http://localhost:4200", "http://localhost:4201", "http://localhost:8501"}

func InitiateRouter(
	channelHandler httpHandler.IChannelHandler,
	healthHandler httpHandler.IHealthHandler,
	allowOrigins []string,
) *gin.Engine {
	if len(allowOrigins) == 0 {
		allowOrigins = defaultAllowOrigins
	}

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(allowOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowOrigins
		corsConfig.AllowCredentials = true
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", healthHandler.Healthz)

	api := router.Group("api")
	{
		api.GET("/metrics", channelHandler.GetMetrics)

		channel := api.Group("/channel")
		channel.GET("/videos", channelHandler.GetChannelVideos)
		channel.GET("/top", channelHandler.GetTopVideos)
	}

	return router
}
