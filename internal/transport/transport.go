package transport

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apcaballes87/cake-genie/internal/transport/middleware"
)

func InitRoutes(handler *EstimateHandler, requestTimeout time.Duration) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(requestTimeout))

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := router.Group("/api")
	{
		api.POST("/upload", handler.UploadCake)
		api.GET("/estimate/:id", handler.GetEstimate)
		api.POST("/estimate/:id/refresh", handler.RefreshEstimate)
		api.GET("/state", handler.GetState)
		api.POST("/state/dismiss", handler.DismissError)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "cake-genie-api",
		})
	})

	return router
}
