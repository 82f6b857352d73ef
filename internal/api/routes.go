package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		articles := v1.Group("/articles")
		{
			articles.GET("", handler.ListArticles)   // GET /api/v1/articles
			articles.GET("/:id", handler.GetArticle) // GET /api/v1/articles/:id
		}

		v1.GET("/digests/:date", handler.GetDigest) // GET /api/v1/digests/:date
		v1.GET("/trends", handler.ListTrends)       // GET /api/v1/trends
	}
}
