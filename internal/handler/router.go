package handler

import (
	"github.com/gin-gonic/gin"
)

// NewRouter はAPIルーティングを設定したginエンジンを返す
func NewRouter(recommendationHandler *CourseRecommendationHandler) *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	{
		api.GET("/health", recommendationHandler.Health)

		courses := api.Group("/courses")
		courses.POST("/recommendations", recommendationHandler.PostRecommendations)
		courses.GET("/options", recommendationHandler.GetOptions)
	}

	return router
}
