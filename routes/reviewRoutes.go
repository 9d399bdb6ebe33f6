package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/modavia/modavia-api/controllers"
	"github.com/modavia/modavia-api/middlewares"
)

func ReviewRoutes(server *gin.Engine) {
	server.GET("/review", controllers.GetReviews)

	review := server.Group("/review", middlewares.RequireAuth())
	{
		review.POST("", controllers.CreateReview)
		review.PATCH("/:reviewId", controllers.UpdateReview)
		review.DELETE("/:reviewId", controllers.DeleteReview)
	}
}
