package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/modavia/modavia-api/controllers"
	"github.com/modavia/modavia-api/middlewares"
)

func CategoryRoutes(server *gin.Engine) {
	server.GET("/category", controllers.GetCategories)
	server.GET("/category/:id", controllers.GetCategory)

	admin := server.Group("/category", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateCategory)
		admin.PATCH("/:id", controllers.UpdateCategory)
		admin.DELETE("/:id", controllers.DeleteCategory)
	}
}
