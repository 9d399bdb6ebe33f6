package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/modavia/modavia-api/controllers"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/brands", controllers.GetBrands)
	server.POST("/newsletter", controllers.SubscribeNewsletter)
}
