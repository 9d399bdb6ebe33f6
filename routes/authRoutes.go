package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/modavia/modavia-api/controllers"
	"github.com/modavia/modavia-api/middlewares"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.GET("/profile", middlewares.RequireAuth(), controllers.GetProfile)
		auth.PATCH("/profile", middlewares.RequireAuth(), controllers.UpdateProfile)
	}
}
