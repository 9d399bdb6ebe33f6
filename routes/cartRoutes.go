package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/modavia/modavia-api/controllers"
	"github.com/modavia/modavia-api/middlewares"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.DELETE("", controllers.ClearCart)
		cart.POST("/items", controllers.AddCartItem)
		cart.PATCH("/items/:itemId", controllers.UpdateCartItem)
		cart.DELETE("/items/:itemId", controllers.RemoveCartItem)
	}
}
