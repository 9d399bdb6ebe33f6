package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/modavia/modavia-api/controllers"
	"github.com/modavia/modavia-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	order := server.Group("/order", middlewares.RequireAuth())
	{
		order.POST("", controllers.CreateOrder)
		order.GET("", controllers.GetUserOrders)
		order.GET("/:orderId", controllers.GetOrderById)
	}

	admin := server.Group("/order", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.PATCH("/:orderId/status", controllers.UpdateOrderStatus)
		admin.DELETE("/:orderId", controllers.DeleteOrder)
	}

	server.GET("/admin/orders", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.GetOrders)
}
