package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/modavia/modavia-api/controllers"
	"github.com/modavia/modavia-api/middlewares"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/product", controllers.GetProducts)
	server.GET("/product/:id", controllers.GetProduct)
	server.GET("/product-by-slug/:slug", controllers.GetProductBySlug)

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("/product", controllers.CreateProduct)
		admin.PATCH("/product/:id", controllers.UpdateProduct)
		admin.DELETE("/product/:id", controllers.DeleteProduct)
		admin.POST("/product-photos", controllers.CreateProductPhoto)
		admin.POST("/product-photos/upload", controllers.UploadProductPhotos)
		admin.PATCH("/product-photos/:photoId", controllers.UpdateProductPhoto)
		admin.DELETE("/product-photos/:photoId", controllers.DeleteProductPhoto)
	}
}
