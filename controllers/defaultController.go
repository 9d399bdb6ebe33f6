package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modavia/modavia-api/initializers"
	"github.com/modavia/modavia-api/models"
	"gorm.io/gorm"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to Modavia API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Access user account
- GET "/auth/profile" - Get own profile
- PATCH "/auth/profile" - Update own profile

CATALOG
- GET "/category" - List categories
- GET "/product" - List products (pagination, search, category filter)
- GET "/product/:id" - Get product by ID
- GET "/product-by-slug/:slug" - Get product by slug
- POST "/product-photos" - Add a photo record
- POST "/product-photos/upload" - Upload photo files
- PATCH "/product-photos/:photoId" - Reorder or set primary photo
- DELETE "/product-photos/:photoId" - Remove a photo

CART
- GET "/cart" - Get own cart
- POST "/cart/items" - Add product to cart
- PATCH "/cart/items/:itemId" - Change item quantity
- DELETE "/cart/items/:itemId" - Remove item
- DELETE "/cart" - Clear cart

ORDER
- POST "/order" - Place an order from the cart
- GET "/order" - Get own orders
- GET "/order/:orderId" - Get order by ID
- PATCH "/order/:orderId/status" - Update order status (admin)

REVIEWS
- POST "/review" - Add a product review
- GET "/review" - List reviews (filter by product, rating)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func GetBrands(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"brands": []gin.H{
			{"name": "Versace"},
			{"name": "Zara"},
			{"name": "Gucci"},
			{"name": "Prada"},
			{"name": "Calvin Klein"},
		},
	})
}

// SubscribeNewsletter records a newsletter signup. Subscribing twice is
// not an error.
func SubscribeNewsletter(ctx *gin.Context) {
	var subscribeData struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&subscribeData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var existing models.NewsletterSubscriber
	err := initializers.DB.Where("email = ?", subscribeData.Email).First(&existing).Error
	if err == nil {
		sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "email": subscribeData.Email})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Newsletter lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	subscriber := models.NewsletterSubscriber{Email: subscribeData.Email}
	if err := initializers.DB.Create(&subscriber).Error; err != nil {
		log.Println("Newsletter subscription error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"success": true, "email": subscriber.Email})
}
