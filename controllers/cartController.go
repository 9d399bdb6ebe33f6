package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/modavia/modavia-api/initializers"
	"github.com/modavia/modavia-api/models"
	"gorm.io/gorm"
)

// getOrCreateCart loads the user's cart, creating an empty one on first
// access.
func getOrCreateCart(db *gorm.DB, userId uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userId).
		Preload("Items").
		Preload("Items.Product").
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userId}
	if err := db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// addCartItem adds a product to the user's cart. Quantities merge when
// the product is already in the cart; the merged quantity must still fit
// the available stock.
func addCartItem(db *gorm.DB, userId, productId uint, quantity int) (*models.CartItem, error) {
	var product models.Product
	if err := db.First(&product, productId).Error; err != nil {
		return nil, err
	}

	if quantity > product.StockQuantity {
		return nil, &models.InsufficientStockError{
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.StockQuantity,
		}
	}

	cart, err := getOrCreateCart(db, userId)
	if err != nil {
		return nil, err
	}

	var existingItem models.CartItem
	err = db.Where("cart_id = ? AND product_id = ?", cart.ID, productId).First(&existingItem).Error
	if err == nil {
		newQuantity := existingItem.Quantity + quantity
		if newQuantity > product.StockQuantity {
			return nil, &models.InsufficientStockError{
				ProductName: product.Name,
				Requested:   newQuantity,
				Available:   product.StockQuantity,
			}
		}
		existingItem.Quantity = newQuantity
		if err := db.Save(&existingItem).Error; err != nil {
			return nil, err
		}
		existingItem.Product = product
		return &existingItem, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := models.CartItem{CartID: cart.ID, ProductID: productId, Quantity: quantity}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	item.Product = product
	return &item, nil
}

// updateCartItemQuantity sets the quantity of an item in the user's
// cart. A quantity of zero or less removes the item.
func updateCartItemQuantity(db *gorm.DB, userId, cartItemId uint, quantity int) error {
	cart, err := getOrCreateCart(db, userId)
	if err != nil {
		return err
	}

	var item models.CartItem
	err = db.Where("id = ? AND cart_id = ?", cartItemId, cart.ID).
		Preload("Product").
		First(&item).Error
	if err != nil {
		return err
	}

	if quantity <= 0 {
		return db.Delete(&item).Error
	}

	if quantity > item.Product.StockQuantity {
		return &models.InsufficientStockError{
			ProductName: item.Product.Name,
			Requested:   quantity,
			Available:   item.Product.StockQuantity,
		}
	}

	item.Quantity = quantity
	return db.Save(&item).Error
}

func removeCartItem(db *gorm.DB, userId, cartItemId uint) error {
	cart, err := getOrCreateCart(db, userId)
	if err != nil {
		return err
	}

	var item models.CartItem
	if err := db.Where("id = ? AND cart_id = ?", cartItemId, cart.ID).First(&item).Error; err != nil {
		return err
	}
	return db.Delete(&item).Error
}

func cartTotals(cart *models.Cart) (int, float64) {
	totalItems := 0
	totalPrice := 0.0
	for _, item := range cart.Items {
		totalItems += item.Quantity
		totalPrice += float64(item.Quantity) * item.Product.Price
	}
	return totalItems, totalPrice
}

// GetCart returns the authenticated user's cart, creating it on first
// access.
func GetCart(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cart, err := getOrCreateCart(initializers.DB, userId)
	if err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	totalItems, totalPrice := cartTotals(cart)
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"cart":       cart,
		"totalItems": totalItems,
		"totalPrice": totalPrice,
	})
}

// AddCartItem puts a product into the authenticated user's cart.
func AddCartItem(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var itemData struct {
		ProductID uint `json:"productId" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&itemData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	var item *models.CartItem
	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		added, err := addCartItem(tx, userId, itemData.ProductID, itemData.Quantity)
		if err != nil {
			return err
		}
		item = added
		return nil
	})
	if err != nil {
		var stockErr *models.InsufficientStockError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		case errors.As(err, &stockErr):
			sendErrorResponse(ctx, http.StatusBadRequest, stockErr.Error())
		default:
			log.Println("Cart item error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add item to cart")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": item.Product.Name + " added to cart",
		"item":    item,
	})
}

// UpdateCartItem changes the quantity of a cart item. Zero removes it.
func UpdateCartItem(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cartItemId, err := strconv.Atoi(ctx.Param("itemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse itemId")
		return
	}

	var quantityData struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&quantityData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		return updateCartItemQuantity(tx, userId, uint(cartItemId), *quantityData.Quantity)
	})
	if err != nil {
		var stockErr *models.InsufficientStockError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		case errors.As(err, &stockErr):
			sendErrorResponse(ctx, http.StatusBadRequest, stockErr.Error())
		default:
			log.Println("Cart update error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to update cart item quantity.")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item updated"})
}

// RemoveCartItem deletes a single item from the cart.
func RemoveCartItem(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cartItemId, err := strconv.Atoi(ctx.Param("itemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse itemId")
		return
	}

	if err := removeCartItem(initializers.DB, userId, uint(cartItemId)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		} else {
			log.Println("Cart remove error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to remove cart item.")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item removed"})
}

// ClearCart empties the authenticated user's cart.
func ClearCart(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cart, err := getOrCreateCart(initializers.DB, userId)
	if err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	if err := initializers.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		log.Println("Cart clear error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}
