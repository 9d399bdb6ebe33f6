package controllers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/modavia/modavia-api/initializers"
	"github.com/modavia/modavia-api/models"
	"gorm.io/gorm"
)

type createOrderInput struct {
	FullName      string `json:"fullName" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Address       string `json:"address" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state" binding:"required"`
	ZipCode       string `json:"zipCode" binding:"required"`
	Country       string `json:"country" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=CREDIT_CARD BANK_TRANSFER"`
}

// createOrder turns the user's cart into an order. Stock is checked per
// item, then decremented with a conditional update so two concurrent
// checkouts cannot drive it below zero. The order snapshots the unit
// price at checkout time and the shipping details verbatim. The cart is
// emptied in the same transaction; any failure rolls everything back.
func createOrder(db *gorm.DB, userId uint, input createOrderInput) (*models.Order, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userId).
		Preload("Items").
		Preload("Items.Product").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, models.ErrCartEmpty
	}

	var total float64
	for _, item := range cart.Items {
		if item.Quantity > item.Product.StockQuantity {
			return nil, &models.InsufficientStockError{
				ProductName: item.Product.Name,
				Requested:   item.Quantity,
				Available:   item.Product.StockQuantity,
			}
		}
		total += float64(item.Quantity) * item.Product.Price
	}

	for _, item := range cart.Items {
		result := db.Model(&models.Product{}).
			Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			// Stock changed under us since the check above.
			var product models.Product
			if err := db.First(&product, item.ProductID).Error; err != nil {
				return nil, err
			}
			return nil, &models.InsufficientStockError{
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.StockQuantity,
			}
		}
	}

	order := models.Order{
		UserID:        userId,
		Status:        models.OrderStatusPending,
		PaymentMethod: input.PaymentMethod,
		Total:         total,
		ShippingAddress: models.ShippingAddress{
			FullName: input.FullName,
			Phone:    input.Phone,
			Address:  input.Address,
			City:     input.City,
			State:    input.State,
			ZipCode:  input.ZipCode,
			Country:  input.Country,
		},
	}
	for _, item := range cart.Items {
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
		})
	}

	if err := db.Create(&order).Error; err != nil {
		return nil, err
	}

	if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

// getOrder loads an order with its items and address. A non-zero
// requestingUserId must match the order's owner; admin callers pass zero
// to skip the check.
func getOrder(db *gorm.DB, orderId, requestingUserId uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("OrderItems").
		Preload("ShippingAddress").
		First(&order, orderId).Error
	if err != nil {
		return nil, err
	}

	if requestingUserId != 0 && order.UserID != requestingUserId {
		return nil, models.ErrForbidden
	}
	return &order, nil
}

// updateOrderStatus applies a status change after validating it against
// the transition table.
func updateOrderStatus(db *gorm.DB, orderId, requestingUserId uint, newStatus string) (*models.Order, error) {
	order, err := getOrder(db, orderId, requestingUserId)
	if err != nil {
		return nil, err
	}

	if !models.CanTransitionOrderStatus(order.Status, newStatus) {
		return nil, models.ErrIllegalStatusTransition
	}

	if err := db.Model(order).Update("status", newStatus).Error; err != nil {
		return nil, err
	}
	order.Status = newStatus
	return order, nil
}

// notifyOrderCreated posts the committed order to the configured webhook.
// Failures are logged, never surfaced to the customer.
func notifyOrderCreated(order *models.Order) {
	webhookURL := os.Getenv("ORDER_WEBHOOK_URL")
	if webhookURL == "" {
		return
	}

	resp, err := resty.New().SetTimeout(10 * time.Second).
		R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"event":   "order.created",
			"orderId": order.ID,
			"userId":  order.UserID,
			"total":   order.Total,
			"status":  order.Status,
		}).
		Post(webhookURL)
	if err != nil {
		log.Printf("Order webhook error for order %d: %v", order.ID, err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("Order webhook for order %d returned status %d", order.ID, resp.StatusCode())
	}
}

// CreateOrder places an order from the authenticated user's cart.
func CreateOrder(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var input createOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		log.Printf("JSON binding error: %v", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	var order *models.Order
	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		created, err := createOrder(tx, userId, input)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		var stockErr *models.InsufficientStockError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sendErrorResponse(ctx, http.StatusNotFound, "Cart not found")
		case errors.Is(err, models.ErrCartEmpty):
			sendErrorResponse(ctx, http.StatusNotFound, "Cart is empty")
		case errors.As(err, &stockErr):
			sendErrorResponse(ctx, http.StatusBadRequest, stockErr.Error())
		default:
			log.Println("Order creation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
		}
		return
	}

	notifyOrderCreated(order)

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order created successfully.",
		"order":   order,
	})
}

// GetOrders returns all orders, paginated. Admin only.
func GetOrders(ctx *gin.Context) {
	var orders []models.Order

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.Preload("OrderItems").Preload("ShippingAddress")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	query = query.Order("created_at " + sortOrder)

	result := query.Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", result.Error)
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Order{})
	if status := ctx.Query("status"); status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	countQuery.Count(&count)

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

// GetUserOrders returns the authenticated user's orders, newest first.
func GetUserOrders(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var orders []models.Order
	result := initializers.DB.Preload("OrderItems").
		Preload("ShippingAddress").
		Where("user_id = ?", userId).
		Order("created_at desc").
		Find(&orders)
	if result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

// GetOrderById returns a single order. Non-admin callers can only read
// their own orders.
func GetOrderById(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	requestingUserId := uint(0)
	if !currentUserIsAdmin(ctx) {
		userId, ok := currentUserID(ctx)
		if !ok {
			sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
			return
		}
		requestingUserId = userId
	}

	order, err := getOrder(initializers.DB, uint(orderId), requestingUserId)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		case errors.Is(err, models.ErrForbidden):
			sendErrorResponse(ctx, http.StatusForbidden, err.Error())
		default:
			log.Println(err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order.")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus moves an order along the status state machine.
// Admin only.
func UpdateOrderStatus(ctx *gin.Context) {
	var orderStatusData struct {
		Status string `json:"status" binding:"required,oneof=PENDING PAID SHIPPED DELIVERED CANCELLED"`
	}
	if err := ctx.ShouldBindJSON(&orderStatusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var order *models.Order
	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		updated, err := updateOrderStatus(tx, uint(orderId), 0, orderStatusData.Status)
		if err != nil {
			return err
		}
		order = updated
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		case errors.Is(err, models.ErrIllegalStatusTransition):
			sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		default:
			log.Println(err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Order status updated successfully.",
		"order":   order,
	})
}

// DeleteOrder removes an order and its items. Admin only.
func DeleteOrder(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id.")
		return
	}

	result := initializers.DB.Delete(&models.Order{}, orderId)
	if result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete order.")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order deleted successfully."})
}
