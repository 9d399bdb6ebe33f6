package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/modavia/modavia-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func shippingInput() createOrderInput {
	return createOrderInput{
		FullName:      "Test User",
		Phone:         "+90 555 000 0000",
		Address:       "1 Main St",
		City:          "Istanbul",
		State:         "Istanbul",
		ZipCode:       "34000",
		Country:       "TR",
		PaymentMethod: models.PaymentMethodCreditCard,
	}
}

func placeOrder(db *gorm.DB, userId uint) (*models.Order, error) {
	var order *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		created, err := createOrder(tx, userId, shippingInput())
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	return order, err
}

func TestCreateOrderNoCart(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")

	_, err := placeOrder(db, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")
	require.NoError(t, db.Create(&models.Cart{UserID: user.ID}).Error)

	_, err := placeOrder(db, user.ID)
	assert.ErrorIs(t, err, models.ErrCartEmpty)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")
	product := seedProduct(t, db, "Scarce Shirt", 100, 3)
	seedCartItem(t, db, user.ID, product, 5)

	_, err := placeOrder(db, user.ID)

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Scarce Shirt", stockErr.ProductName)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	// Nothing may have been persisted.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 3, reloaded.StockQuantity)

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)

	var itemCount int64
	db.Model(&models.CartItem{}).Count(&itemCount)
	assert.Equal(t, int64(1), itemCount, "cart must be untouched after a failed checkout")
}

func TestCreateOrderMultiItemFailureMutatesNothing(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")
	plenty := seedProduct(t, db, "Plenty", 50, 10)
	scarce := seedProduct(t, db, "Scarce", 100, 1)
	seedCartItem(t, db, user.ID, plenty, 2)
	seedCartItem(t, db, user.ID, scarce, 4)

	_, err := placeOrder(db, user.ID)

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, plenty.ID).Error)
	assert.Equal(t, 10, reloaded.StockQuantity, "no line may be reserved when any line fails")
}

func TestCreateOrderSuccess(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")
	product := seedProduct(t, db, "Shirt", 100, 10)
	cart := seedCartItem(t, db, user.ID, product, 2)

	order, err := placeOrder(db, user.ID)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 200.0, order.Total)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, 100.0, order.OrderItems[0].Price)
	assert.Equal(t, 2, order.OrderItems[0].Quantity)
	assert.Equal(t, "Shirt", order.OrderItems[0].Name)
	assert.Equal(t, "Test User", order.ShippingAddress.FullName)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 8, reloaded.StockQuantity)

	var itemCount int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount)
	assert.Zero(t, itemCount, "cart must be empty after checkout")
}

func TestCreateOrderSnapshotsPriceAtCheckout(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")
	product := seedProduct(t, db, "Shirt", 100, 10)
	seedCartItem(t, db, user.ID, product, 1)

	order, err := placeOrder(db, user.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 500).Error)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&item).Error)
	assert.Equal(t, 100.0, item.Price, "order item price must not follow catalog changes")
}

func TestGetOrderOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner", "user")
	other := seedUser(t, db, "other", "user")
	product := seedProduct(t, db, "Shirt", 100, 10)
	seedCartItem(t, db, owner.ID, product, 1)

	order, err := placeOrder(db, owner.ID)
	require.NoError(t, err)

	_, err = getOrder(db, order.ID, owner.ID)
	assert.NoError(t, err)

	_, err = getOrder(db, order.ID, other.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	// Admin callers skip the ownership check.
	_, err = getOrder(db, order.ID, 0)
	assert.NoError(t, err)

	_, err = getOrder(db, 999, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")
	product := seedProduct(t, db, "Shirt", 100, 10)
	seedCartItem(t, db, user.ID, product, 1)

	order, err := placeOrder(db, user.ID)
	require.NoError(t, err)

	// PENDING -> SHIPPED skips PAID and must be rejected.
	_, err = updateOrderStatus(db, order.ID, 0, models.OrderStatusShipped)
	assert.ErrorIs(t, err, models.ErrIllegalStatusTransition)

	updated, err := updateOrderStatus(db, order.ID, 0, models.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, updated.Status)

	updated, err = updateOrderStatus(db, order.ID, 0, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	updated, err = updateOrderStatus(db, order.ID, 0, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	// DELIVERED is terminal.
	_, err = updateOrderStatus(db, order.ID, 0, models.OrderStatusPending)
	assert.ErrorIs(t, err, models.ErrIllegalStatusTransition)
	_, err = updateOrderStatus(db, order.ID, 0, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, models.ErrIllegalStatusTransition)
}

func TestCreateOrderHandlerStatusCodes(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")

	router := gin.New()
	router.POST("/order", authAs(user), CreateOrder)

	body, _ := json.Marshal(shippingInput())

	// No cart yet.
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/order", bytes.NewReader(body))
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	// Not enough stock.
	product := seedProduct(t, db, "Shirt", 100, 1)
	seedCartItem(t, db, user.ID, product, 3)

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodPost, "/order", bytes.NewReader(body))
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Happy path.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("stock_quantity", 5).Error)

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodPost, "/order", bytes.NewReader(body))
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusCreated, recorder.Code)
}
