package controllers

import (
	"testing"

	"github.com/modavia/modavia-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetOrCreateCartLazyCreation(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")

	cart, err := getOrCreateCart(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	again, err := getOrCreateCart(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID, "a user has at most one cart")
}

func TestAddCartItemMergesQuantities(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")
	product := seedProduct(t, db, "Shirt", 100, 10)

	first, err := addCartItem(db, user.ID, product.ID, 2)
	require.NoError(t, err)

	second, err := addCartItem(db, user.ID, product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same product must merge into one line")
	assert.Equal(t, 5, second.Quantity)

	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAddCartItemStockGuards(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")
	product := seedProduct(t, db, "Shirt", 100, 4)

	var stockErr *models.InsufficientStockError

	_, err := addCartItem(db, user.ID, product.ID, 5)
	assert.ErrorAs(t, err, &stockErr)

	_, err = addCartItem(db, user.ID, product.ID, 3)
	require.NoError(t, err)

	// The merged quantity would exceed stock.
	_, err = addCartItem(db, user.ID, product.ID, 2)
	assert.ErrorAs(t, err, &stockErr)

	soldOut := seedProduct(t, db, "Sold Out", 100, 0)
	_, err = addCartItem(db, user.ID, soldOut.ID, 1)
	assert.ErrorAs(t, err, &stockErr)
}

func TestAddCartItemMissingProduct(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")

	_, err := addCartItem(db, user.ID, 999, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateCartItemQuantity(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")
	product := seedProduct(t, db, "Shirt", 100, 10)

	item, err := addCartItem(db, user.ID, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, updateCartItemQuantity(db, user.ID, item.ID, 7))

	var reloaded models.CartItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, 7, reloaded.Quantity)

	var stockErr *models.InsufficientStockError
	err = updateCartItemQuantity(db, user.ID, item.ID, 11)
	assert.ErrorAs(t, err, &stockErr)

	// Zero removes the line.
	require.NoError(t, updateCartItemQuantity(db, user.ID, item.ID, 0))
	err = db.First(&reloaded, item.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateCartItemOtherUsersItem(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner", "user")
	other := seedUser(t, db, "other", "user")
	product := seedProduct(t, db, "Shirt", 100, 10)

	item, err := addCartItem(db, owner.ID, product.ID, 2)
	require.NoError(t, err)

	err = updateCartItemQuantity(db, other.ID, item.ID, 5)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "items are only reachable through the caller's own cart")
}

func TestRemoveCartItem(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")
	product := seedProduct(t, db, "Shirt", 100, 10)

	item, err := addCartItem(db, user.ID, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, removeCartItem(db, user.ID, item.ID))

	err = removeCartItem(db, user.ID, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartTotals(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "buyer", "user")
	shirt := seedProduct(t, db, "Shirt", 100, 10)
	pants := seedProduct(t, db, "Pants", 250, 10)

	_, err := addCartItem(db, user.ID, shirt.ID, 2)
	require.NoError(t, err)
	_, err = addCartItem(db, user.ID, pants.ID, 1)
	require.NoError(t, err)

	cart, err := getOrCreateCart(db, user.ID)
	require.NoError(t, err)

	totalItems, totalPrice := cartTotals(cart)
	assert.Equal(t, 3, totalItems)
	assert.Equal(t, 450.0, totalPrice)
}
