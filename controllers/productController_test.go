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
)

func productRouter(admin models.User) *gin.Engine {
	router := gin.New()
	router.POST("/product", authAs(admin), CreateProduct)
	router.PATCH("/product/:id", authAs(admin), UpdateProduct)
	router.GET("/product/:id", GetProduct)
	router.GET("/product-by-slug/:slug", GetProductBySlug)
	return router
}

func TestCreateProductGeneratesSlug(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin", "admin")
	category := seedCategory(t, db)
	router := productRouter(admin)

	body, _ := json.Marshal(gin.H{
		"categoryId": category.ID,
		"name":       "Classic Denim Jacket",
		"price":      499.9,
	})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/product", bytes.NewReader(body))
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var product models.Product
	require.NoError(t, db.Where("name = ?", "Classic Denim Jacket").First(&product).Error)
	assert.Equal(t, "classic-denim-jacket", product.Slug)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin", "admin")
	router := productRouter(admin)

	body, _ := json.Marshal(gin.H{
		"categoryId": 999,
		"name":       "Orphan Product",
		"price":      10.0,
	})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/product", bytes.NewReader(body))
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetProductBySlug(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin", "admin")
	product := seedProduct(t, db, "Shirt", 100, 10)
	router := productRouter(admin)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/product-by-slug/"+product.Slug, nil)
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/product-by-slug/no-such-slug", nil)
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUpdateProductPartialFields(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin", "admin")
	product := seedProduct(t, db, "Shirt", 100, 10)
	router := productRouter(admin)

	body, _ := json.Marshal(gin.H{"price": 150.0, "stockQuantity": 3})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPatch, "/product/"+itoa(product.ID), bytes.NewReader(body))
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 150.0, reloaded.Price)
	assert.Equal(t, 3, reloaded.StockQuantity)
	assert.Equal(t, "Shirt", reloaded.Name, "unspecified fields keep their values")
}

func TestPhotoEndpointsStatusCodes(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin", "admin")
	product := seedProduct(t, db, "Shirt", 100, 10)

	router := gin.New()
	router.POST("/product-photos", authAs(admin), CreateProductPhoto)
	router.PATCH("/product-photos/:photoId", authAs(admin), UpdateProductPhoto)
	router.DELETE("/product-photos/:photoId", authAs(admin), DeleteProductPhoto)

	body, _ := json.Marshal(gin.H{"productId": product.ID, "url": "https://img/a.jpg", "size": 1024})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/product-photos", bytes.NewReader(body))
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var photo models.ProductPhoto
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &photo))
	assert.True(t, photo.IsPrimary)

	// Demoting the only photo is rejected.
	body, _ = json.Marshal(gin.H{"isPrimary": false})
	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodPatch, "/product-photos/"+itoa(photo.ID), bytes.NewReader(body))
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Unknown photo ids map to 404.
	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodDelete, "/product-photos/999", nil)
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodDelete, "/product-photos/"+itoa(photo.ID), nil)
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
