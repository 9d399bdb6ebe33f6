package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/modavia/modavia-api/initializers"
	"github.com/modavia/modavia-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

// CreateProduct adds a product to the catalog. The slug is derived from
// the name unless supplied explicitly.
func CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var category models.Category
	if err := initializers.DB.First(&category, product.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Category not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate category", err)
		}
		return
	}

	if product.Slug == "" {
		product.Slug = slug.Make(product.Name)
	}
	if product.ShortDescription == "" {
		product.ShortDescription = "No description"
	}
	if product.LongDescription == "" {
		product.LongDescription = "No detailed description"
	}

	if err := initializers.DB.Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// GetProducts lists products with pagination, name search and category
// filtering.
func GetProducts(ctx *gin.Context) {
	var products []models.Product

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "12"))
	offset := (page - 1) * limit

	query := initializers.DB.Preload("Photos")

	if search := ctx.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if categoryId := ctx.Query("categoryId"); categoryId != "" {
		query = query.Where("category_id = ?", categoryId)
	}

	result := query.Limit(limit).Offset(offset).Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Product{})
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("name LIKE ?", "%"+search+"%")
	}
	if categoryId := ctx.Query("categoryId"); categoryId != "" {
		countQuery = countQuery.Where("category_id = ?", categoryId)
	}
	countQuery.Count(&count)

	ctx.JSON(http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{
			"total": count,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetProduct returns a product by ID with its photos and reviews.
func GetProduct(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	var product models.Product
	result := initializers.DB.Preload("Photos").Preload("Reviews").First(&product, productId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", result.Error)
		}
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// GetProductBySlug returns a product by its URL slug.
func GetProductBySlug(ctx *gin.Context) {
	var product models.Product
	result := initializers.DB.Preload("Photos").Preload("Reviews").
		Where("slug = ?", ctx.Param("slug")).
		First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", result.Error)
		}
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// UpdateProduct applies a partial update to a product.
func UpdateProduct(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
		}
		return
	}

	// Denormalized fields and the photo gallery are maintained by their
	// own endpoints, so only catalog fields are accepted here.
	var updateData struct {
		CategoryID       *uint           `json:"categoryId"`
		Name             string          `json:"name"`
		Slug             string          `json:"slug"`
		ShortDescription string          `json:"shortDescription"`
		LongDescription  string          `json:"longDescription"`
		Price            *float64        `json:"price"`
		StockQuantity    *int            `json:"stockQuantity"`
		Colors           json.RawMessage `json:"colors"`
	}
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if updateData.CategoryID != nil {
		product.CategoryID = *updateData.CategoryID
	}
	if updateData.Name != "" {
		product.Name = updateData.Name
		if updateData.Slug == "" {
			product.Slug = slug.Make(updateData.Name)
		}
	}
	if updateData.Slug != "" {
		product.Slug = updateData.Slug
	}
	if updateData.ShortDescription != "" {
		product.ShortDescription = updateData.ShortDescription
	}
	if updateData.LongDescription != "" {
		product.LongDescription = updateData.LongDescription
	}
	if updateData.Price != nil {
		product.Price = *updateData.Price
	}
	if updateData.StockQuantity != nil {
		product.StockQuantity = *updateData.StockQuantity
	}
	if len(updateData.Colors) > 0 {
		product.Colors = datatypes.JSON(updateData.Colors)
	}

	if err := initializers.DB.Save(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product along with its photos and reviews.
func DeleteProduct(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	result := initializers.DB.Select("Photos", "Reviews").Delete(&models.Product{Model: gorm.Model{ID: uint(productId)}})
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete product", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully."})
}
