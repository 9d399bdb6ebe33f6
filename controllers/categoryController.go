package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/modavia/modavia-api/initializers"
	"github.com/modavia/modavia-api/models"
	"gorm.io/gorm"
)

// CreateCategory adds a catalog category.
func CreateCategory(ctx *gin.Context) {
	var category models.Category
	if err := ctx.ShouldBindJSON(&category); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if category.Slug == "" {
		category.Slug = slug.Make(category.Name)
	}

	if err := initializers.DB.Create(&category).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create category", err)
		return
	}

	ctx.JSON(http.StatusCreated, category)
}

// GetCategories lists categories by their display order.
func GetCategories(ctx *gin.Context) {
	var categories []models.Category
	if result := initializers.DB.Order("sort_order asc").Find(&categories); result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch categories", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory returns one category with its products.
func GetCategory(ctx *gin.Context) {
	categoryId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid category ID", err)
		return
	}

	var category models.Category
	result := initializers.DB.Preload("Products").First(&category, categoryId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Category not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve category", result.Error)
		}
		return
	}

	ctx.JSON(http.StatusOK, category)
}

// UpdateCategory applies a partial update to a category.
func UpdateCategory(ctx *gin.Context) {
	categoryId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid category ID", err)
		return
	}

	var category models.Category
	if err := initializers.DB.First(&category, categoryId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Category not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve category", err)
		}
		return
	}

	var updateData struct {
		Name  string `json:"name"`
		Slug  string `json:"slug"`
		Order *int   `json:"order"`
	}
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if updateData.Name != "" {
		category.Name = updateData.Name
		if updateData.Slug == "" {
			category.Slug = slug.Make(updateData.Name)
		}
	}
	if updateData.Slug != "" {
		category.Slug = updateData.Slug
	}
	if updateData.Order != nil {
		category.Order = *updateData.Order
	}

	if err := initializers.DB.Save(&category).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update category", err)
		return
	}

	ctx.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category.
func DeleteCategory(ctx *gin.Context) {
	categoryId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid category ID", err)
		return
	}

	result := initializers.DB.Delete(&models.Category{}, categoryId)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete category", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondWithError(ctx, http.StatusNotFound, "Category not found", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully."})
}
