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

// refreshProductRating recomputes a product's denormalized review count
// and average rating.
func refreshProductRating(db *gorm.DB, productId uint) error {
	var stats struct {
		Count int64
		Avg   float64
	}
	err := db.Model(&models.ProductReview{}).
		Where("product_id = ?", productId).
		Select("COUNT(*) as count, COALESCE(AVG(rating), 0) as avg").
		Scan(&stats).Error
	if err != nil {
		return err
	}

	return db.Model(&models.Product{}).
		Where("id = ?", productId).
		Updates(map[string]any{
			"comment_count":  stats.Count,
			"average_rating": stats.Avg,
		}).Error
}

// CreateReview adds a review for a product by the authenticated user.
func CreateReview(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var reviewData struct {
		ProductID uint   `json:"productId" binding:"required"`
		Title     string `json:"title" binding:"required"`
		Content   string `json:"content" binding:"required"`
		Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	}
	if err := ctx.ShouldBindJSON(&reviewData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	review := models.ProductReview{
		UserID:    userId,
		ProductID: reviewData.ProductID,
		Title:     reviewData.Title,
		Content:   reviewData.Content,
		Rating:    reviewData.Rating,
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, reviewData.ProductID).Error; err != nil {
			return err
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return refreshProductRating(tx, reviewData.ProductID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			log.Println("Review creation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create review")
		}
		return
	}

	ctx.JSON(http.StatusCreated, review)
}

// GetReviews lists reviews, optionally filtered by product and rating.
func GetReviews(ctx *gin.Context) {
	query := initializers.DB.Model(&models.ProductReview{})

	if productId := ctx.Query("productId"); productId != "" {
		query = query.Where("product_id = ?", productId)
	}
	if rating := ctx.Query("rating"); rating != "" {
		query = query.Where("rating = ?", rating)
	}

	var reviews []models.ProductReview
	if result := query.Order("created_at desc").Find(&reviews); result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch reviews")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"reviews": reviews})
}

// UpdateReview edits the authenticated user's own review.
func UpdateReview(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	reviewId, err := strconv.Atoi(ctx.Param("reviewId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse reviewId")
		return
	}

	var reviewData struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Rating  *int   `json:"rating" binding:"omitempty,min=1,max=5"`
	}
	if err := ctx.ShouldBindJSON(&reviewData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var review models.ProductReview
	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, reviewId).Error; err != nil {
			return err
		}
		if review.UserID != userId && !currentUserIsAdmin(ctx) {
			return models.ErrForbidden
		}

		if reviewData.Title != "" {
			review.Title = reviewData.Title
		}
		if reviewData.Content != "" {
			review.Content = reviewData.Content
		}
		if reviewData.Rating != nil {
			review.Rating = *reviewData.Rating
		}

		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return refreshProductRating(tx, review.ProductID)
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sendErrorResponse(ctx, http.StatusNotFound, "Review not found")
		case errors.Is(err, models.ErrForbidden):
			sendErrorResponse(ctx, http.StatusForbidden, err.Error())
		default:
			log.Println("Review update error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update review")
		}
		return
	}

	ctx.JSON(http.StatusOK, review)
}

// DeleteReview removes a review; owners and admins only.
func DeleteReview(ctx *gin.Context) {
	userId, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	reviewId, err := strconv.Atoi(ctx.Param("reviewId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse reviewId")
		return
	}

	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		var review models.ProductReview
		if err := tx.First(&review, reviewId).Error; err != nil {
			return err
		}
		if review.UserID != userId && !currentUserIsAdmin(ctx) {
			return models.ErrForbidden
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return refreshProductRating(tx, review.ProductID)
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sendErrorResponse(ctx, http.StatusNotFound, "Review not found")
		case errors.Is(err, models.ErrForbidden):
			sendErrorResponse(ctx, http.StatusForbidden, err.Error())
		default:
			log.Println("Review delete error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete review")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Review deleted successfully."})
}
