package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/modavia/modavia-api/initializers"
	"github.com/modavia/modavia-api/models"
	"gorm.io/gorm"
)

// createPhoto appends a photo to a product's gallery. The new photo takes
// the next gallery position. A product's first photo always becomes the
// primary one; otherwise an explicit primary flag demotes the current
// primary before the insert.
func createPhoto(db *gorm.DB, productId uint, url string, size int, isPrimary bool) (*models.ProductPhoto, error) {
	var product models.Product
	if err := db.First(&product, productId).Error; err != nil {
		return nil, err
	}

	nextOrder := 1
	var lastPhoto models.ProductPhoto
	err := db.Where("product_id = ?", productId).Order("sort_order desc").First(&lastPhoto).Error
	if err == nil {
		nextOrder = lastPhoto.Order + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if nextOrder == 1 {
		isPrimary = true
	} else if isPrimary {
		if err := demotePrimaryPhoto(db, productId); err != nil {
			return nil, err
		}
	}

	photo := models.ProductPhoto{
		ProductID: productId,
		Url:       url,
		Size:      size,
		Order:     nextOrder,
		IsPrimary: isPrimary,
	}
	if err := db.Create(&photo).Error; err != nil {
		return nil, err
	}

	if isPrimary {
		if err := setPrimaryPhotoUrl(db, productId, url); err != nil {
			return nil, err
		}
	}
	return &photo, nil
}

type photoUpdate struct {
	Order     *int  `json:"order" binding:"omitempty,min=1"`
	IsPrimary *bool `json:"isPrimary"`
}

// updatePhoto repositions a photo within its product's gallery and/or
// changes its primary designation. Repositioning slides the siblings
// between the old and new positions by one so the sequence stays dense.
// Demoting the only photo of a product fails with ErrLastPrimaryPhoto.
func updatePhoto(db *gorm.DB, photoId uint, update photoUpdate) (*models.ProductPhoto, error) {
	var photo models.ProductPhoto
	if err := db.First(&photo, photoId).Error; err != nil {
		return nil, err
	}

	if update.Order != nil && *update.Order != photo.Order {
		if err := reorderPhotos(db, photo.ProductID, photo.Order, *update.Order); err != nil {
			return nil, err
		}
		photo.Order = *update.Order
	}

	if update.IsPrimary != nil && *update.IsPrimary != photo.IsPrimary {
		if *update.IsPrimary {
			if err := demotePrimaryPhoto(db, photo.ProductID); err != nil {
				return nil, err
			}
			photo.IsPrimary = true
			if err := setPrimaryPhotoUrl(db, photo.ProductID, photo.Url); err != nil {
				return nil, err
			}
		} else {
			var nextPhoto models.ProductPhoto
			err := db.Where("product_id = ? AND id <> ?", photo.ProductID, photo.ID).
				Order("sort_order asc").
				First(&nextPhoto).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrLastPrimaryPhoto
			}
			if err != nil {
				return nil, err
			}

			if err := db.Model(&nextPhoto).Update("is_primary", true).Error; err != nil {
				return nil, err
			}
			photo.IsPrimary = false
			if err := setPrimaryPhotoUrl(db, photo.ProductID, nextPhoto.Url); err != nil {
				return nil, err
			}
		}
	}

	if err := db.Save(&photo).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

// removePhoto deletes a photo, promotes the lowest-positioned sibling if
// the deleted photo was primary, and closes the gap left in the gallery
// order. A product ending up with zero photos is fine.
func removePhoto(db *gorm.DB, photoId uint) error {
	var photo models.ProductPhoto
	if err := db.First(&photo, photoId).Error; err != nil {
		return err
	}

	if err := db.Delete(&photo).Error; err != nil {
		return err
	}

	if photo.IsPrimary {
		var newPrimary models.ProductPhoto
		err := db.Where("product_id = ?", photo.ProductID).
			Order("sort_order asc").
			First(&newPrimary).Error
		switch {
		case err == nil:
			if err := db.Model(&newPrimary).Update("is_primary", true).Error; err != nil {
				return err
			}
			if err := setPrimaryPhotoUrl(db, photo.ProductID, newPrimary.Url); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := setPrimaryPhotoUrl(db, photo.ProductID, ""); err != nil {
				return err
			}
		default:
			return err
		}
	}

	return db.Model(&models.ProductPhoto{}).
		Where("product_id = ? AND sort_order > ?", photo.ProductID, photo.Order).
		Update("sort_order", gorm.Expr("sort_order - 1")).Error
}

// reorderPhotos makes room for a photo moving from oldOrder to newOrder
// by sliding every sibling in between one position toward the vacated
// slot.
func reorderPhotos(db *gorm.DB, productId uint, oldOrder, newOrder int) error {
	if oldOrder == newOrder {
		return nil
	}

	if newOrder < oldOrder {
		return db.Model(&models.ProductPhoto{}).
			Where("product_id = ? AND sort_order >= ? AND sort_order < ?", productId, newOrder, oldOrder).
			Update("sort_order", gorm.Expr("sort_order + 1")).Error
	}
	return db.Model(&models.ProductPhoto{}).
		Where("product_id = ? AND sort_order > ? AND sort_order <= ?", productId, oldOrder, newOrder).
		Update("sort_order", gorm.Expr("sort_order - 1")).Error
}

func demotePrimaryPhoto(db *gorm.DB, productId uint) error {
	return db.Model(&models.ProductPhoto{}).
		Where("product_id = ? AND is_primary = ?", productId, true).
		Update("is_primary", false).Error
}

func setPrimaryPhotoUrl(db *gorm.DB, productId uint, url string) error {
	return db.Model(&models.Product{}).
		Where("id = ?", productId).
		Update("primary_photo_url", url).Error
}

// CreateProductPhoto appends a photo record to a product's gallery.
func CreateProductPhoto(ctx *gin.Context) {
	var photoData struct {
		ProductID uint   `json:"productId" binding:"required"`
		Url       string `json:"url" binding:"required"`
		Size      int    `json:"size" binding:"required,min=1"`
		IsPrimary bool   `json:"isPrimary"`
	}
	if err := ctx.ShouldBindJSON(&photoData); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var photo *models.ProductPhoto
	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		created, err := createPhoto(tx, photoData.ProductID, photoData.Url, photoData.Size, photoData.IsPrimary)
		if err != nil {
			return err
		}
		photo = created
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to create product photo", err)
		}
		return
	}

	ctx.JSON(http.StatusCreated, photo)
}

// UpdateProductPhoto changes a photo's gallery position and/or primary flag.
func UpdateProductPhoto(ctx *gin.Context) {
	photoId, err := strconv.Atoi(ctx.Param("photoId"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid photo ID", err)
		return
	}

	var update photoUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var photo *models.ProductPhoto
	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		updated, err := updatePhoto(tx, uint(photoId), update)
		if err != nil {
			return err
		}
		photo = updated
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondWithError(ctx, http.StatusNotFound, "Photo not found", nil)
		case errors.Is(err, models.ErrLastPrimaryPhoto):
			respondWithError(ctx, http.StatusBadRequest, err.Error(), nil)
		default:
			respondWithError(ctx, http.StatusInternalServerError, "Failed to update product photo", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, photo)
}

// DeleteProductPhoto removes a photo from a product's gallery.
func DeleteProductPhoto(ctx *gin.Context) {
	photoId, err := strconv.Atoi(ctx.Param("photoId"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid photo ID", err)
		return
	}

	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		return removePhoto(tx, uint(photoId))
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Photo not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to delete product photo", err)
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Photo deleted successfully."})
}

// getAWSUploader returns a configured AWS S3 uploader
func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

// UploadProductPhotos accepts multipart image uploads, stores them in S3
// and appends a photo record per uploaded file.
func UploadProductPhotos(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		respondWithError(ctx, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	productIdStr := ctx.PostForm("productId")
	if productIdStr == "" {
		respondWithError(ctx, http.StatusBadRequest, "Missing productId", nil)
		return
	}

	productId, err := strconv.Atoi(productIdStr)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid productId", err)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate product", err)
		}
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to configure AWS", err)
		return
	}

	bucket := os.Getenv("S3_BUCKET")
	var photos []models.ProductPhoto
	var failedUploads []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			log.Printf("Error opening file %s: %v", file.Filename, openErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		key := fmt.Sprintf("%d-%s%s", productId, uuid.NewString(), filepath.Ext(file.Filename))
		result, uploadErr := uploader.Upload(context.TODO(), &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        f,
			ACL:         "public-read",
			ContentType: aws.String(file.Header.Get("Content-Type")),
		})
		f.Close()

		if uploadErr != nil {
			log.Printf("Error uploading file %s: %v", file.Filename, uploadErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		err := initializers.DB.Transaction(func(tx *gorm.DB) error {
			photo, err := createPhoto(tx, uint(productId), result.Location, int(file.Size), false)
			if err != nil {
				return err
			}
			photos = append(photos, *photo)
			return nil
		})
		if err != nil {
			log.Printf("Error saving photo to database: %v", err)
			failedUploads = append(failedUploads, file.Filename)
		}
	}

	response := gin.H{
		"message": "Files processed",
		"photos":  photos,
	}
	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}

	ctx.JSON(http.StatusOK, response)
}
