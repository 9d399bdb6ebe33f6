package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductPhoto struct {
	gorm.Model
	ProductID uint   `json:"productId" binding:"required"`
	Url       string `json:"url" binding:"required"`
	Size      int    `json:"size" binding:"required"`
	// Position within the product's gallery. Kept dense: always 1..N
	// per product, maintained by the photo controllers.
	Order     int  `json:"order" gorm:"column:sort_order"`
	IsPrimary bool `json:"isPrimary"`
}

type ProductReview struct {
	gorm.Model
	UserID    uint   `json:"userId" binding:"required"`
	ProductID uint   `json:"productId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
}

type Product struct {
	gorm.Model
	CategoryID       uint            `json:"categoryId" binding:"required"`
	Name             string          `json:"name" binding:"required"`
	Slug             string          `json:"slug" gorm:"uniqueIndex"`
	ShortDescription string          `json:"shortDescription"`
	LongDescription  string          `json:"longDescription"`
	Price            float64         `json:"price" binding:"required"`
	StockQuantity    int             `json:"stockQuantity"`
	PrimaryPhotoUrl  string          `json:"primaryPhotoUrl"`
	CommentCount     int             `json:"commentCount"`
	AverageRating    float64         `json:"averageRating"`
	Colors           datatypes.JSON  `json:"colors"`
	Photos           []ProductPhoto  `json:"photos,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews          []ProductReview `json:"reviews,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
