package models

import "gorm.io/gorm"

type CartItem struct {
	gorm.Model
	CartID    uint    `json:"cartId"`
	ProductID uint    `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Product   Product `json:"product,omitempty"`
}

type Cart struct {
	gorm.Model
	UserID uint       `json:"userId" gorm:"uniqueIndex"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}
