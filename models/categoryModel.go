package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name     string    `json:"name" binding:"required"`
	Slug     string    `json:"slug" gorm:"uniqueIndex"`
	Order    int       `json:"order" gorm:"column:sort_order"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}
