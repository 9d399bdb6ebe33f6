package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Username  string `json:"username" gorm:"uniqueIndex" binding:"required"`
	Email     string `json:"email" gorm:"uniqueIndex" binding:"required,email"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
}

type LoginData struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}
