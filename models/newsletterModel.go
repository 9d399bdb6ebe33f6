package models

import "gorm.io/gorm"

type NewsletterSubscriber struct {
	gorm.Model
	Email string `json:"email" gorm:"uniqueIndex" binding:"required,email"`
}
