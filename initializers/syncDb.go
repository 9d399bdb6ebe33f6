package initializers

import (
	"log"

	"github.com/modavia/modavia-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductPhoto{},
		&models.ProductReview{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingAddress{},
		&models.NewsletterSubscriber{},
	)
	log.Println("Database synced successfully.")
}
