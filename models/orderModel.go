package models

import "gorm.io/gorm"

const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"

	PaymentMethodCreditCard   = "CREDIT_CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
)

// Allowed status transitions. DELIVERED and CANCELLED are terminal.
var orderStatusTransitions = map[string][]string{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDelivered},
}

func CanTransitionOrderStatus(from, to string) bool {
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type ShippingAddress struct {
	gorm.Model
	OrderID  uint   `json:"orderId"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

type OrderItem struct {
	gorm.Model
	OrderID   uint    `json:"orderId"`
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	gorm.Model
	UserID          uint            `json:"userId"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	Total           float64         `json:"total"`
	OrderItems      []OrderItem     `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}
