package models

import (
	"errors"
	"fmt"
)

var (
	// ErrLastPrimaryPhoto is returned when a demotion would leave a
	// product with photos but no primary one.
	ErrLastPrimaryPhoto = errors.New("at least one photo must be primary")

	// ErrCartEmpty is returned when checkout finds no items to order.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrForbidden is returned when a user acts on a resource owned by
	// someone else.
	ErrForbidden = errors.New("you do not have access to this resource")

	// ErrIllegalStatusTransition is returned when an order status update
	// is not allowed by the transition table.
	ErrIllegalStatusTransition = errors.New("illegal order status transition")
)

// InsufficientStockError reports an order or cart quantity that exceeds
// the available stock of a product.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}
