package cart

import (
	"context"

	"gurkerl-cli/internal/domain"
)

// Repository is the server-side cart. The server owns all state; nothing is cached.
type Repository interface {
	Fetch(ctx context.Context) (*domain.Cart, error)
	// SetQuantity sets a line item's quantity. Zero deletes the line.
	SetQuantity(ctx context.Context, id domain.OrderFieldID, quantity int) error
	// CreateLineItem puts a product into the cart for the first time.
	CreateLineItem(ctx context.Context, productID domain.ProductID, quantity int) error
}
