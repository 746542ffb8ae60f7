package product

import (
	"context"

	"gurkerl-cli/internal/domain"
)

type Repository interface {
	// Suggest returns the product ids the autocomplete endpoint proposes for query.
	Suggest(ctx context.Context, query string) ([]domain.ProductID, error)
	// Cards loads display data for the given products. Cards that do not parse are skipped.
	Cards(ctx context.Context, ids []domain.ProductID) ([]domain.Product, error)
}
