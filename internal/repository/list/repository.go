package list

import (
	"context"

	"gurkerl-cli/internal/domain"
)

type Repository interface {
	// IDs returns the ids of the user's shopping lists.
	IDs(ctx context.Context) ([]int64, error)
	Get(ctx context.Context, id int64) (*domain.ShoppingList, error)
	Create(ctx context.Context, name string) (int64, error)
	Delete(ctx context.Context, id int64) error
}
