package order

import (
	"context"

	"gurkerl-cli/internal/domain"
)

type Repository interface {
	List(ctx context.Context, limit int) ([]domain.Order, error)
	Get(ctx context.Context, number string) (*domain.Order, error)
}
