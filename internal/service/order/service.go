package order

import (
	"context"
	"errors"
	"strings"

	"gurkerl-cli/internal/domain"
	orderrepo "gurkerl-cli/internal/repository/order"
)

const DefaultLimit = 10

type Service struct {
	repo orderrepo.Repository
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	orders, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (s *Service) Show(ctx context.Context, number string) (*domain.Order, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, errors.New("order number required")
	}
	return s.repo.Get(ctx, number)
}
