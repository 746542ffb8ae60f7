package product

import (
	"context"
	"errors"
	"strings"

	"gurkerl-cli/internal/domain"
	productrepo "gurkerl-cli/internal/repository/product"
)

const DefaultLimit = 20

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Search resolves query to at most limit products, in suggestion order.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query required")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	ids, err := s.repo.Suggest(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	products, err := s.repo.Cards(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}
