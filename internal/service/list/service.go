package list

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/logging"
	listrepo "gurkerl-cli/internal/repository/list"
)

// detailConcurrency bounds parallel detail requests per listing.
const detailConcurrency = 4

type Service struct {
	repo   listrepo.Repository
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(repo listrepo.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List loads every shopping list. Lists whose details fail to load are left out.
func (s *Service) List(ctx context.Context) ([]domain.ShoppingList, error) {
	ids, err := s.repo.IDs(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]*domain.ShoppingList, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			list, err := s.repo.Get(gctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrInterrupted) || errors.Is(err, domain.ErrAuthenticationFailed) {
					return err
				}
				s.logger.Debug("skipping shopping list", "id", id, "err", err)
				return nil
			}
			details[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lists := make([]domain.ShoppingList, 0, len(ids))
	for _, list := range details {
		if list != nil {
			lists = append(lists, *list)
		}
	}
	return lists, nil
}

func (s *Service) Show(ctx context.Context, id int64) (*domain.ShoppingList, error) {
	return s.repo.Get(ctx, id)
}

// Create makes a new list and returns it as the server stores it.
func (s *Service) Create(ctx context.Context, name string) (*domain.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("list name required")
	}
	id, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
