package cart

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/logging"
	cartrepo "gurkerl-cli/internal/repository/cart"
)

// Service reconciles local intent with the server's cart. Every mutation is
// followed by a fresh fetch, so returned carts always reflect server state.
type Service struct {
	repo   cartRepo
	logger *slog.Logger
}

type cartRepo interface {
	Fetch(ctx context.Context) (*domain.Cart, error)
	SetQuantity(ctx context.Context, id domain.OrderFieldID, quantity int) error
	CreateLineItem(ctx context.Context, productID domain.ProductID, quantity int) error
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(repo cartrepo.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Fetch(ctx context.Context) (*domain.Cart, error) {
	return s.repo.Fetch(ctx)
}

func (s *Service) SetQuantity(ctx context.Context, id domain.OrderFieldID, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}
	if err := s.repo.SetQuantity(ctx, id, quantity); err != nil {
		return nil, err
	}
	return s.repo.Fetch(ctx)
}

// Add increases the quantity of a product, creating the line item if needed.
func (s *Service) Add(ctx context.Context, productID domain.ProductID, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}
	cart, err := s.repo.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if item, ok := cart.Item(productID); ok {
		s.logger.Debug("merging quantity", "product", productID, "from", item.Quantity, "to", item.Quantity+quantity)
		return s.SetQuantity(ctx, item.OrderFieldID, item.Quantity+quantity)
	}

	s.logger.Debug("creating line item", "product", productID, "quantity", quantity)
	if err := s.repo.CreateLineItem(ctx, productID, quantity); err != nil {
		return nil, err
	}
	cart, err = s.repo.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := cart.Item(productID)
	if !ok {
		return nil, &domain.InvalidResponseError{
			Status: 200,
			Reason: fmt.Sprintf("product %d missing from cart after creation", productID),
		}
	}
	return s.SetQuantity(ctx, item.OrderFieldID, quantity)
}

// Remove deletes a product's line item. Removing an absent product is an error.
func (s *Service) Remove(ctx context.Context, productID domain.ProductID) (*domain.Cart, error) {
	cart, err := s.repo.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := cart.Item(productID)
	if !ok {
		return nil, &domain.ItemNotFoundError{ProductID: productID}
	}
	return s.SetQuantity(ctx, item.OrderFieldID, 0)
}

type ClearFailure struct {
	Item domain.CartItem
	Err  error
}

func (f ClearFailure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Item  domain.CartItem `json:"item"`
		Error string          `json:"error"`
	}{f.Item, f.Err.Error()})
}

type ClearResult struct {
	Removed []domain.CartItem `json:"removed"`
	Failed  []ClearFailure    `json:"failed"`
	// Cart is the state after all removals, nil when the final fetch failed.
	Cart *domain.Cart `json:"cart"`
}

// ClearError reports the items that could not be removed.
type ClearError struct {
	Failures []ClearFailure
}

func (e *ClearError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("product %d: %v", f.Item.ProductID, f.Err))
	}
	return fmt.Sprintf("failed to remove %d item(s): %s", len(e.Failures), strings.Join(parts, "; "))
}

func (e *ClearError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Clear attempts to remove every line item. A failed removal does not stop the
// remaining ones; failures are collected into a *ClearError.
func (s *Service) Clear(ctx context.Context) (*ClearResult, error) {
	cart, err := s.repo.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]domain.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b domain.CartItem) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})

	res := &ClearResult{}
	for _, item := range items {
		if err := s.repo.SetQuantity(ctx, item.OrderFieldID, 0); err != nil {
			s.logger.Debug("remove failed", "product", item.ProductID, "err", err)
			res.Failed = append(res.Failed, ClearFailure{Item: item, Err: err})
			continue
		}
		res.Removed = append(res.Removed, item)
	}

	var errs []error
	if len(res.Failed) > 0 {
		errs = append(errs, &ClearError{Failures: res.Failed})
	}
	if len(items) > 0 {
		refreshed, err := s.repo.Fetch(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		res.Cart = refreshed
	} else {
		res.Cart = cart
	}
	return res, errors.Join(errs...)
}
