package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"gurkerl-cli/internal/domain"
)

type setCall struct {
	id       domain.OrderFieldID
	quantity int
}

type createCall struct {
	product  domain.ProductID
	quantity int
}

type stubRepo struct {
	fetchResults []*domain.Cart
	fetchErr     error
	fetchCalls   int
	setErrs      map[domain.OrderFieldID]error
	setCalls     []setCall
	createErr    error
	createCalls  []createCall
}

func (s *stubRepo) Fetch(context.Context) (*domain.Cart, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	idx := s.fetchCalls
	if idx >= len(s.fetchResults) {
		idx = len(s.fetchResults) - 1
	}
	s.fetchCalls++
	return s.fetchResults[idx], nil
}

func (s *stubRepo) SetQuantity(_ context.Context, id domain.OrderFieldID, quantity int) error {
	s.setCalls = append(s.setCalls, setCall{id: id, quantity: quantity})
	return s.setErrs[id]
}

func (s *stubRepo) CreateLineItem(_ context.Context, productID domain.ProductID, quantity int) error {
	s.createCalls = append(s.createCalls, createCall{product: productID, quantity: quantity})
	return s.createErr
}

func cartWith(items ...domain.CartItem) *domain.Cart {
	c := &domain.Cart{ID: 1, Items: map[domain.ProductID]domain.CartItem{}}
	for _, item := range items {
		c.Items[item.ProductID] = item
	}
	return c
}

func line(product domain.ProductID, field domain.OrderFieldID, qty int) domain.CartItem {
	return domain.CartItem{ProductID: product, OrderFieldID: field, Quantity: qty}
}

func TestAddMergesExistingQuantity(t *testing.T) {
	repo := &stubRepo{fetchResults: []*domain.Cart{
		cartWith(line(4659, 84365053, 2)),
		cartWith(line(4659, 84365053, 5)),
	}}
	svc := New(repo)

	cart, err := svc.Add(context.Background(), 4659, 3)
	require.NoError(t, err)
	require.Equal(t, []setCall{{id: 84365053, quantity: 5}}, repo.setCalls)
	require.Empty(t, repo.createCalls)
	require.Equal(t, 2, repo.fetchCalls)

	item, ok := cart.Item(4659)
	require.True(t, ok)
	require.Equal(t, 5, item.Quantity)
}

func TestAddCreatesNewLineItemThenSetsQuantity(t *testing.T) {
	repo := &stubRepo{fetchResults: []*domain.Cart{
		cartWith(),
		cartWith(line(10, 100, 1)),
		cartWith(line(10, 100, 4)),
	}}
	svc := New(repo)

	cart, err := svc.Add(context.Background(), 10, 4)
	require.NoError(t, err)
	require.Equal(t, []createCall{{product: 10, quantity: 4}}, repo.createCalls)
	require.Equal(t, []setCall{{id: 100, quantity: 4}}, repo.setCalls)
	require.Equal(t, 3, repo.fetchCalls)
	require.Equal(t, 4, cart.Items[10].Quantity)
}

func TestAddNewItemMissingAfterCreation(t *testing.T) {
	repo := &stubRepo{fetchResults: []*domain.Cart{cartWith()}}
	svc := New(repo)

	_, err := svc.Add(context.Background(), 10, 1)
	require.ErrorIs(t, err, domain.ErrInvalidResponse)
	require.Empty(t, repo.setCalls)
}

func TestAddCreationFailure(t *testing.T) {
	repo := &stubRepo{fetchResults: []*domain.Cart{cartWith()}, createErr: &domain.NotFoundError{Path: "/api/v1/cart/item"}}
	svc := New(repo)

	_, err := svc.Add(context.Background(), 10, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Equal(t, 1, repo.fetchCalls)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	repo := &stubRepo{fetchResults: []*domain.Cart{cartWith()}}
	svc := New(repo)

	for _, q := range []int{0, -2} {
		_, err := svc.Add(context.Background(), 10, q)
		require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	require.Zero(t, repo.fetchCalls)
}

func TestSetQuantityRefetches(t *testing.T) {
	repo := &stubRepo{fetchResults: []*domain.Cart{cartWith(line(1, 11, 7))}}
	svc := New(repo)

	cart, err := svc.SetQuantity(context.Background(), 11, 7)
	require.NoError(t, err)
	require.Equal(t, 1, repo.fetchCalls)
	require.Equal(t, 7, cart.Items[1].Quantity)

	_, err = svc.SetQuantity(context.Background(), 11, -1)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	require.Len(t, repo.setCalls, 1)
}

func TestSetQuantityErrorSkipsRefetch(t *testing.T) {
	repo := &stubRepo{
		fetchResults: []*domain.Cart{cartWith()},
		setErrs:      map[domain.OrderFieldID]error{11: &domain.NetworkError{Kind: domain.NetworkTimeout}},
	}
	_, err := New(repo).SetQuantity(context.Background(), 11, 2)
	require.ErrorIs(t, err, domain.ErrNetwork)
	require.Zero(t, repo.fetchCalls)
}

func TestRemoveSetsQuantityZero(t *testing.T) {
	repo := &stubRepo{fetchResults: []*domain.Cart{
		cartWith(line(1, 11, 3), line(2, 22, 1)),
		cartWith(line(2, 22, 1)),
	}}
	svc := New(repo)

	cart, err := svc.Remove(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, []setCall{{id: 11, quantity: 0}}, repo.setCalls)
	_, ok := cart.Item(1)
	require.False(t, ok)
}

func TestRemoveAbsentItemIssuesNoMutation(t *testing.T) {
	repo := &stubRepo{fetchResults: []*domain.Cart{cartWith(line(1, 11, 3))}}
	svc := New(repo)

	_, err := svc.Remove(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
	var notFound *domain.ItemNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, domain.ProductID(99), notFound.ProductID)
	require.Empty(t, repo.setCalls)
	require.Empty(t, repo.createCalls)
}

func TestClearContinuesPastFailures(t *testing.T) {
	failure := &domain.NetworkError{Kind: domain.NetworkConnectionFailed, Err: errors.New("reset")}
	repo := &stubRepo{
		fetchResults: []*domain.Cart{
			cartWith(line(1, 11, 1), line(2, 22, 2), line(3, 33, 3)),
			cartWith(line(2, 22, 2)),
		},
		setErrs: map[domain.OrderFieldID]error{22: failure},
	}
	svc := New(repo)

	res, err := svc.Clear(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrNetwork)

	var clearErr *ClearError
	require.ErrorAs(t, err, &clearErr)
	require.Len(t, clearErr.Failures, 1)
	require.Equal(t, domain.ProductID(2), clearErr.Failures[0].Item.ProductID)

	require.Equal(t, []setCall{{11, 0}, {22, 0}, {33, 0}}, repo.setCalls)
	require.Len(t, res.Removed, 2)
	require.Len(t, res.Failed, 1)
	require.Equal(t, 2, repo.fetchCalls)
	require.Len(t, res.Cart.Items, 1)
}

func TestClearEmptyCart(t *testing.T) {
	repo := &stubRepo{fetchResults: []*domain.Cart{cartWith()}}
	res, err := New(repo).Clear(context.Background())
	require.NoError(t, err)
	require.Empty(t, res.Removed)
	require.Empty(t, repo.setCalls)
	require.Equal(t, 1, repo.fetchCalls)
	require.NotNil(t, res.Cart)
}

func TestClearFetchFailure(t *testing.T) {
	repo := &stubRepo{fetchErr: domain.ErrInterrupted}
	_, err := New(repo).Clear(context.Background())
	require.ErrorIs(t, err, domain.ErrInterrupted)
	require.Empty(t, repo.setCalls)
}
