package fakeshop

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gurkerl-cli/internal/domain"
)

func product(id domain.ProductID, name, original, sale string, stock int) domain.Product {
	p := domain.Product{
		ID:            id,
		Name:          name,
		OriginalPrice: decimal.RequireFromString(original),
		UnitPrice:     decimal.RequireFromString(original),
		Currency:      "EUR",
		Available:     stock > 0,
		MaxAmount:     stock,
	}
	if sale != "" {
		v := decimal.RequireFromString(sale)
		p.SalePrice = &v
	}
	return p
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.AddAccount("Demo@Example.com", "pw"))
	ctx := context.Background()
	require.NoError(t, s.UpsertProduct(ctx, product(4659, "Bio Vollmilch", "1.89", "1.70", 10)))
	require.NoError(t, s.UpsertProduct(ctx, product(1207, "Vollkornbrot", "3.49", "", 2)))
	return s
}

func TestLoginAndAuthenticate(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, err := s.Login("demo@example.com", "wrong")
	require.ErrorIs(t, err, errBadCredentials)
	_, err = s.Login("nobody@example.com", "pw")
	require.ErrorIs(t, err, errBadCredentials)

	token, err := s.Login(" demo@example.com ", "pw")
	require.NoError(t, err)
	email, ok := s.Authenticate(token)
	require.True(t, ok)
	require.Equal(t, "demo@example.com", email)

	now = now.Add(domain.SessionTTL)
	_, ok = s.Authenticate(token)
	require.False(t, ok)
}

func TestCartTotalsAndDiscount(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddToCart("demo@example.com", 4659, 2))
	require.NoError(t, s.AddToCart("demo@example.com", 1207, 1))

	cart := s.Cart("demo@example.com")
	require.Len(t, cart.Items, 2)
	require.Equal(t, "6.89", cart.TotalPrice.StringFixed(2))
	require.Equal(t, "0.38", cart.TotalSavings.StringFixed(2))
	require.False(t, cart.MeetsMinimum)

	milk := cart.Items[4659]
	require.Equal(t, 10, milk.DiscountPercent)
	require.Zero(t, cart.Items[1207].DiscountPercent)
}

func TestAddToCartMergesAndRespectsStock(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddToCart("demo@example.com", 1207, 1))
	first := s.Cart("demo@example.com").Items[1207].OrderFieldID

	require.NoError(t, s.AddToCart("demo@example.com", 1207, 1))
	item := s.Cart("demo@example.com").Items[1207]
	require.Equal(t, first, item.OrderFieldID)
	require.Equal(t, 2, item.Quantity)

	require.ErrorIs(t, s.AddToCart("demo@example.com", 1207, 1), errOverStock)
	require.ErrorIs(t, s.AddToCart("demo@example.com", 999, 1), errUnknownProduct)
}

func TestSetQuantityZeroDeletes(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddToCart("demo@example.com", 4659, 1))
	field := s.Cart("demo@example.com").Items[4659].OrderFieldID

	require.NoError(t, s.SetQuantity("demo@example.com", field, 4))
	require.Equal(t, 4, s.Cart("demo@example.com").Items[4659].Quantity)

	require.NoError(t, s.SetQuantity("demo@example.com", field, 0))
	require.Empty(t, s.Cart("demo@example.com").Items)
	require.ErrorIs(t, s.SetQuantity("demo@example.com", field, 1), errUnknownLine)
}

func TestSearchMatchesNameAndBrand(t *testing.T) {
	s := newTestStore(t)
	require.Equal(t, []domain.ProductID{4659}, s.Search("MILCH"))
	require.Equal(t, []domain.ProductID{4659, 1207}, s.Search("o"))
	require.Empty(t, s.Search(" "))
}

func TestListsAreScopedPerUser(t *testing.T) {
	s := newTestStore(t)
	id := s.CreateList("demo@example.com", "Party")
	_, err := s.List("other@example.com", id)
	require.ErrorIs(t, err, errUnknownList)

	l, err := s.List("demo@example.com", id)
	require.NoError(t, err)
	require.Equal(t, "Party", l.Name)
	require.Equal(t, []int64{id}, s.ListIDs("demo@example.com"))

	require.NoError(t, s.DeleteList("demo@example.com", id))
	require.ErrorIs(t, s.DeleteList("demo@example.com", id), errUnknownList)
}

func TestOrdersNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	older := domain.Order{OrderNumber: "G-1", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := domain.Order{OrderNumber: "G-2", Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.AddOrder(ctx, "demo@example.com", older))
	require.NoError(t, s.AddOrder(ctx, "demo@example.com", newer))

	orders := s.Orders("demo@example.com", 1)
	require.Len(t, orders, 1)
	require.Equal(t, "G-2", orders[0].OrderNumber)

	_, err := s.Order("demo@example.com", "G-9")
	require.ErrorIs(t, err, errUnknownOrder)
}
