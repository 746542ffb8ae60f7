package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gurkerl-cli/internal/domain"
)

type memWriter struct {
	products map[domain.ProductID]domain.Product
	orders   map[string][]domain.Order
	lists    map[string][]domain.ShoppingList
}

func newMemWriter() *memWriter {
	return &memWriter{
		products: map[domain.ProductID]domain.Product{},
		orders:   map[string][]domain.Order{},
		lists:    map[string][]domain.ShoppingList{},
	}
}

func (m *memWriter) UpsertProduct(_ context.Context, p domain.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *memWriter) AddOrder(_ context.Context, email string, o domain.Order) error {
	m.orders[email] = append(m.orders[email], o)
	return nil
}

func (m *memWriter) AddShoppingList(_ context.Context, email string, l domain.ShoppingList) error {
	m.lists[email] = append(m.lists[email], l)
	return nil
}

func TestApply(t *testing.T) {
	w := newMemWriter()
	require.NoError(t, Apply(context.Background(), w, "demo@example.com"))

	require.Len(t, w.products, len(products))
	for _, p := range w.products {
		require.False(t, p.Price().GreaterThan(p.OriginalPrice), "product %d", p.ID)
	}
	require.False(t, w.products[6034].Available)

	orders := w.orders["demo@example.com"]
	require.Len(t, orders, 1)
	require.Equal(t, "6.89", orders[0].Total.StringFixed(2))
	require.Len(t, w.lists["demo@example.com"], 1)
}

func TestApplyWithoutUser(t *testing.T) {
	w := newMemWriter()
	require.NoError(t, Apply(context.Background(), w, ""))
	require.Empty(t, w.orders)
	require.Empty(t, w.lists)
}
