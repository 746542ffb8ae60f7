package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/gateway"
)

type scriptedExecutor struct {
	body     string
	requests []gateway.Request
}

func (s *scriptedExecutor) Execute(_ context.Context, req gateway.Request) (*gateway.Response, error) {
	s.requests = append(s.requests, req)
	return &gateway.Response{Status: 200, Body: []byte(s.body)}, nil
}

func TestListOrders(t *testing.T) {
	exec := &scriptedExecutor{body: `{"orders":[
		{"id":9001,"orderNumber":"G-1","date":"2026-03-01T10:00:00Z","status":"DELIVERED","total":54.20},
		{"id":"9002","orderNumber":"G-2","total":"12.00"},
		{"id":9003,"orderNumber":"G-3","date":"2026-02-14T08:30:00","total":1}
	]}`}
	orders, err := NewRemote(exec).List(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "5", exec.requests[0].Query.Get("limit"))
	require.Equal(t, "/services/frontend-service/v2/user-profile/orders", exec.requests[0].Path)

	require.Len(t, orders, 3)
	require.Equal(t, "9001", orders[0].ID)
	require.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), orders[0].Date.UTC())
	require.True(t, orders[0].Total.Equal(decimal.RequireFromString("54.2")))
	require.Equal(t, "9002", orders[1].ID)
	require.Equal(t, "Unknown", orders[1].Status)
	require.True(t, orders[1].Date.IsZero())
	require.Equal(t, time.Date(2026, 2, 14, 8, 30, 0, 0, time.UTC), orders[2].Date)
}

func TestGetOrderDefaultsItemFields(t *testing.T) {
	exec := &scriptedExecutor{body: `{"id":1,"status":"DELIVERED","total":5,"items":[
		{"productId":4659,"name":"Milch","price":1.70,"quantity":2},
		{"productId":22,"name":"Brot","price":3.00,"subtotal":2.50}
	]}`}
	order, err := NewRemote(exec).Get(context.Background(), "G-7")
	require.NoError(t, err)
	require.Equal(t, "/services/frontend-service/v2/orders/G-7", exec.requests[0].Path)
	require.Equal(t, "G-7", order.OrderNumber)
	require.Len(t, order.Items, 2)
	require.Equal(t, domain.ProductID(4659), order.Items[0].ProductID)
	require.True(t, order.Items[0].Subtotal.Equal(decimal.RequireFromString("3.40")))
	require.Equal(t, 1, order.Items[1].Quantity)
	require.True(t, order.Items[1].Subtotal.Equal(decimal.RequireFromString("2.50")))
}
