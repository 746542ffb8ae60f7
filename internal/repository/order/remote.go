package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/gateway"
)

const (
	historyPath = "/services/frontend-service/v2/user-profile/orders"
	detailPath  = "/services/frontend-service/v2/orders/"
)

type remoteRepo struct {
	exec gateway.Executor
}

func NewRemote(exec gateway.Executor) Repository {
	return &remoteRepo{exec: exec}
}

// looseString accepts a JSON string or number.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// looseTime accepts ISO-8601 timestamps with or without zone, or a bare date.
type looseTime struct{ time.Time }

func (t *looseTime) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil || v == "" {
		return err
	}
	var err error
	for _, layout := range dateLayouts {
		t.Time, err = time.Parse(layout, v)
		if err == nil {
			return nil
		}
	}
	return err
}

type orderPayload struct {
	ID          looseString     `json:"id"`
	OrderNumber looseString     `json:"orderNumber"`
	Date        looseTime       `json:"date"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
	Items       []struct {
		ProductID domain.ProductID `json:"productId"`
		Name      string           `json:"name"`
		Quantity  *int             `json:"quantity"`
		Price     decimal.Decimal  `json:"price"`
		Subtotal  *decimal.Decimal `json:"subtotal"`
		Unit      string           `json:"unit"`
	} `json:"items"`
}

func (p orderPayload) toDomain() domain.Order {
	o := domain.Order{
		ID:          string(p.ID),
		OrderNumber: string(p.OrderNumber),
		Date:        p.Date.Time,
		Status:      p.Status,
		Total:       p.Total,
	}
	if o.Status == "" {
		o.Status = "Unknown"
	}
	for _, raw := range p.Items {
		item := domain.OrderItem{
			ProductID: raw.ProductID,
			Name:      raw.Name,
			Quantity:  1,
			Price:     raw.Price,
			Unit:      raw.Unit,
		}
		if raw.Quantity != nil {
			item.Quantity = *raw.Quantity
		}
		if raw.Subtotal != nil {
			item.Subtotal = *raw.Subtotal
		} else {
			item.Subtotal = raw.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		o.Items = append(o.Items, item)
	}
	return o
}

func (r *remoteRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	resp, err := r.exec.Execute(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   historyPath,
		Query:  url.Values{"limit": {strconv.Itoa(limit)}},
	})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Orders []orderPayload `json:"orders"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(payload.Orders))
	for _, p := range payload.Orders {
		orders = append(orders, p.toDomain())
	}
	return orders, nil
}

func (r *remoteRepo) Get(ctx context.Context, number string) (*domain.Order, error) {
	resp, err := r.exec.Execute(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   detailPath + url.PathEscape(number),
	})
	if err != nil {
		return nil, err
	}
	var payload orderPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	o := payload.toDomain()
	if o.OrderNumber == "" {
		o.OrderNumber = number
	}
	return &o, nil
}
