package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/gateway"
)

const (
	checkCartPath  = "/services/frontend-service/v2/cart-review/check-cart"
	itemPath       = "/services/frontend-service/v2/cart-review/item/"
	createItemPath = "/api/v1/cart/item"
)

type remoteRepo struct {
	exec gateway.Executor
}

// NewRemote binds the repository to a session-bound executor.
func NewRemote(exec gateway.Executor) Repository {
	return &remoteRepo{exec: exec}
}

func (r *remoteRepo) Fetch(ctx context.Context) (*domain.Cart, error) {
	resp, err := r.exec.Execute(ctx, gateway.Request{Method: http.MethodGet, Path: checkCartPath})
	if err != nil {
		return nil, err
	}
	return ParseCart(resp.Status, resp.Body)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (r *remoteRepo) SetQuantity(ctx context.Context, id domain.OrderFieldID, quantity int) error {
	_, err := r.exec.Execute(ctx, gateway.Request{
		Method: http.MethodPut,
		Path:   itemPath + id.String(),
		Body:   setQuantityRequest{Quantity: quantity},
	})
	return err
}

type createItemRequest struct {
	Amount    int              `json:"amount"`
	ProductID domain.ProductID `json:"productId"`
}

func (r *remoteRepo) CreateLineItem(ctx context.Context, productID domain.ProductID, quantity int) error {
	_, err := r.exec.Execute(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   createItemPath,
		Body:   createItemRequest{Amount: quantity, ProductID: productID},
	})
	return err
}

type cartEnvelope struct {
	Status   *int            `json:"status"`
	Messages json.RawMessage `json:"messages"`
	Data     *cartData       `json:"data"`
}

type cartData struct {
	CartID                int64                   `json:"cartId"`
	TotalPrice            decimal.Decimal         `json:"totalPrice"`
	TotalSavings          decimal.Decimal         `json:"totalSavings"`
	MinimalOrderPrice     decimal.Decimal         `json:"minimalOrderPrice"`
	SubmitConditionPassed bool                    `json:"submitConditionPassed"`
	Items                 map[string]cartItemData `json:"items"`
}

type cartItemData struct {
	ProductID     *int64           `json:"productId"`
	OrderFieldID  *int64           `json:"orderFieldId"`
	ProductName   string           `json:"productName"`
	Brand         *string          `json:"brand"`
	Quantity      int              `json:"quantity"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	SalePercents  int              `json:"salePercents"`
	TextualAmount string           `json:"textualAmount"`
	Unit          string           `json:"unit"`
}

// ParseCart maps a check-cart payload onto the domain model. Anything outside
// the known shape is rejected rather than guessed at.
func ParseCart(status int, body []byte) (*domain.Cart, error) {
	invalid := func(reason string) error {
		return &domain.InvalidResponseError{Status: status, Body: string(body), Reason: reason}
	}

	var env cartEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, invalid(err.Error())
	}
	if env.Status == nil || *env.Status != http.StatusOK {
		return nil, invalid("unexpected cart status")
	}
	if env.Data == nil {
		return nil, invalid("missing cart data")
	}
	if env.Data.Items == nil {
		return nil, invalid("missing cart items")
	}

	cart := &domain.Cart{
		ID:                    env.Data.CartID,
		Items:                 make(map[domain.ProductID]domain.CartItem, len(env.Data.Items)),
		TotalPrice:            env.Data.TotalPrice,
		TotalSavings:          env.Data.TotalSavings,
		MinimalOrderPrice:     env.Data.MinimalOrderPrice,
		SubmitConditionPassed: env.Data.SubmitConditionPassed,
	}
	cart.MeetsMinimum = cart.TotalPrice.GreaterThanOrEqual(cart.MinimalOrderPrice)

	for key, raw := range env.Data.Items {
		item, err := parseItem(key, raw)
		if err != nil {
			return nil, invalid(err.Error())
		}
		cart.Items[item.ProductID] = item
	}
	return cart, nil
}

func parseItem(key string, raw cartItemData) (domain.CartItem, error) {
	if raw.ProductID == nil || raw.OrderFieldID == nil {
		return domain.CartItem{}, fmt.Errorf("item %q: missing identifiers", key)
	}
	keyID, err := strconv.ParseInt(key, 10, 64)
	if err != nil || keyID != *raw.ProductID {
		return domain.CartItem{}, fmt.Errorf("item %q: key does not match productId %d", key, *raw.ProductID)
	}
	if raw.Price == nil {
		return domain.CartItem{}, fmt.Errorf("item %q: missing price", key)
	}
	if raw.Quantity < 0 {
		return domain.CartItem{}, fmt.Errorf("item %q: negative quantity", key)
	}
	if raw.SalePercents < 0 || raw.SalePercents > 100 {
		return domain.CartItem{}, fmt.Errorf("item %q: discount %d out of range", key, raw.SalePercents)
	}

	original := *raw.Price
	if raw.OriginalPrice != nil {
		original = *raw.OriginalPrice
	}
	if raw.Price.GreaterThan(original) {
		return domain.CartItem{}, fmt.Errorf("item %q: price above original price", key)
	}
	if raw.SalePercents == 0 {
		original = *raw.Price
	}

	item := domain.CartItem{
		ProductID:       domain.ProductID(*raw.ProductID),
		OrderFieldID:    domain.OrderFieldID(*raw.OrderFieldID),
		Name:            raw.ProductName,
		Quantity:        raw.Quantity,
		UnitPrice:       *raw.Price,
		OriginalPrice:   original,
		DiscountPercent: raw.SalePercents,
		TextualAmount:   raw.TextualAmount,
		Unit:            raw.Unit,
	}
	if raw.Brand != nil {
		item.Brand = *raw.Brand
	}
	return item, nil
}
