package fakeshop

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"gurkerl-cli/internal/domain"
)

// money renders as a bare JSON number with two decimals, like the live API.
type money decimal.Decimal

func (m money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

type envelope struct {
	Status   int      `json:"status"`
	Messages []string `json:"messages"`
	Data     any      `json:"data,omitempty"`
}

type cartPayload struct {
	CartID                int64                      `json:"cartId"`
	TotalPrice            money                      `json:"totalPrice"`
	TotalSavings          money                      `json:"totalSavings"`
	MinimalOrderPrice     money                      `json:"minimalOrderPrice"`
	SubmitConditionPassed bool                       `json:"submitConditionPassed"`
	Items                 map[string]cartItemPayload `json:"items"`
}

type cartItemPayload struct {
	ProductID     domain.ProductID    `json:"productId"`
	OrderFieldID  domain.OrderFieldID `json:"orderFieldId"`
	ProductName   string              `json:"productName"`
	Brand         *string             `json:"brand"`
	Quantity      int                 `json:"quantity"`
	Price         money               `json:"price"`
	OriginalPrice money               `json:"originalPrice"`
	SalePercents  int                 `json:"salePercents"`
	TextualAmount string              `json:"textualAmount"`
	Unit          string              `json:"unit"`
	Currency      string              `json:"currency"`
}

func toCartPayload(cart domain.Cart) cartPayload {
	out := cartPayload{
		CartID:                cart.ID,
		TotalPrice:            money(cart.TotalPrice),
		TotalSavings:          money(cart.TotalSavings),
		MinimalOrderPrice:     money(cart.MinimalOrderPrice),
		SubmitConditionPassed: cart.SubmitConditionPassed,
		Items:                 make(map[string]cartItemPayload, len(cart.Items)),
	}
	for id, item := range cart.Items {
		p := cartItemPayload{
			ProductID:     item.ProductID,
			OrderFieldID:  item.OrderFieldID,
			ProductName:   item.Name,
			Quantity:      item.Quantity,
			Price:         money(item.UnitPrice),
			OriginalPrice: money(item.OriginalPrice),
			SalePercents:  item.DiscountPercent,
			TextualAmount: item.TextualAmount,
			Unit:          item.Unit,
			Currency:      "EUR",
		}
		if item.Brand != "" {
			brand := item.Brand
			p.Brand = &brand
		}
		out.Items[id.String()] = p
	}
	return out
}

type productCardPayload struct {
	ProductID     domain.ProductID `json:"productId"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Brand         *string          `json:"brand"`
	Unit          string           `json:"unit"`
	TextualAmount string           `json:"textualAmount"`
	Image         struct {
		Path string `json:"path"`
	} `json:"image"`
	Prices struct {
		OriginalPrice money  `json:"originalPrice"`
		SalePrice     *money `json:"salePrice"`
		UnitPrice     money  `json:"unitPrice"`
		Currency      string `json:"currency"`
	} `json:"prices"`
	Stock struct {
		MaxAvailableAmount int    `json:"maxAvailableAmount"`
		AvailabilityStatus string `json:"availabilityStatus"`
	} `json:"stock"`
}

func toProductCard(p domain.Product) productCardPayload {
	var card productCardPayload
	card.ProductID = p.ID
	card.Name = p.Name
	card.Slug = p.Slug
	card.Unit = p.Unit
	card.TextualAmount = p.TextualAmount
	card.Image.Path = p.ImageURL
	card.Prices.OriginalPrice = money(p.OriginalPrice)
	card.Prices.UnitPrice = money(p.UnitPrice)
	card.Prices.Currency = p.Currency
	if p.SalePrice != nil {
		sale := money(*p.SalePrice)
		card.Prices.SalePrice = &sale
	}
	if p.Brand != "" {
		brand := p.Brand
		card.Brand = &brand
	}
	card.Stock.MaxAvailableAmount = p.MaxAmount
	card.Stock.AvailabilityStatus = "SOLD_OUT"
	if p.Available {
		card.Stock.AvailabilityStatus = "AVAILABLE"
	}
	return card
}

type orderPayload struct {
	ID          string             `json:"id"`
	OrderNumber string             `json:"orderNumber"`
	Date        string             `json:"date"`
	Status      string             `json:"status"`
	Total       money              `json:"total"`
	Items       []orderItemPayload `json:"items,omitempty"`
}

type orderItemPayload struct {
	ProductID domain.ProductID `json:"productId"`
	Name      string           `json:"name"`
	Quantity  int              `json:"quantity"`
	Price     money            `json:"price"`
	Subtotal  money            `json:"subtotal"`
	Unit      string           `json:"unit,omitempty"`
}

func toOrderPayload(o domain.Order, withItems bool) orderPayload {
	out := orderPayload{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Date:        o.Date.UTC().Format(time.RFC3339),
		Status:      o.Status,
		Total:       money(o.Total),
	}
	if !withItems {
		return out
	}
	for _, item := range o.Items {
		out.Items = append(out.Items, orderItemPayload{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     money(item.Price),
			Subtotal:  money(item.Subtotal),
			Unit:      item.Unit,
		})
	}
	return out
}

func parseInt64(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil && v > 0
}
