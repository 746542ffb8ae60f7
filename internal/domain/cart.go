package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// ProductID identifies a catalog entry. Carts key their items by it.
type ProductID int64

// OrderFieldID identifies a line item inside a cart. The mutation endpoint
// only accepts this identifier.
type OrderFieldID int64

func (id ProductID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id OrderFieldID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseProductID parses a decimal product identifier as typed on the command line.
func ParseProductID(s string) (ProductID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ProductID(v), nil
}

type Cart struct {
	ID                    int64                  `json:"cartId"`
	Items                 map[ProductID]CartItem `json:"items"`
	TotalPrice            decimal.Decimal        `json:"totalPrice"`
	TotalSavings          decimal.Decimal        `json:"totalSavings"`
	MinimalOrderPrice     decimal.Decimal        `json:"minimalOrderPrice"`
	MeetsMinimum          bool                   `json:"meetsMinimum"`
	SubmitConditionPassed bool                   `json:"submitConditionPassed"`
}

type CartItem struct {
	ProductID       ProductID       `json:"productId"`
	OrderFieldID    OrderFieldID    `json:"orderFieldId"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	DiscountPercent int             `json:"discountPercent"`
	TextualAmount   string          `json:"textualAmount,omitempty"`
	Unit            string          `json:"unit,omitempty"`
}

// Subtotal is the line total as displayed; it is never summed into the cart total.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// HasDiscount reports whether the line is sold below its original price.
func (i CartItem) HasDiscount() bool {
	return i.DiscountPercent > 0
}

// Item looks up a line item by product.
func (c *Cart) Item(id ProductID) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	item, ok := c.Items[id]
	return item, ok
}

// Remaining is how much is missing to reach the minimal order price.
func (c *Cart) Remaining() decimal.Decimal {
	if c.MeetsMinimum {
		return decimal.Zero
	}
	return c.MinimalOrderPrice.Sub(c.TotalPrice)
}
