package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShoppingList struct {
	ID       int64                 `json:"id"`
	Name     string                `json:"name"`
	Type     string                `json:"type"`
	Products []ShoppingListProduct `json:"products"`
	UserID   *int64                `json:"userId,omitempty"`
	ReadOnly bool                  `json:"readOnly"`
	Shared   bool                  `json:"shared"`
	Actions  []string              `json:"actions,omitempty"`
}

type ShoppingListProduct struct {
	ProductID ProductID `json:"productId"`
	Amount    int       `json:"amount"`
	Checked   bool      `json:"checked"`
}

type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Date        time.Time       `json:"date"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
	Items       []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ProductID ProductID       `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Unit      string          `json:"unit,omitempty"`
}
