package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gurkerl-cli/internal/domain"
)

// Writer receives the demo data.
type Writer interface {
	UpsertProduct(ctx context.Context, product domain.Product) error
	AddOrder(ctx context.Context, email string, order domain.Order) error
	AddShoppingList(ctx context.Context, email string, list domain.ShoppingList) error
}

type productSeed struct {
	ID            domain.ProductID
	Name          string
	Brand         string
	Unit          string
	TextualAmount string
	OriginalPrice string
	SalePrice     string
	UnitPrice     string
	Stock         int
}

var products = []productSeed{
	{ID: 4659, Name: "Bio Vollmilch 3,5%", Brand: "Ja! Natürlich", Unit: "l", TextualAmount: "1 l", OriginalPrice: "1.89", SalePrice: "1.70", UnitPrice: "1.70", Stock: 24},
	{ID: 1207, Name: "Vollkornbrot", Brand: "Felber", Unit: "kg", TextualAmount: "500 g", OriginalPrice: "3.49", UnitPrice: "6.98", Stock: 10},
	{ID: 3310, Name: "Bio Eier Freiland", Brand: "Toni's", Unit: "pcs", TextualAmount: "10 Stk", OriginalPrice: "4.99", UnitPrice: "0.50", Stock: 15},
	{ID: 8801, Name: "Äpfel Gala", Brand: "", Unit: "kg", TextualAmount: "1 kg", OriginalPrice: "2.99", SalePrice: "2.39", UnitPrice: "2.39", Stock: 40},
	{ID: 5120, Name: "Bio Haferdrink", Brand: "Oatly", Unit: "l", TextualAmount: "1 l", OriginalPrice: "2.49", UnitPrice: "2.49", Stock: 18},
	{ID: 6034, Name: "Bergkäse gerieben", Brand: "Schärdinger", Unit: "kg", TextualAmount: "150 g", OriginalPrice: "3.29", UnitPrice: "21.93", Stock: 0},
}

// Apply loads the demo catalog and gives email one past order and one list.
// It is idempotent for products; orders and lists are appended.
func Apply(ctx context.Context, w Writer, email string) error {
	for _, s := range products {
		if err := w.UpsertProduct(ctx, s.product()); err != nil {
			return fmt.Errorf("upsert product %d: %w", s.ID, err)
		}
	}
	if email == "" {
		return nil
	}

	order := domain.Order{
		ID:          "9000001",
		OrderNumber: "G-9000001",
		Date:        time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC),
		Status:      "DELIVERED",
		Items: []domain.OrderItem{
			orderItem(4659, "Bio Vollmilch 3,5%", "l", 2, "1.70"),
			orderItem(1207, "Vollkornbrot", "kg", 1, "3.49"),
		},
	}
	for _, item := range order.Items {
		order.Total = order.Total.Add(item.Subtotal)
	}
	if err := w.AddOrder(ctx, email, order); err != nil {
		return fmt.Errorf("add order: %w", err)
	}

	list := domain.ShoppingList{
		Name: "Wocheneinkauf",
		Type: "GENERAL",
		Products: []domain.ShoppingListProduct{
			{ProductID: 4659, Amount: 2},
			{ProductID: 3310, Amount: 1},
		},
		Actions: []string{"EDIT", "DELETE", "SHARE"},
	}
	if err := w.AddShoppingList(ctx, email, list); err != nil {
		return fmt.Errorf("add shopping list: %w", err)
	}
	return nil
}

func (s productSeed) product() domain.Product {
	p := domain.Product{
		ID:            s.ID,
		Name:          s.Name,
		Slug:          strings.ReplaceAll(strings.ToLower(s.Name), " ", "-"),
		Brand:         s.Brand,
		Unit:          s.Unit,
		TextualAmount: s.TextualAmount,
		OriginalPrice: decimal.RequireFromString(s.OriginalPrice),
		UnitPrice:     decimal.RequireFromString(s.UnitPrice),
		Currency:      "EUR",
		Available:     s.Stock > 0,
		MaxAmount:     s.Stock,
		ImageURL:      fmt.Sprintf("/images/products/%d.jpg", s.ID),
	}
	if s.SalePrice != "" {
		sale := decimal.RequireFromString(s.SalePrice)
		p.SalePrice = &sale
	}
	return p
}

func orderItem(id domain.ProductID, name, unit string, qty int, price string) domain.OrderItem {
	p := decimal.RequireFromString(price)
	return domain.OrderItem{
		ProductID: id,
		Name:      name,
		Quantity:  qty,
		Price:     p,
		Subtotal:  p.Mul(decimal.NewFromInt(int64(qty))),
		Unit:      unit,
	}
}
