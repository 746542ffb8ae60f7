package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"gurkerl-cli/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func euro(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func sortedItems(cart *domain.Cart) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b domain.CartItem) int {
		return strings.Compare(a.Name, b.Name)
	})
	return items
}

func renderCart(w io.Writer, cart *domain.Cart) error {
	if len(cart.Items) == 0 {
		_, err := fmt.Fprintln(w, "Cart is empty")
		return err
	}
	tw := newTable(w, "ID", "PRODUCT", "AMOUNT", "QTY", "PRICE", "SUBTOTAL")
	for _, item := range sortedItems(cart) {
		price := euro(item.UnitPrice)
		if item.HasDiscount() {
			price = fmt.Sprintf("%s (-%d%%, was %s)", price, item.DiscountPercent, euro(item.OriginalPrice))
		}
		name := item.Name
		if item.Brand != "" {
			name = item.Brand + " " + name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			item.ProductID, name, item.TextualAmount, item.Quantity, price, euro(item.Subtotal()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %s", euro(cart.TotalPrice))
	if cart.TotalSavings.IsPositive() {
		fmt.Fprintf(w, " (you save %s)", euro(cart.TotalSavings))
	}
	fmt.Fprintln(w)
	if !cart.MeetsMinimum {
		fmt.Fprintf(w, "Minimum order: %s (%s remaining)\n", euro(cart.MinimalOrderPrice), euro(cart.Remaining()))
	}
	return nil
}

func renderProducts(w io.Writer, products []domain.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products found")
		return err
	}
	tw := newTable(w, "ID", "PRODUCT", "AMOUNT", "PRICE", "STOCK")
	for _, p := range products {
		price := euro(p.Price())
		if p.SalePrice != nil {
			price += " (was " + euro(p.OriginalPrice) + ")"
		}
		stock := "yes"
		if !p.Available {
			stock = "sold out"
		}
		name := p.Name
		if p.Brand != "" {
			name = p.Brand + " " + name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, name, p.TextualAmount, price, stock)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nFound %d products\n", len(products))
	return err
}

func renderLists(w io.Writer, lists []domain.ShoppingList) error {
	if len(lists) == 0 {
		_, err := fmt.Fprintln(w, "No shopping lists found")
		return err
	}
	tw := newTable(w, "ID", "NAME", "TYPE", "ITEMS", "SHARED")
	for _, l := range lists {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", l.ID, l.Name, l.Type, len(l.Products), yesNo(l.Shared))
	}
	return tw.Flush()
}

func renderList(w io.Writer, l *domain.ShoppingList) error {
	fmt.Fprintf(w, "Shopping list: %s\nID: %d\nType: %s\nShared: %s\nRead-only: %s\n",
		l.Name, l.ID, l.Type, yesNo(l.Shared), yesNo(l.ReadOnly))
	if len(l.Products) == 0 {
		_, err := fmt.Fprintln(w, "\nNo products in list")
		return err
	}
	fmt.Fprintf(w, "\nProducts (%d):\n", len(l.Products))
	tw := newTable(w, "PRODUCT ID", "AMOUNT", "CHECKED")
	for _, p := range l.Products {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", p.ProductID, p.Amount, yesNo(p.Checked))
	}
	return tw.Flush()
}

func renderOrders(w io.Writer, orders []domain.Order) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "No orders found")
		return err
	}
	tw := newTable(w, "ORDER", "DATE", "STATUS", "TOTAL")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.OrderNumber, formatDate(o), o.Status, euro(o.Total))
	}
	return tw.Flush()
}

func renderOrder(w io.Writer, o *domain.Order) error {
	fmt.Fprintf(w, "Order %s\nDate: %s\nStatus: %s\nTotal: %s\n", o.OrderNumber, formatDate(*o), o.Status, euro(o.Total))
	if len(o.Items) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw := newTable(w, "ID", "PRODUCT", "QTY", "PRICE", "SUBTOTAL")
	for _, item := range o.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", item.ProductID, item.Name, item.Quantity, euro(item.Price), euro(item.Subtotal))
	}
	return tw.Flush()
}

func formatDate(o domain.Order) string {
	if o.Date.IsZero() {
		return "-"
	}
	return o.Date.Format("2006-01-02 15:04")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
