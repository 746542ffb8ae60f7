package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID            ProductID        `json:"productId"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Brand         string           `json:"brand,omitempty"`
	Unit          string           `json:"unit"`
	TextualAmount string           `json:"textualAmount"`
	ImageURL      string           `json:"imageUrl,omitempty"`
	OriginalPrice decimal.Decimal  `json:"originalPrice"`
	SalePrice     *decimal.Decimal `json:"salePrice,omitempty"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	Currency      string           `json:"currency"`
	Available     bool             `json:"available"`
	MaxAmount     int              `json:"maxAvailableAmount"`
}

// Price is the price the customer pays right now.
func (p Product) Price() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.OriginalPrice
}
