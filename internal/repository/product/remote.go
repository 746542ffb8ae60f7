package product

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/gateway"
	"gurkerl-cli/internal/logging"
)

const (
	suggestPath = "/services/frontend-service/autocomplete-suggestion"
	cardsPath   = "/api/v1/products/card"
)

type remoteRepo struct {
	exec   gateway.Executor
	logger *slog.Logger
}

// NewRemote builds the catalog repository. exec should be the bare gateway:
// a session token makes the search endpoint return stale results.
func NewRemote(exec gateway.Executor, logger *slog.Logger) Repository {
	if logger == nil {
		logger = logging.Nop()
	}
	return &remoteRepo{exec: exec, logger: logger}
}

type idRef struct {
	ID domain.ProductID `json:"id"`
}

type suggestResponse struct {
	ProductIDs []domain.ProductID `json:"productIds"`
	Products   []idRef            `json:"products"`
	Data       *struct {
		Products []idRef `json:"products"`
	} `json:"data"`
}

func (r *remoteRepo) Suggest(ctx context.Context, query string) ([]domain.ProductID, error) {
	resp, err := r.exec.Execute(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   suggestPath,
		Query:  url.Values{"q": {query}},
	})
	if err != nil {
		return nil, err
	}
	var payload suggestResponse
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	switch {
	case payload.ProductIDs != nil:
		return payload.ProductIDs, nil
	case payload.Products != nil:
		return refIDs(payload.Products), nil
	case payload.Data != nil:
		return refIDs(payload.Data.Products), nil
	default:
		return nil, nil
	}
}

func refIDs(refs []idRef) []domain.ProductID {
	ids := make([]domain.ProductID, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}

type productCard struct {
	ProductID     *domain.ProductID `json:"productId"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Brand         *string           `json:"brand"`
	Unit          string            `json:"unit"`
	TextualAmount string            `json:"textualAmount"`
	Image         struct {
		Path string `json:"path"`
	} `json:"image"`
	Prices *struct {
		OriginalPrice decimal.Decimal  `json:"originalPrice"`
		SalePrice     *decimal.Decimal `json:"salePrice"`
		UnitPrice     decimal.Decimal  `json:"unitPrice"`
		Currency      string           `json:"currency"`
	} `json:"prices"`
	Stock struct {
		MaxAvailableAmount int    `json:"maxAvailableAmount"`
		AvailabilityStatus string `json:"availabilityStatus"`
	} `json:"stock"`
}

func (r *remoteRepo) Cards(ctx context.Context, ids []domain.ProductID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{"categoryType": {"normal"}}
	for _, id := range ids {
		q.Add("products", id.String())
	}
	resp, err := r.exec.Execute(ctx, gateway.Request{Method: http.MethodGet, Path: cardsPath, Query: q})
	if err != nil {
		return nil, err
	}

	raw, err := cardList(resp)
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(raw))
	for _, item := range raw {
		p, err := parseCard(item)
		if err != nil {
			r.logger.Debug("skipping product card", "err", err)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// cardList accepts a bare array or an object with a "products" array.
func cardList(resp *gateway.Response) ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(resp.Body, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Products []json.RawMessage `json:"products"`
	}
	if err := resp.Decode(&wrapped); err != nil {
		return nil, err
	}
	return wrapped.Products, nil
}

func parseCard(raw json.RawMessage) (domain.Product, error) {
	var card productCard
	if err := json.Unmarshal(raw, &card); err != nil {
		return domain.Product{}, err
	}
	if card.ProductID == nil || card.Prices == nil {
		return domain.Product{}, &domain.InvalidResponseError{Status: http.StatusOK, Body: string(raw), Reason: "incomplete product card"}
	}
	p := domain.Product{
		ID:            *card.ProductID,
		Name:          card.Name,
		Slug:          card.Slug,
		Unit:          card.Unit,
		TextualAmount: card.TextualAmount,
		ImageURL:      card.Image.Path,
		OriginalPrice: card.Prices.OriginalPrice,
		SalePrice:     card.Prices.SalePrice,
		UnitPrice:     card.Prices.UnitPrice,
		Currency:      card.Prices.Currency,
		Available:     card.Stock.AvailabilityStatus == "AVAILABLE",
		MaxAmount:     card.Stock.MaxAvailableAmount,
	}
	if p.Currency == "" {
		p.Currency = "EUR"
	}
	if card.Brand != nil {
		p.Brand = *card.Brand
	}
	return p, nil
}
