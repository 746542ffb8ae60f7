package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"gurkerl-cli/internal/domain"
)

type ProductWriter interface {
	UpsertProduct(ctx context.Context, product domain.Product) error
}

// CSVImporter reads a grocery catalog export and upserts its products.
//
// Expected columns: productId, name, slug, brand, unit, textualAmount,
// originalPrice, salePrice, unitPrice, currency, stock, imageUrl. Only
// productId, name and originalPrice are required.
type CSVImporter struct {
	reader   *csv.Reader
	products ProductWriter
}

func NewCSVImporter(r io.Reader, products ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr, products: products}
}

// Run imports every row and returns the number of products written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"productId", "name", "originalPrice"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing column %q", required)
		}
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if err := i.products.UpsertProduct(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %d: %w", p.ID, err)
		}
		imported++
	}
	return imported, nil
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	id, err := domain.ParseProductID(pick(record, index, "productId"))
	if err != nil || id <= 0 {
		return domain.Product{}, fmt.Errorf("invalid productId %q", pick(record, index, "productId"))
	}
	name := pick(record, index, "name")
	if name == "" {
		return domain.Product{}, fmt.Errorf("product %d: name required", id)
	}
	original, err := decimal.NewFromString(pick(record, index, "originalPrice"))
	if err != nil || !original.IsPositive() {
		return domain.Product{}, fmt.Errorf("product %d: invalid originalPrice", id)
	}

	p := domain.Product{
		ID:            id,
		Name:          name,
		Slug:          pick(record, index, "slug"),
		Brand:         pick(record, index, "brand"),
		Unit:          pick(record, index, "unit"),
		TextualAmount: pick(record, index, "textualAmount"),
		ImageURL:      pick(record, index, "imageUrl"),
		OriginalPrice: original,
		UnitPrice:     original,
		Currency:      pick(record, index, "currency"),
		Available:     true,
		MaxAmount:     50,
	}
	if p.Slug == "" {
		p.Slug = strings.ReplaceAll(strings.ToLower(name), " ", "-")
	}
	if p.Currency == "" {
		p.Currency = "EUR"
	}
	if s := pick(record, index, "salePrice"); s != "" {
		sale, err := decimal.NewFromString(s)
		if err != nil || sale.GreaterThan(original) || sale.IsNegative() {
			return domain.Product{}, fmt.Errorf("product %d: invalid salePrice %q", id, s)
		}
		p.SalePrice = &sale
	}
	if s := pick(record, index, "unitPrice"); s != "" {
		unit, err := decimal.NewFromString(s)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %d: invalid unitPrice %q", id, s)
		}
		p.UnitPrice = unit
	}
	if s := pick(record, index, "stock"); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil || stock < 0 {
			return domain.Product{}, fmt.Errorf("product %d: invalid stock %q", id, s)
		}
		p.MaxAmount = stock
		p.Available = stock > 0
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
