package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is the canonical catalog record. It is owned by the catalog
// service and only read here.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Images        []string        `json:"images,omitempty"`
	Categories    []string        `json:"categories,omitempty"`
}

// Source lists the full catalog in its canonical order.
type Source interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// LoadIndex fetches the catalog from src and indexes it.
func LoadIndex(ctx context.Context, src Source) (*Index, error) {
	ps, err := src.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return NewIndex(ps), nil
}
