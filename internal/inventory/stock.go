package inventory

import (
	"errors"
	"fmt"

	"github.com/ariefcatur/go-fundraising-orders/internal/orders"
)

var (
	ErrUnknownMethod     = errors.New("inventory: unknown stock method")
	ErrInvalidQuantity   = errors.New("inventory: invalid quantity")
	ErrProductUnresolved = errors.New("inventory: product id could not be resolved")
	ErrProductNotFound   = errors.New("inventory: product not found")
)

// Mutation is the request sent to the catalog service for one product.
type Mutation struct {
	ProductID string             `json:"product_id"`
	Method    orders.StockMethod `json:"method"`
	Quantity  int                `json:"quantity"`
}

type MutationResult struct {
	ProductID     string `json:"product_id"`
	OriginalStock int    `json:"original_stock"`
	NewStock      int    `json:"new_stock"`
}

func ParseMethod(s string) (orders.StockMethod, error) {
	switch m := orders.StockMethod(s); m {
	case orders.StockAdd, orders.StockReduce, orders.StockRestock, orders.StockIncrease:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Apply computes the stock level after applying method with qty to stock.
// reduce floors at zero; restock sets the level outright.
func Apply(method orders.StockMethod, stock, qty int) (int, error) {
	if qty < 0 || (qty == 0 && method != orders.StockRestock) {
		return stock, fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	switch method {
	case orders.StockAdd, orders.StockIncrease:
		return stock + qty, nil
	case orders.StockReduce:
		if qty >= stock {
			return 0, nil
		}
		return stock - qty, nil
	case orders.StockRestock:
		return qty, nil
	}
	return stock, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}
