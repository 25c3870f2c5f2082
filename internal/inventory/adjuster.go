package inventory

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-fundraising-orders/internal/catalog"
	"github.com/ariefcatur/go-fundraising-orders/internal/logging"
	"github.com/ariefcatur/go-fundraising-orders/internal/metrics"
	"github.com/ariefcatur/go-fundraising-orders/internal/orders"
	"go.uber.org/zap"
)

// MutationService applies one stock mutation at the catalog service.
type MutationService interface {
	Apply(ctx context.Context, m Mutation) (MutationResult, error)
}

// Adjuster executes stock operations one by one. Failures are logged and
// recorded on the operation; they never abort the remaining operations.
type Adjuster struct {
	svc     MutationService
	log     *zap.Logger
	metrics *metrics.Registry
}

func NewAdjuster(svc MutationService, log *zap.Logger, reg *metrics.Registry) *Adjuster {
	return &Adjuster{svc: svc, log: logging.OrNop(log), metrics: reg}
}

// Adjust applies a single manual mutation.
func (a *Adjuster) Adjust(ctx context.Context, productID string, method orders.StockMethod, qty int) (MutationResult, error) {
	if productID == "" {
		return MutationResult{}, ErrProductUnresolved
	}
	if _, err := Apply(method, 0, qty); err != nil {
		return MutationResult{}, err
	}
	res, err := a.svc.Apply(ctx, Mutation{ProductID: productID, Method: method, Quantity: qty})
	if err != nil {
		a.metrics.ObserveStockMutation(string(method), "failed")
		return MutationResult{}, fmt.Errorf("stock %s %s: %w", method, productID, err)
	}
	a.metrics.ObserveStockMutation(string(method), "ok")
	return res, nil
}

// Execute runs ops in order and returns them with the outcome filled in.
// Product ids come from the matched product, else from an exact-name
// lookup in ix; unresolved operations are skipped.
func (a *Adjuster) Execute(ctx context.Context, ix *catalog.Index, orderID string, ops []orders.StockOperation) []orders.StockOperation {
	out := make([]orders.StockOperation, len(ops))
	for i, op := range ops {
		op.ProductID = resolveProductID(ix, op)
		if op.ProductID == "" {
			op.Error = ErrProductUnresolved.Error()
			a.metrics.ObserveStockMutation(string(op.Method), "skipped")
			a.log.Warn("stock operation skipped: no product id",
				zap.String("order_id", orderID),
				zap.String("product_name", op.ProductName),
				zap.String("method", string(op.Method)),
				zap.Int("quantity", op.Quantity))
			out[i] = op
			continue
		}

		res, err := a.svc.Apply(ctx, Mutation{ProductID: op.ProductID, Method: op.Method, Quantity: op.Quantity})
		if err != nil {
			op.Error = err.Error()
			a.metrics.ObserveStockMutation(string(op.Method), "failed")
			a.log.Error("stock mutation failed",
				zap.String("order_id", orderID),
				zap.String("product_id", op.ProductID),
				zap.String("method", string(op.Method)),
				zap.Int("quantity", op.Quantity),
				zap.Error(err))
			out[i] = op
			continue
		}
		op.Applied = true
		op.OriginalStock = res.OriginalStock
		op.NewStock = res.NewStock
		a.metrics.ObserveStockMutation(string(op.Method), "ok")
		out[i] = op
	}
	return out
}

func resolveProductID(ix *catalog.Index, op orders.StockOperation) string {
	if op.ProductID != "" {
		return op.ProductID
	}
	if ix == nil {
		return ""
	}
	if p, ok := ix.Exact(op.ProductName); ok {
		return p.ID
	}
	return ""
}
