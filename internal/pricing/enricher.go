package pricing

import (
	"github.com/ariefcatur/go-fundraising-orders/internal/catalog"
	"github.com/ariefcatur/go-fundraising-orders/internal/logging"
	"github.com/ariefcatur/go-fundraising-orders/internal/metrics"
	"github.com/ariefcatur/go-fundraising-orders/internal/orders"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Tolerance is the largest total difference not reported as a discrepancy.
var Tolerance = decimal.New(1, -2)

// Enricher prices orders against the catalog. It never fails: unmatched
// items fall back to their stored price, then to zero.
type Enricher struct {
	matcher *catalog.Matcher
	log     *zap.Logger
	metrics *metrics.Registry
}

func NewEnricher(m *catalog.Matcher, log *zap.Logger, reg *metrics.Registry) *Enricher {
	if m == nil {
		m = catalog.NewMatcher()
	}
	return &Enricher{matcher: m, log: logging.OrNop(log), metrics: reg}
}

// Item resolves one line item and fills its match and price fields.
func (e *Enricher) Item(ix *catalog.Index, it orders.LineItem) orders.LineItem {
	m := e.matcher.Match(ix, it.ProductName)
	e.metrics.ObserveMatch(string(m.Type))

	it.MatchType = m.Type
	it.MatchedProductID = ""
	unit := decimal.Zero
	if m.Matched() {
		it.MatchedProductID = m.Product.ID
		unit = m.Product.Price
	}
	if !unit.IsPositive() {
		unit = decimal.Zero
		if it.Price.IsPositive() {
			unit = it.Price
		}
	}
	it.UnitPrice = unit
	it.Subtotal = unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
	return it
}

// Order returns a copy of o with every item enriched, the enriched total
// set and the discrepancy flag raised when it differs from the original
// total by more than Tolerance.
func (e *Enricher) Order(ix *catalog.Index, o orders.Order) orders.Order {
	items := make([]orders.LineItem, len(o.Items))
	total := decimal.Zero
	for i, it := range o.Items {
		items[i] = e.Item(ix, it)
		total = total.Add(items[i].Subtotal)
	}
	o.Items = items
	o.EnrichedTotalPrice = total
	o.PriceDiscrepancy = total.Sub(o.OriginalTotalPrice).Abs().GreaterThan(Tolerance)
	if o.PriceDiscrepancy {
		e.metrics.ObserveDiscrepancy()
		e.log.Info("order total differs from catalog pricing",
			zap.String("order_id", o.ID),
			zap.String("original_total", o.OriginalTotalPrice.StringFixed(2)),
			zap.String("enriched_total", total.StringFixed(2)))
	}
	return o
}

func (e *Enricher) Orders(ix *catalog.Index, os []orders.Order) []orders.Order {
	out := make([]orders.Order, len(os))
	for i, o := range os {
		out[i] = e.Order(ix, o)
	}
	return out
}
