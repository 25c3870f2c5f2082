package orders

import "github.com/ariefcatur/go-fundraising-orders/internal/catalog"

type StockMethod string

const (
	StockAdd      StockMethod = "add"
	StockReduce   StockMethod = "reduce"
	StockRestock  StockMethod = "restock"
	StockIncrease StockMethod = "increase"
)

// StockOperation is one stock mutation attempt for one line item.
// ProductID, OriginalStock, NewStock and Applied are only known once the
// operation has been executed.
type StockOperation struct {
	Method        StockMethod `json:"method"`
	ProductName   string      `json:"product_name"`
	ProductID     string      `json:"product_id,omitempty"`
	Quantity      int         `json:"quantity"`
	OriginalStock int         `json:"original_stock"`
	NewStock      int         `json:"new_stock"`
	Applied       bool        `json:"applied"`
	Error         string      `json:"error,omitempty"`
}

// Decision is the pure outcome of asking an order to move to a status.
// A rejected decision carries no effects.
type Decision struct {
	From     Status
	To       Status
	Accepted bool
	Backward bool

	StockOps        []StockOperation
	AllocateReceipt bool
}

// Next is the status the order holds after the decision.
func (d Decision) Next() Status {
	if d.Accepted {
		return d.To
	}
	return d.From
}

// Transition decides whether o may move to target and which side effects
// the move requires. It performs no I/O.
func Transition(o Order, target Status) Decision {
	d := Decision{From: o.Status, To: target}
	if !CanTransition(o.Status, target, o.CollectionMode) {
		return d
	}
	d.Accepted = true
	d.Backward = IsBackward(o.Status, target)

	switch target {
	case StatusPaid:
		d.StockOps = stockOps(o.Items, StockReduce)
		d.AllocateReceipt = o.ReceiptNumber == ""
	case StatusRefunded:
		d.StockOps = stockOps(o.Items, StockIncrease)
	case StatusCancelled:
		// only Paid has reduced stock that is still outstanding
		if o.Status == StatusPaid {
			d.StockOps = stockOps(o.Items, StockIncrease)
		}
	}
	return d
}

func stockOps(items []LineItem, m StockMethod) []StockOperation {
	ops := make([]StockOperation, 0, len(items))
	for _, it := range items {
		ops = append(ops, StockOperation{
			Method:      m,
			ProductName: it.ProductName,
			ProductID:   stockProductID(it),
			Quantity:    it.Quantity,
		})
	}
	return ops
}

// stockProductID carries the matched id only for exact name matches. Fuzzy
// matches leave it empty so the executor resolves the name exactly or
// skips the operation.
func stockProductID(it LineItem) string {
	switch it.MatchType {
	case catalog.MatchExact, catalog.MatchExactNormalized:
		return it.MatchedProductID
	}
	return ""
}
