package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariefcatur/go-fundraising-orders/internal/catalog"
	kafkax "github.com/ariefcatur/go-fundraising-orders/internal/kafka"
	"github.com/ariefcatur/go-fundraising-orders/internal/logging"
	"github.com/ariefcatur/go-fundraising-orders/internal/metrics"
	"github.com/ariefcatur/go-fundraising-orders/internal/orders"
	"github.com/ariefcatur/go-fundraising-orders/internal/pricing"
	"github.com/ariefcatur/go-fundraising-orders/internal/redisx"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrDuplicateRequest = errors.New("status change already requested with this idempotency key")

type OrderStore interface {
	Get(ctx context.Context, orderID string) (orders.Order, error)
	Position(ctx context.Context, orderID string) (int, error)
}

// StatusUpdater persists an accepted status change.
type StatusUpdater interface {
	ApplyStatus(ctx context.Context, u orders.StatusUpdate) error
}

type StockExecutor interface {
	Execute(ctx context.Context, ix *catalog.Index, orderID string, ops []orders.StockOperation) []orders.StockOperation
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Deps struct {
	Orders   OrderStore
	Status   StatusUpdater
	Catalog  catalog.Source
	Stock    StockExecutor
	Enricher *pricing.Enricher
	Receipts orders.ReceiptAllocator

	// Optional.
	Events         Publisher
	Idempotency    Claimer
	IdempotencyTTL time.Duration
	ServiceName    string
	Log            *zap.Logger
	Metrics        *metrics.Registry
	// OnStockChange runs after at least one stock operation was applied.
	OnStockChange  func(ctx context.Context)
}

// Controller drives order status changes: it asks orders.Transition for a
// decision and then performs the resulting calls one after another. There
// is no transaction across the calls; stock failures are logged and left
// in place.
type Controller struct {
	d   Deps
	log *zap.Logger
}

func NewController(d Deps) *Controller {
	if d.Enricher == nil {
		d.Enricher = pricing.NewEnricher(nil, d.Log, d.Metrics)
	}
	if d.IdempotencyTTL <= 0 {
		d.IdempotencyTTL = redisx.TTLIdempotency
	}
	return &Controller{d: d, log: logging.OrNop(d.Log)}
}

type ChangeRequest struct {
	OrderID        string
	Status         orders.Status
	IdempotencyKey string
	TraceID        string
}

type ChangeResult struct {
	Order    orders.Order
	Decision orders.Decision
	// StockOps are the executed operations with their outcome.
	StockOps         []orders.StockOperation
	ReceiptAllocated bool
}

func (r ChangeResult) Rejected() bool { return !r.Decision.Accepted }

// ChangeStatus applies req. A transition outside the status graph is not
// an error: the result is rejected and the order is returned unchanged.
func (c *Controller) ChangeStatus(ctx context.Context, req ChangeRequest) (res ChangeResult, err error) {
	log := c.log.With(zap.String("order_id", req.OrderID), zap.String("to", string(req.Status)))

	if key := strings.TrimSpace(req.IdempotencyKey); key != "" && c.d.Idempotency != nil {
		ikey := fmt.Sprintf(redisx.KeyIdemStatusChange, req.OrderID, key)
		fresh, cerr := c.d.Idempotency.Claim(ctx, ikey, c.d.IdempotencyTTL)
		switch {
		case cerr != nil:
			log.Warn("idempotency guard unavailable", zap.Error(cerr))
		case !fresh:
			return ChangeResult{}, ErrDuplicateRequest
		default:
			defer func() {
				// only a persisted change consumes the key
				if err != nil || res.Rejected() {
					if rerr := c.d.Idempotency.Release(context.WithoutCancel(ctx), ikey); rerr != nil {
						log.Warn("idempotency release failed", zap.Error(rerr))
					}
				}
			}()
		}
	}

	o, err := c.d.Orders.Get(ctx, req.OrderID)
	if err != nil {
		return ChangeResult{}, fmt.Errorf("load order %s: %w", req.OrderID, err)
	}

	ix := c.index(ctx, log)
	o = c.d.Enricher.Order(ix, o)

	dec := orders.Transition(o, req.Status)
	if !dec.Accepted {
		c.d.Metrics.ObserveTransition("rejected")
		log.Info("status transition rejected", zap.String("from", string(o.Status)))
		return ChangeResult{Order: o, Decision: dec}, nil
	}
	if dec.Backward {
		log.Warn("backward status correction", zap.String("from", string(o.Status)))
	}

	receipt := o.ReceiptNumber
	allocated := false
	if dec.AllocateReceipt {
		pos, perr := c.d.Orders.Position(ctx, o.ID)
		if perr != nil {
			log.Error("receipt allocation skipped: order position unavailable", zap.Error(perr))
		} else if n, ok, aerr := c.d.Receipts.Allocate(o, pos); aerr != nil {
			log.Error("receipt allocation skipped", zap.Int("position", pos), zap.Error(aerr))
		} else {
			receipt, allocated = n, ok
		}
	}

	if err := c.d.Status.ApplyStatus(ctx, orders.StatusUpdate{
		OrderID:            o.ID,
		NewStatus:          dec.To,
		ReceiptNumber:      receipt,
		Items:              o.Items,
		EnrichedTotalPrice: o.EnrichedTotalPrice,
		OriginalTotalPrice: o.OriginalTotalPrice,
	}); err != nil {
		c.d.Metrics.ObserveTransition("failed")
		return ChangeResult{}, fmt.Errorf("update status of %s: %w", o.ID, err)
	}
	c.d.Metrics.ObserveTransition("accepted")
	if allocated {
		c.d.Metrics.ObserveReceipt()
		log.Info("receipt number allocated", zap.String("receipt_number", receipt))
	}

	var ops []orders.StockOperation
	if len(dec.StockOps) > 0 {
		ops = c.d.Stock.Execute(ctx, ix, o.ID, dec.StockOps)
		if c.d.OnStockChange != nil && anyApplied(ops) {
			c.d.OnStockChange(ctx)
		}
	}

	o.Status = dec.To
	o.ReceiptNumber = receipt
	log.Info("status changed", zap.String("from", string(dec.From)), zap.Int("stock_operations", len(ops)))

	c.publish(req, o, dec, ops, allocated)
	return ChangeResult{Order: o, Decision: dec, StockOps: ops, ReceiptAllocated: allocated}, nil
}

func anyApplied(ops []orders.StockOperation) bool {
	for _, op := range ops {
		if op.Applied {
			return true
		}
	}
	return false
}

// Enriched loads the catalog and prices os against it. A catalog failure
// degrades to stored prices.
func (c *Controller) Enriched(ctx context.Context, os []orders.Order) []orders.Order {
	return c.d.Enricher.Orders(c.index(ctx, c.log), os)
}

func (c *Controller) index(ctx context.Context, log *zap.Logger) *catalog.Index {
	ix, err := catalog.LoadIndex(ctx, c.d.Catalog)
	if err != nil {
		log.Warn("catalog unavailable, pricing from stored item prices", zap.Error(err))
		return catalog.NewIndex(nil)
	}
	return ix
}

func (c *Controller) publish(req ChangeRequest, o orders.Order, dec orders.Decision, ops []orders.StockOperation, allocated bool) {
	if c.d.Events == nil {
		return
	}
	if ops == nil {
		ops = []orders.StockOperation{}
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      c.d.ServiceName,
		TraceID:       req.TraceID,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.StatusChangedPayload{
			OrderID:          o.ID,
			From:             dec.From,
			To:               dec.To,
			ReceiptNumber:    o.ReceiptNumber,
			ReceiptAllocated: allocated,
			StockOperations:  ops,
			Items:            o.Items,
			EnrichedTotal:    o.EnrichedTotalPrice,
			OriginalTotal:    o.OriginalTotalPrice,
		}),
	}
	c.d.Events.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev), kafkax.EventHeaders(ev.EventType, ev.EventVersion)...)
}
