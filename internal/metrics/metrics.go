package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	Transitions       *prometheus.CounterVec
	StockMutations    *prometheus.CounterVec
	PriceDiscrepancy  prometheus.Counter
	ItemMatches       *prometheus.CounterVec
	ReceiptsAllocated prometheus.Counter
	AuditEvents       *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orders_status_transitions_total"}, []string{"result"})
	stock := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orders_stock_mutations_total"}, []string{"method", "result"})
	discrepancy := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_price_discrepancies_total"})
	matches := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orders_item_matches_total"}, []string{"match_type"})
	receipts := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_receipts_allocated_total"})
	audit := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "inventory_audit_events_total"}, []string{"result"})

	r.MustRegister(transitions, stock, discrepancy, matches, receipts, audit)
	return &Registry{
		reg:               r,
		Transitions:       transitions,
		StockMutations:    stock,
		PriceDiscrepancy:  discrepancy,
		ItemMatches:       matches,
		ReceiptsAllocated: receipts,
		AuditEvents:       audit,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// The helpers below are safe on a nil *Registry so callers may run unmetered.

func (r *Registry) ObserveTransition(result string) {
	if r != nil {
		r.Transitions.WithLabelValues(result).Inc()
	}
}

func (r *Registry) ObserveStockMutation(method, result string) {
	if r != nil {
		r.StockMutations.WithLabelValues(method, result).Inc()
	}
}

func (r *Registry) ObserveDiscrepancy() {
	if r != nil {
		r.PriceDiscrepancy.Inc()
	}
}

func (r *Registry) ObserveMatch(matchType string) {
	if r != nil {
		r.ItemMatches.WithLabelValues(matchType).Inc()
	}
}

func (r *Registry) ObserveReceipt() {
	if r != nil {
		r.ReceiptsAllocated.Inc()
	}
}

func (r *Registry) ObserveAudit(result string) {
	if r != nil {
		r.AuditEvents.WithLabelValues(result).Inc()
	}
}
