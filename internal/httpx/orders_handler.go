package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ariefcatur/go-fundraising-orders/internal/catalog"
	"github.com/ariefcatur/go-fundraising-orders/internal/inventory"
	"github.com/ariefcatur/go-fundraising-orders/internal/orders"
	"github.com/ariefcatur/go-fundraising-orders/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type OrderLister interface {
	ListAll(ctx context.Context) ([]orders.Order, error)
	Search(ctx context.Context, term string) ([]orders.Order, error)
	Get(ctx context.Context, orderID string) (orders.Order, error)
}

type StatusChanger interface {
	ChangeStatus(ctx context.Context, req workflow.ChangeRequest) (workflow.ChangeResult, error)
	Enriched(ctx context.Context, os []orders.Order) []orders.Order
}

type StockAdjuster interface {
	Adjust(ctx context.Context, productID string, method orders.StockMethod, qty int) (inventory.MutationResult, error)
}

type OrdersHandler struct {
	Orders   OrderLister
	Catalog  catalog.Source
	Workflow StatusChanger
	Stock    StockAdjuster
	// OnStockChange runs after a manual adjustment, e.g. to drop caches.
	OnStockChange func(ctx context.Context)
	Log           *zap.Logger
}

type ChangeStatusReq struct {
	Status         string `json:"status"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type ChangeStatusResp struct {
	Order            orders.Order            `json:"order"`
	StockOperations  []orders.StockOperation `json:"stock_operations"`
	ReceiptAllocated bool                    `json:"receipt_allocated"`
}

type RejectedResp struct {
	Error   string          `json:"error"`
	From    orders.Status   `json:"from"`
	To      orders.Status   `json:"to"`
	Allowed []orders.Status `json:"allowed"`
}

type AdjustStockReq struct {
	Method   string `json:"method"`
	Quantity int    `json:"quantity"`
}

type TransitionsResp struct {
	Status  orders.Status   `json:"status"`
	Allowed []orders.Status `json:"allowed"`
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Post("/products/{id}/stock", h.adjustStock)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/transitions", h.getTransitions)
	r.Post("/orders/{id}/status", h.changeStatus)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if ps == nil {
		ps = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var (
		os  []orders.Order
		err error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		os, err = h.Orders.Search(ctx, q)
	} else {
		os, err = h.Orders.ListAll(ctx)
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Workflow.Enriched(ctx, os))
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, ok := h.loadOrder(w, r.WithContext(ctx))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Workflow.Enriched(ctx, []orders.Order{o})[0])
}

func (h *OrdersHandler) getTransitions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, ok := h.loadOrder(w, r.WithContext(ctx))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, TransitionsResp{Status: o.Status, Allowed: orders.AllowedNext(o.Status, o.CollectionMode)})
}

func (h *OrdersHandler) changeStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req ChangeStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	status, ok := orders.ParseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.Workflow.ChangeStatus(ctx, workflow.ChangeRequest{
		OrderID:        orderID,
		Status:         status,
		IdempotencyKey: req.IdempotencyKey,
		TraceID:        middleware.GetReqID(r.Context()),
	})
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "not found")
		return
	case errors.Is(err, workflow.ErrDuplicateRequest):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}

	if res.Rejected() {
		writeJSON(w, http.StatusUnprocessableEntity, RejectedResp{
			Error:   "status transition not allowed",
			From:    res.Decision.From,
			To:      res.Decision.To,
			Allowed: orders.AllowedNext(res.Decision.From, res.Order.CollectionMode),
		})
		return
	}

	ops := res.StockOps
	if ops == nil {
		ops = []orders.StockOperation{}
	}
	writeJSON(w, http.StatusOK, ChangeStatusResp{Order: res.Order, StockOperations: ops, ReceiptAllocated: res.ReceiptAllocated})
}

func (h *OrdersHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	var req AdjustStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	method, err := inventory.ParseMethod(req.Method)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Stock.Adjust(ctx, productID, method, req.Quantity)
	switch {
	case errors.Is(err, inventory.ErrProductNotFound), errors.Is(err, inventory.ErrProductUnresolved):
		writeError(w, http.StatusNotFound, "product not found")
		return
	case errors.Is(err, inventory.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}
	if h.OnStockChange != nil {
		h.OnStockChange(ctx)
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *OrdersHandler) loadOrder(w http.ResponseWriter, r *http.Request) (orders.Order, bool) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return orders.Order{}, false
	}
	o, err := h.Orders.Get(r.Context(), orderID)
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return orders.Order{}, false
	}
	if err != nil {
		h.serverError(w, r, err)
		return orders.Order{}, false
	}
	return o, true
}

func (h *OrdersHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	if h.Log != nil {
		h.Log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}
