package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

// StatusChangedPayload feeds document generation (receipts, invoices) and
// the stock audit trail.
type StatusChangedPayload struct {
	OrderID          string           `json:"order_id"`
	From             Status           `json:"from"`
	To               Status           `json:"to"`
	ReceiptNumber    string           `json:"receipt_number,omitempty"`
	ReceiptAllocated bool             `json:"receipt_allocated"`
	StockOperations  []StockOperation `json:"stock_operations"`
	Items            []LineItem       `json:"items"`
	EnrichedTotal    decimal.Decimal  `json:"enriched_total_price"`
	OriginalTotal    decimal.Decimal  `json:"original_total_price"`
}
