package orders

import (
	"time"

	"github.com/ariefcatur/go-fundraising-orders/internal/catalog"
	"github.com/shopspring/decimal"
)

type CollectionMode string

const (
	SelfCollection CollectionMode = "Self-Collection"
	Delivery       CollectionMode = "Delivery"
)

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Order struct {
	ID             string         `json:"id"`
	Status         Status         `json:"status"`
	PaymentMethod  string         `json:"payment_method"`
	CollectionMode CollectionMode `json:"collection_mode"`
	Customer       Customer       `json:"customer"`
	Items          []LineItem     `json:"items"`

	OriginalTotalPrice decimal.Decimal `json:"original_total_price"`
	EnrichedTotalPrice decimal.Decimal `json:"enriched_total_price"`
	PriceDiscrepancy   bool            `json:"price_discrepancy"`

	ReceiptNumber string    `json:"receipt_number,omitempty"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LineItem is one free-text entry of an order. ProductName, Quantity and
// Price are captured at checkout; the rest is filled on every enrichment
// pass and not written back unless a status update carries it.
type LineItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`

	MatchedProductID string            `json:"matched_product_id,omitempty"`
	MatchType        catalog.MatchType `json:"match_type,omitempty"`
	UnitPrice        decimal.Decimal   `json:"unit_price"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
}

// StatusUpdate is the payload sent to the order store when a transition is
// accepted. Items and totals carry the pricing pass for document
// generation downstream.
type StatusUpdate struct {
	OrderID            string          `json:"order_id"`
	NewStatus          Status          `json:"new_status"`
	ReceiptNumber      string          `json:"receipt_number,omitempty"`
	Items              []LineItem      `json:"items"`
	EnrichedTotalPrice decimal.Decimal `json:"enriched_total_price"`
	OriginalTotalPrice decimal.Decimal `json:"original_total_price"`
}
