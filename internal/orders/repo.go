package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, status, payment_method, collection_mode,
	customer_name, customer_email, customer_phone, customer_address,
	items, total_price::text, COALESCE(receipt_number, ''), COALESCE(invoice_number, ''),
	created_at, updated_at`

// Dataset order. Receipt sequence numbers are positions in this ordering.
const orderBy = ` ORDER BY created_at, id`

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders`+orderBy)
}

// Search matches term against the order id, receipt and invoice numbers
// and customer contact fields, case-insensitively.
func (r *Repo) Search(ctx context.Context, term string) ([]Order, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.ListAll(ctx)
	}
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE id ILIKE $1 OR receipt_number ILIKE $1 OR invoice_number ILIKE $1
		   OR customer_name ILIKE $1 OR customer_email ILIKE $1 OR customer_phone ILIKE $1`+orderBy,
		"%"+term+"%")
}

func (r *Repo) Get(ctx context.Context, orderID string) (Order, error) {
	out, err := r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, orderID)
	if err != nil {
		return Order{}, err
	}
	if len(out) == 0 {
		return Order{}, ErrOrderNotFound
	}
	return out[0], nil
}

// Position is the zero-based index of the order in ListAll.
func (r *Repo) Position(ctx context.Context, orderID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders o, orders t
		WHERE t.id = $1 AND (o.created_at, o.id) < (t.created_at, t.id)`, orderID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ApplyStatus writes the new status and pricing snapshot. A receipt
// number is only stored when the order has none yet.
func (r *Repo) ApplyStatus(ctx context.Context, u StatusUpdate) error {
	items, err := json.Marshal(u.Items)
	if err != nil {
		return err
	}
	var receipt any
	if u.ReceiptNumber != "" {
		receipt = u.ReceiptNumber
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders
		SET status = $2,
		    receipt_number = COALESCE(receipt_number, $3),
		    enriched_items = $4,
		    enriched_total_price = $5::numeric,
		    updated_at = now()
		WHERE id = $1`,
		u.OrderID, string(u.NewStatus), receipt, items, u.EnrichedTotalPrice.String())
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o      Order
		status string
		mode   string
		items  []byte
		total  string
	)
	if err := row.Scan(&o.ID, &status, &o.PaymentMethod, &mode,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address,
		&items, &total, &o.ReceiptNumber, &o.InvoiceNumber,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	o.CollectionMode = CollectionMode(mode)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return Order{}, fmt.Errorf("order %s items: %w", o.ID, err)
		}
	}
	t, err := decimal.NewFromString(total)
	if err != nil {
		return Order{}, fmt.Errorf("order %s total %q: %w", o.ID, total, err)
	}
	o.OriginalTotalPrice = t
	return o, nil
}
