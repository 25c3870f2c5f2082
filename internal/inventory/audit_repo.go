package inventory

import (
	"context"
	"time"

	"github.com/ariefcatur/go-fundraising-orders/internal/orders"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepo struct{ DB *pgxpool.Pool }

// Record inserts one row per operation. (event_id, seq) is unique, so a
// redelivered event is a no-op.
func (r *AuditRepo) Record(ctx context.Context, eventID string, occurredAt time.Time, p orders.StatusChangedPayload) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, op := range p.StockOperations {
		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_audit(event_id, seq, order_id, from_status, to_status, method,
			                        product_id, product_name, quantity, original_stock, new_stock,
			                        applied, error, occurred_at)
			VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),$8,$9,$10,$11,$12,NULLIF($13,''),$14)
			ON CONFLICT (event_id, seq) DO NOTHING
		`, eventID, i, p.OrderID, string(p.From), string(p.To), string(op.Method),
			op.ProductID, op.ProductName, op.Quantity, op.OriginalStock, op.NewStock,
			op.Applied, op.Error, occurredAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
