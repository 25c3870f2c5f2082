package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StockRepo struct{ DB *pgxpool.Pool }

// Apply locks the product row (FOR UPDATE), computes the new level and
// writes it in one transaction.
func (r *StockRepo) Apply(ctx context.Context, m Mutation) (MutationResult, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return MutationResult{}, err
	}
	defer tx.Rollback(ctx)

	var stock int
	if err := tx.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id=$1 FOR UPDATE`, m.ProductID).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MutationResult{}, ErrProductNotFound
		}
		return MutationResult{}, err
	}

	next, err := Apply(m.Method, stock, m.Quantity)
	if err != nil {
		return MutationResult{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id=$1`, m.ProductID, next); err != nil {
		return MutationResult{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return MutationResult{}, err
	}
	return MutationResult{ProductID: m.ProductID, OriginalStock: stock, NewStock: next}, nil
}
