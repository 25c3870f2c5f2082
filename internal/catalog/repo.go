package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repo struct{ DB *pgxpool.Pool }

// ListProducts returns the catalog ordered by id so that matcher tie-breaks
// are stable between refreshes.
func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, price::text, stock_quantity, images, categories
	                              FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var (
			p     Product
			price string
		)
		if err := rows.Scan(&p.ID, &p.Name, &price, &p.StockQuantity, &p.Images, &p.Categories); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("product %s price %q: %w", p.ID, price, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CachedSource keeps the product list in redis for TTL in front of Next.
// Redis failures degrade to reading Next directly.
type CachedSource struct {
	Next  Source
	Redis *redis.Client
	Key   string
	TTL   time.Duration
	Log   *zap.Logger
}

func (c *CachedSource) ListProducts(ctx context.Context) ([]Product, error) {
	if b, err := c.Redis.Get(ctx, c.Key).Bytes(); err == nil {
		var ps []Product
		if err := json.Unmarshal(b, &ps); err == nil {
			return ps, nil
		}
	} else if err != redis.Nil && c.Log != nil {
		c.Log.Warn("catalog cache read failed", zap.Error(err))
	}

	ps, err := c.Next.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(ps); err == nil {
		if err := c.Redis.Set(ctx, c.Key, b, c.TTL).Err(); err != nil && c.Log != nil {
			c.Log.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return ps, nil
}

// Invalidate drops the cached list, e.g. after a stock change.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	return c.Redis.Del(ctx, c.Key).Err()
}
