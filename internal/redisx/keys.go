package redisx

import "time"

const (
	// Status change idempotency: idem:order:status:{order_id}:{key} -> "1"
	KeyIdemStatusChange = "idem:order:status:%s:%s"

	// Cached product list: catalog:products -> JSON []catalog.Product
	KeyCatalogProducts = "catalog:products"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLCatalog     = time.Minute
	TTLDedup       = 48 * time.Hour
)
