package inventory

import (
	"context"
	"fmt"
	"time"

	kafkax "github.com/ariefcatur/go-fundraising-orders/internal/kafka"
	"github.com/ariefcatur/go-fundraising-orders/internal/logging"
	"github.com/ariefcatur/go-fundraising-orders/internal/metrics"
	"github.com/ariefcatur/go-fundraising-orders/internal/orders"
	"github.com/ariefcatur/go-fundraising-orders/internal/redisx"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// AuditStore persists the stock operations carried by one status change.
type AuditStore interface {
	Record(ctx context.Context, eventID string, occurredAt time.Time, p orders.StatusChangedPayload) error
}

// Claimer reports whether key was claimed now (true) or earlier (false).
type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Service is the stock audit consumer: one audit row per StockOperation of
// every OrderStatusChanged event, each event processed once.
type Service struct {
	Store       AuditStore
	Dedup       Claimer
	ServiceName string
	Log         *zap.Logger
	Metrics     *metrics.Registry
}

// HandleStatusChanged is installed as the consumer handler.
func (s *Service) HandleStatusChanged(ctx context.Context, m kafkago.Message) error {
	log := logging.OrNop(s.Log)

	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		s.Metrics.ObserveAudit("malformed")
		return err
	}
	if env.EventType != orders.EventOrderStatusChanged {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.StatusChangedPayload](env.Payload)
	if err != nil {
		s.Metrics.ObserveAudit("malformed")
		return err
	}
	if len(p.StockOperations) == 0 {
		s.Metrics.ObserveAudit("empty")
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	fresh, err := s.Dedup.Claim(ctx, dkey, redisx.TTLDedup)
	if err != nil {
		// redis down: the store's unique key still drops duplicates
		log.Warn("dedup unavailable", zap.String("event_id", env.EventID), zap.Error(err))
		fresh = true
	}
	if !fresh {
		s.Metrics.ObserveAudit("duplicate")
		return nil
	}

	if err := s.Store.Record(ctx, env.EventID, env.OccurredAt, p); err != nil {
		if rerr := s.Dedup.Release(context.WithoutCancel(ctx), dkey); rerr != nil {
			log.Warn("dedup release failed", zap.String("event_id", env.EventID), zap.Error(rerr))
		}
		s.Metrics.ObserveAudit("failed")
		return err
	}

	s.Metrics.ObserveAudit("stored")
	log.Info("stock operations audited",
		zap.String("event_id", env.EventID),
		zap.String("order_id", p.OrderID),
		zap.String("from", string(p.From)),
		zap.String("to", string(p.To)),
		zap.Int("operations", len(p.StockOperations)))
	return nil
}
