package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-fundraising-orders/internal/catalog"
	"github.com/ariefcatur/go-fundraising-orders/internal/config"
	"github.com/ariefcatur/go-fundraising-orders/internal/httpx"
	"github.com/ariefcatur/go-fundraising-orders/internal/inventory"
	kafkax "github.com/ariefcatur/go-fundraising-orders/internal/kafka"
	"github.com/ariefcatur/go-fundraising-orders/internal/logging"
	"github.com/ariefcatur/go-fundraising-orders/internal/metrics"
	"github.com/ariefcatur/go-fundraising-orders/internal/orders"
	"github.com/ariefcatur/go-fundraising-orders/internal/postgres"
	"github.com/ariefcatur/go-fundraising-orders/internal/pricing"
	"github.com/ariefcatur/go-fundraising-orders/internal/redisx"
	"github.com/ariefcatur/go-fundraising-orders/internal/workflow"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, postgres.PoolOptions{})
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatal("db schema", zap.Error(err))
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024, log)
	prod.Start(ctx)

	reg := metrics.NewRegistry()

	orderRepo := &orders.Repo{DB: db}
	products := &catalog.CachedSource{
		Next:  &catalog.Repo{DB: db},
		Redis: rdb,
		Key:   redisx.KeyCatalogProducts,
		TTL:   cfg.CatalogCacheTTL,
		Log:   log,
	}
	adjuster := inventory.NewAdjuster(&inventory.StockRepo{DB: db}, log, reg)
	invalidateCatalog := func(ctx context.Context) {
		if err := products.Invalidate(ctx); err != nil {
			log.Warn("catalog cache invalidate", zap.Error(err))
		}
	}

	ctrl := workflow.NewController(workflow.Deps{
		Orders:         orderRepo,
		Status:         orderRepo,
		Catalog:        products,
		Stock:          adjuster,
		Enricher:       pricing.NewEnricher(catalog.NewMatcher(), log, reg),
		Receipts:       orders.NewReceiptAllocator(nil),
		Events:         prod,
		Idempotency:    redisx.Guard{Redis: rdb},
		IdempotencyTTL: cfg.IdempotencyTTL,
		ServiceName:    cfg.ServiceName,
		Log:            log,
		Metrics:        reg,
		OnStockChange:  invalidateCatalog,
	})

	router := httpx.NewRouter(log)
	router.Handle("/metrics", reg.Handler())
	oh := &httpx.OrdersHandler{
		Orders:        orderRepo,
		Catalog:       products,
		Workflow:      ctrl,
		Stock:         adjuster,
		OnStockChange: invalidateCatalog,
		Log:           log,
	}
	oh.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // flush queued events
	prod.WaitClosed() // drain
	cancel()
}
