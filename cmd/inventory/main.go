package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-fundraising-orders/internal/config"
	"github.com/ariefcatur/go-fundraising-orders/internal/inventory"
	kafkax "github.com/ariefcatur/go-fundraising-orders/internal/kafka"
	"github.com/ariefcatur/go-fundraising-orders/internal/logging"
	"github.com/ariefcatur/go-fundraising-orders/internal/metrics"
	"github.com/ariefcatur/go-fundraising-orders/internal/orders"
	"github.com/ariefcatur/go-fundraising-orders/internal/postgres"
	"github.com/ariefcatur/go-fundraising-orders/internal/redisx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	name := cfg.ServiceName + "-inventory"
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, name)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, postgres.PoolOptions{MaxConns: int32(cfg.InventoryWorkers)})
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	reg := metrics.NewRegistry()
	svc := &inventory.Service{
		Store:       &inventory.AuditRepo{DB: db},
		Dedup:       redisx.Guard{Redis: rdb},
		ServiceName: name,
		Log:         log,
		Metrics:     reg,
	}

	metricsSrv := &http.Server{Addr: cfg.InventoryMetricsAddr, Handler: reg.Handler()}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics listen", zap.Error(err))
		}
	}()

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.InventoryGroup, orders.TopicOrderStatusChanged, cfg.InventoryWorkers, log)
	go func() {
		log.Info("stock audit consumer started",
			zap.String("group", cfg.InventoryGroup),
			zap.String("topic", orders.TopicOrderStatusChanged),
			zap.Int("workers", cfg.InventoryWorkers))
		if err := cons.Start(ctx, svc.HandleStatusChanged); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumer")
	cancel()

	ctx2, cancel2 := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel2()
	_ = metricsSrv.Shutdown(ctx2)
}
