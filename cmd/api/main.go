package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/restaurant-delivery/internal/auth"
	"github.com/ariefcatur/restaurant-delivery/internal/catalog"
	"github.com/ariefcatur/restaurant-delivery/internal/config"
	"github.com/ariefcatur/restaurant-delivery/internal/httpx"
	kafkax "github.com/ariefcatur/restaurant-delivery/internal/kafka"
	"github.com/ariefcatur/restaurant-delivery/internal/logging"
	"github.com/ariefcatur/restaurant-delivery/internal/orders"
	"github.com/ariefcatur/restaurant-delivery/internal/postgres"
	"github.com/ariefcatur/restaurant-delivery/internal/redisx"
)

// backend is everything the handlers need from storage and messaging.
type backend struct {
	dishes    catalog.Repo
	store     orders.Store
	history   catalog.OrderHistory
	revoked   auth.RevocationStore
	events    orders.Events
	closeFunc []func()
}

func (b *backend) close() {
	for i := len(b.closeFunc) - 1; i >= 0; i-- {
		b.closeFunc[i]()
	}
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var b *backend
	if cfg.InMemory() {
		b = memoryBackend(cfg)
	} else {
		b, err = durableBackend(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("backend", zap.Error(err))
		}
	}

	gate := auth.NewGate(auth.NewJWTParser(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience), b.revoked)
	router := httpx.NewRouter(logger)
	h := &httpx.Handler{
		Catalog:   catalog.NewService(b.dishes, b.history, logger),
		Ledger:    orders.NewLedger(b.store, b.dishes, logger),
		Lifecycle: orders.NewLifecycle(b.store, b.events, logger),
		Gate:      gate,
		Logger:    logger,
		Timeout:   cfg.RequestTimeout,
	}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
	b.close()
	cancel()
}

func memoryBackend(cfg config.Config) *backend {
	var dishes *catalog.MemoryRepo
	if cfg.SeedDishes {
		dishes = catalog.NewMemoryRepo(catalog.SampleDishes()...)
	} else {
		dishes = catalog.NewMemoryRepo()
	}
	store := orders.NewMemoryStore()
	return &backend{
		dishes:  dishes,
		store:   store,
		history: store,
		revoked: auth.NewMemoryRevocations(),
		events:  orders.NopEvents{},
	}
}

func durableBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backend, error) {
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := postgres.Migrate(ctx, db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	dishes := &catalog.PGRepo{DB: db}
	if cfg.SeedDishes {
		if err := dishes.Seed(ctx, catalog.SampleDishes()); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed dishes: %w", err)
		}
	}

	rdb := redisx.New(cfg.RedisAddr)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not reachable yet", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	created := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024, logger)
	created.Start(ctx)
	delivered := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderDelivered, 1024, logger)
	delivered.Start(ctx)

	store := &orders.PGStore{DB: db}
	return &backend{
		dishes:  dishes,
		store:   store,
		history: store,
		revoked: redisx.NewRevocationStore(rdb),
		events: &orders.KafkaEvents{
			Created:   created,
			Delivered: delivered,
			Service:   cfg.ServiceName,
			Logger:    logger,
		},
		closeFunc: []func(){
			db.Close,
			func() { _ = rdb.Close() },
			func() {
				created.Close()
				delivered.Close()
				created.WaitClosed()
				delivered.WaitClosed()
			},
		},
	}, nil
}
