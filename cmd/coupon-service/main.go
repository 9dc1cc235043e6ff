package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Cheertaboi/coupon-catalog-service/internal/api"
	"github.com/Cheertaboi/coupon-catalog-service/internal/api/handlers"
	"github.com/Cheertaboi/coupon-catalog-service/internal/cache"
	"github.com/Cheertaboi/coupon-catalog-service/internal/config"
	"github.com/Cheertaboi/coupon-catalog-service/internal/logger"
	"github.com/Cheertaboi/coupon-catalog-service/internal/repository"
	"github.com/Cheertaboi/coupon-catalog-service/internal/service"
	"github.com/Cheertaboi/coupon-catalog-service/pkg/db"
)

type store interface {
	service.CouponRepo
	handlers.Pinger
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	repo, closeStore, err := openStore(cfg, logr)
	if err != nil {
		logr.Fatalf("open store: %v", err)
	}
	defer closeStore()

	var couponCache *cache.CouponCache
	if cfg.Cache.Enabled && cfg.Cache.TTL > 0 {
		couponCache = cache.NewCouponCache(cfg.Cache.TTL)
	}

	svc := service.NewCouponService(repo, couponCache, logr, service.Options{
		BatchWorkers: cfg.Evaluation.BatchWorkers,
		MaxBatchSize: cfg.Evaluation.MaxBatchSize,
	})

	handler := api.NewRouter(svc, repo, logr, api.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logr.Errorf("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logr.Infow("starting coupon-service", "address", cfg.Server.Address, "store", cfg.Store.Driver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Fatalf("listen: %v", err)
	}

	<-idleConnsClosed
	logr.Info("server stopped")
}

func openStore(cfg *config.Configuration, logr *logger.Logger) (store, func(), error) {
	if cfg.Store.Driver == db.DriverMemory {
		return repository.NewMemoryCouponRepo(), func() {}, nil
	}

	conn, err := db.NewConnection(cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Store.Migrate {
		if err := db.Migrate(context.Background(), conn); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
	}

	closeFn := func() {
		if err := conn.Close(); err != nil {
			logr.Errorf("close db: %v", err)
		}
	}
	return repository.NewCouponRepo(conn, logr), closeFn, nil
}
