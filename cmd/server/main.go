package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shop-orders/internal/cache"
	"shop-orders/internal/config"
	"shop-orders/internal/database"
	"shop-orders/internal/infrastructure/payment"
	"shop-orders/internal/logging"
	"shop-orders/internal/metrics"
	"shop-orders/internal/repo"
	"shop-orders/internal/server"
	"shop-orders/internal/service"
	"shop-orders/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.DB.DSN())
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	dbService := database.New(db)
	defer dbService.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}
	logger.Info("database migrations completed")

	var gateway payment.PaymentGateway
	if cfg.UseMockGateway() {
		logger.Warn("RAZORPAY_KEY_ID/RAZORPAY_SECRET not set, using in-memory mock gateway")
		gateway = payment.NewMockGateway("mock_secret")
	} else {
		gateway = payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpaySecret)
	}

	orderCache := cache.NewNopCache()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, order cache disabled", zap.Error(err))
		} else {
			orderCache = cache.NewRedisCache(rdb, cfg.OrderCacheTTL)
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	orderRepo := repo.NewOrderRepo(db)
	productRepo := repo.NewProductRepo(db)
	cartRepo := repo.NewCartRepo(db)
	paymentRepo := repo.NewPaymentRepo(db)

	orderService := service.NewOrderService(
		db, orderRepo, productRepo, cartRepo, paymentRepo, gateway, orderCache, logger, m,
		service.Options{RequireSignature: cfg.RequirePaymentSignature},
	)

	reconciler := worker.NewReconciliationWorker(db, paymentRepo, gateway, logger, m,
		cfg.ReconcileInterval, cfg.ReconcileAfter)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		reconciler.Run(ctx)
	}()

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(server.NewOrderHandler(orderService, logger), dbService, logger, m,
		server.Config{AllowedOrigin: cfg.ClientBaseURL})
	srv := server.NewHTTPServer(":"+cfg.Port, router)

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}

	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logger.Warn("reconciliation worker did not stop in time")
	}
	logger.Info("stopped")
}
