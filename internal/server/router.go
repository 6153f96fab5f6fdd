package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"shop-orders/internal/database"
	"shop-orders/internal/metrics"
)

type Config struct {
	AllowedOrigin string
	// MetricsHandler serves /metrics; nil means the default Prometheus registry.
	MetricsHandler http.Handler
}

func NewRouter(orders *OrderHandler, db database.Service, logger *zap.Logger, m *metrics.Metrics, cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger), observeDuration(m))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "DELETE", "PUT"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Cache-Control", "Expires", "Pragma"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))

	r.GET("/health", func(c *gin.Context) {
		stats := db.Health(c.Request.Context())
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, stats)
	})

	shop := r.Group("/api/shop/order")
	shop.POST("/create", orders.CreateOrder)
	shop.POST("/capture", orders.CapturePayment)
	shop.GET("/list/:userId", orders.ListOrdersByUser)
	shop.GET("/details/:id", orders.GetOrderDetails)

	return r
}

func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}
}
