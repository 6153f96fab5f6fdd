package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DB DB

	RazorpayKeyID  string
	RazorpaySecret string

	RedisAddr     string
	RedisPassword string
	OrderCacheTTL time.Duration

	ClientBaseURL string
	LogLevel      string

	ReconcileInterval       time.Duration
	ReconcileAfter          time.Duration
	RequirePaymentSignature bool
}

type DB struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Schema   string
}

// DSN builds the pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		d.Username, d.Password, d.Host, d.Port, d.Database, d.Schema,
	)
}

// UseMockGateway reports whether no Razorpay credentials are configured.
func (c *Config) UseMockGateway() bool {
	return c.RazorpayKeyID == "" || c.RazorpaySecret == ""
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "5000"),
		DB: DB{
			Host:     getEnv("BLUEPRINT_DB_HOST", "localhost"),
			Port:     getEnv("BLUEPRINT_DB_PORT", "5432"),
			Username: getEnv("BLUEPRINT_DB_USERNAME", "postgres"),
			Password: getEnv("BLUEPRINT_DB_PASSWORD", "postgres"),
			Database: getEnv("BLUEPRINT_DB_DATABASE", "shop"),
			Schema:   getEnv("BLUEPRINT_DB_SCHEMA", "public"),
		},
		RazorpayKeyID:  os.Getenv("RAZORPAY_KEY_ID"),
		RazorpaySecret: os.Getenv("RAZORPAY_SECRET"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		ClientBaseURL:  getEnv("CLIENT_BASE_URL", "http://localhost:5173"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.OrderCacheTTL, err = getDuration("ORDER_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ReconcileInterval, err = getDuration("RECONCILE_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.ReconcileAfter, err = getDuration("RECONCILE_AFTER", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RequirePaymentSignature, err = getBool("REQUIRE_PAYMENT_SIGNATURE", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
