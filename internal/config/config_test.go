package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "BLUEPRINT_DB_HOST", "RAZORPAY_KEY_ID", "RAZORPAY_SECRET",
		"ORDER_CACHE_TTL", "RECONCILE_INTERVAL", "RECONCILE_AFTER", "REQUIRE_PAYMENT_SIGNATURE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 10*time.Minute, cfg.OrderCacheTTL)
	assert.Equal(t, time.Minute, cfg.ReconcileInterval)
	assert.Equal(t, 30*time.Minute, cfg.ReconcileAfter)
	assert.False(t, cfg.RequirePaymentSignature)
	assert.True(t, cfg.UseMockGateway())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("BLUEPRINT_DB_HOST", "db")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_SECRET", "secret")
	t.Setenv("RECONCILE_INTERVAL", "15s")
	t.Setenv("REQUIRE_PAYMENT_SIGNATURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "db", cfg.DB.Host)
	assert.Equal(t, 15*time.Second, cfg.ReconcileInterval)
	assert.True(t, cfg.RequirePaymentSignature)
	assert.False(t, cfg.UseMockGateway())
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("RECONCILE_AFTER", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "RECONCILE_AFTER")
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("REQUIRE_PAYMENT_SIGNATURE", "maybe")

	_, err := Load()
	assert.ErrorContains(t, err, "REQUIRE_PAYMENT_SIGNATURE")
}

func TestDSN(t *testing.T) {
	db := DB{Host: "h", Port: "5432", Username: "u", Password: "p", Database: "shop", Schema: "public"}
	assert.Equal(t, "postgres://u:p@h:5432/shop?sslmode=disable&search_path=public", db.DSN())
}
