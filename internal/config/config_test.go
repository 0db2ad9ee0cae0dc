package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/senidea")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_SECRET", "admin-secret")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_xyz")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()
	assert.Equal(t, "postgres://localhost/senidea", cfg.DatabaseURL)
	assert.Equal(t, "senidea", cfg.JWTIssuer)
	assert.Equal(t, int64(14400), cfg.AccessTTLSeconds)
	assert.Equal(t, "https://api.paystack.co", cfg.PaystackBaseURL)
	assert.Equal(t, 30, cfg.ReconcileMinutes)
	assert.Empty(t, cfg.CorsOrigins)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ISSUER", "custom")
	t.Setenv("ACCESS_TTL_SECONDS", "60")
	t.Setenv("CORS_ORIGINS", "https://senidea.org, https://admin.senidea.org")

	cfg := Load()
	assert.Equal(t, "custom", cfg.JWTIssuer)
	assert.Equal(t, int64(60), cfg.AccessTTLSeconds)
	assert.Equal(t, []string{"https://senidea.org", "https://admin.senidea.org"}, cfg.CorsOrigins)
}

func TestLoadPanicsOnMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	assert.Panics(t, func() { Load() })
}
