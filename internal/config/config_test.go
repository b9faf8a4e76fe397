package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, "0.4", cfg.ProfitRate.String())
	assert.Equal(t, int64(5<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 10, cfg.RateLimit.Capacity)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.TTL)
}

func TestParse_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("PROFIT_RATE", "0.35")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "HS512", cfg.JWTAlgorithm)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL())
	assert.Equal(t, "0.35", cfg.ProfitRate.String())
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.TTL, "TTL is raised to five refill intervals")
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	base, err := Parse()
	require.NoError(t, err)
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"algorithm none", func(c *Config) { c.JWTAlgorithm = "none" }},
		{"asymmetric algorithm", func(c *Config) { c.JWTAlgorithm = "RS256" }},
		{"zero ttl", func(c *Config) { c.JWTExpirationHours = 0 }},
		{"blank secret", func(c *Config) { c.JWTSecret = "   " }},
		{"no upload ceiling", func(c *Config) { c.UploadMaxBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestAllowedOrigins_DeduplicatesInOrder(t *testing.T) {
	cfg := Config{CORSOrigins: []string{" https://joyas.example.com ", "", "http://localhost:5173", "https://joyas.example.com"}}

	got := cfg.AllowedOrigins()

	assert.Equal(t, "http://localhost:5173", got[0])
	assert.Equal(t, "https://joyas.example.com", got[len(got)-1])
	assert.Len(t, got, len(defaultCORSOrigins)+1)
}
