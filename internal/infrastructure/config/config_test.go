package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "inkhouse", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "USD", cfg.Royalty.Currency)
	assert.Equal(t, 4, cfg.Royalty.BatchWorkers)
	assert.Equal(t, 3, cfg.Royalty.DeliveryMaxAttempts)
	assert.False(t, cfg.Email.Enabled)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("INKHOUSE_APP_PORT", "9090")
	t.Setenv("INKHOUSE_ROYALTY_CURRENCY", "GBP")
	t.Setenv("INKHOUSE_DATABASE_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "GBP", cfg.Royalty.Currency)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Name: "inkhouse", Env: "development", Port: "8080"},
		Database: DatabaseConfig{Host: "localhost", Port: 5432},
		Royalty: RoyaltyConfig{
			Currency:            "USD",
			BatchWorkers:        4,
			StageTimeout:        2 * time.Minute,
			DeliveryMaxAttempts: 3,
			DeliveryBaseDelay:   time.Second,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"missing app port", func(c *Config) { c.App.Port = "" }, true},
		{"database port out of range", func(c *Config) { c.Database.Port = 70000 }, true},
		{"production requires jwt secret", func(c *Config) { c.App.Env = "production" }, true},
		{"production with jwt secret", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = "s3cret"
		}, false},
		{"unsupported currency code", func(c *Config) { c.Royalty.Currency = "XXX" }, true},
		{"zero batch workers", func(c *Config) { c.Royalty.BatchWorkers = 0 }, true},
		{"zero stage timeout", func(c *Config) { c.Royalty.StageTimeout = 0 }, true},
		{"zero delivery attempts", func(c *Config) { c.Royalty.DeliveryMaxAttempts = 0 }, true},
		{"email enabled without host", func(c *Config) {
			c.Email.Enabled = true
			c.Email.Host = ""
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	dsn := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres", Password: "pw",
		DBName: "inkhouse", SSLMode: "disable",
	}.DSN()
	assert.Equal(t, "host=localhost port=5432 user=postgres password=pw dbname=inkhouse sslmode=disable", dsn)
}
