package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, DraftBackendRedis, cfg.DraftBackend)
	assert.Equal(t, 720*time.Hour, cfg.DraftTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "PoCat", cfg.Orders.Prefix)
	assert.Equal(t, 5, cfg.Orders.SubmitLimit)
	assert.Empty(t, cfg.Telegram.Token)
}

func TestLoad_NestedPrefixes(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://pocat.de,https://www.pocat.de")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("DRAFT_BACKEND", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "pocat")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "pocat")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ORDER_API_BASE_URL", "https://orders.example.com")
	t.Setenv("ORDER_API_KEY", "key")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, []string{"https://pocat.de", "https://www.pocat.de"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, "https://orders.example.com", cfg.Orders.APIBaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "host=db port=5432 user=pocat password=secret dbname=pocat sslmode=disable", cfg.Database.DSN())
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend":        {"DRAFT_BACKEND": "etcd"},
		"postgres without db":    {"DRAFT_BACKEND": "postgres"},
		"api without key":        {"ORDER_API_BASE_URL": "https://orders.example.com"},
		"negative submit limit":  {"ORDER_SUBMIT_LIMIT": "-1"},
		"non positive draft ttl": {"DRAFT_TTL": "0s"},
		"unparsable redis db":    {"REDIS_DB": "two"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
