package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmfavre/facture-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":      "postgres://localhost/factures",
		"REDIS_URL":         "redis://localhost:6379/0",
		"PORT":              "",
		"CATALOG_CACHE_TTL": "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, 8, cfg.SearchResultLimit)
	require.Equal(t, 2, cfg.DisplayDecimalPlaces)
}

func TestLoadRequiredValues(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":             "postgres://localhost/factures",
		"REDIS_URL":                "redis://localhost:6379/0",
		"PORT":                     "9090",
		"SEARCH_RESULT_LIMIT":      "5",
		"SEARCH_RATE_LIMIT_WINDOW": "2s",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, 5, cfg.SearchResultLimit)
	require.Equal(t, 2*time.Second, cfg.SearchRateLimitWindow)
}
