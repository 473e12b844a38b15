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

	assert.Equal(t, 290.0, cfg.Parsing.ColumnXThreshold)
	assert.Equal(t, 0.01, cfg.Parsing.TotalsTolerance)
	assert.Equal(t, 0.001, cfg.Parsing.DiscountTolerance)
	assert.Equal(t, 5*time.Minute, cfg.Alias.CacheTTL)
	assert.Equal(t, "*/5 * * * *", cfg.Alias.RefreshCron)
	assert.Equal(t, 70, cfg.Alias.FuzzyThreshold)
	assert.False(t, cfg.Tables.FixedAddressesOn)
	assert.Empty(t, cfg.Archive.Dir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DDTFT_COLUMN_X_THRESHOLD", "305")
	t.Setenv("DDTFT_ALIAS_FUZZY_THRESHOLD", "80")
	t.Setenv("DDTFT_ALIAS_CACHE_TTL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 305.0, cfg.Parsing.ColumnXThreshold)
	assert.Equal(t, 80, cfg.Alias.FuzzyThreshold)
	assert.Equal(t, time.Minute, cfg.Alias.CacheTTL)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DDTFT_ALIAS_FUZZY_THRESHOLD", "high")
	t.Setenv("DDTFT_TOTALS_TOLERANCE", "a lot")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 70, cfg.Alias.FuzzyThreshold)
	assert.Equal(t, 0.01, cfg.Parsing.TotalsTolerance)
}
