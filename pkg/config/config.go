package config

import (
	"os"
	"strconv"
	"time"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration.
type Config struct {
	Tables  TablesConfig
	Parsing ParsingConfig
	Alias   AliasConfig
	Archive ArchiveConfig
}

// TablesConfig points at the externally supplied data tables. The parsing
// algorithms take these as injected configuration so deployments can
// customize them without code changes. Empty paths fall back to the
// built-in tables.
type TablesConfig struct {
	ClientAliasPath  string
	SenderDenyPath   string
	ArticleCodesPath string
	FixedAddressPath string
	FixedAddressesOn bool
}

// ParsingConfig carries the empirically tuned extraction parameters.
// ColumnXThreshold and DiscountTolerance have no documented derivation in
// the source documents; treat them as calibration knobs for new layouts.
type ParsingConfig struct {
	ColumnXThreshold  float64
	TotalsTolerance   float64
	DiscountTolerance float64
}

// AliasConfig controls the alias snapshot cache and the fuzzy-match
// cutoff of the resolver's last tier.
type AliasConfig struct {
	CacheTTL       time.Duration
	RefreshCron    string
	FuzzyThreshold int
}

// ArchiveConfig controls the parsed-document archive. An empty directory
// disables it.
type ArchiveConfig struct {
	Dir string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Tables: TablesConfig{
			ClientAliasPath:  getEnv("DDTFT_CLIENT_ALIAS_TABLE", ""),
			SenderDenyPath:   getEnv("DDTFT_SENDER_DENYLIST", ""),
			ArticleCodesPath: getEnv("DDTFT_ARTICLE_CODES", ""),
			FixedAddressPath: getEnv("DDTFT_FIXED_ADDRESSES", ""),
			FixedAddressesOn: getEnvAsBool("DDTFT_FIXED_ADDRESSES_ENABLED", false),
		},
		Parsing: ParsingConfig{
			ColumnXThreshold:  getEnvAsFloat("DDTFT_COLUMN_X_THRESHOLD", 290),
			TotalsTolerance:   getEnvAsFloat("DDTFT_TOTALS_TOLERANCE", 0.01),
			DiscountTolerance: getEnvAsFloat("DDTFT_DISCOUNT_TOLERANCE", 0.001),
		},
		Alias: AliasConfig{
			CacheTTL:       getEnvAsDuration("DDTFT_ALIAS_CACHE_TTL", 5*time.Minute),
			RefreshCron:    getEnv("DDTFT_ALIAS_REFRESH_CRON", "*/5 * * * *"),
			FuzzyThreshold: getEnvAsInt("DDTFT_ALIAS_FUZZY_THRESHOLD", 70),
		},
		Archive: ArchiveConfig{
			Dir: getEnv("DDTFT_ARCHIVE_DIR", ""),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
