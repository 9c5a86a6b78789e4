package configs

import (
	"fmt"
	"os"
	"time"
)

// Config is the user's config.toml.
type Config struct {
	Wallet WalletConfig `toml:"wallet"`
	Server ServerConfig `toml:"server"`
	Prices PricesConfig `toml:"prices"`
}

// WalletConfig selects the encrypted key store and key derivation cost.
type WalletConfig struct {
	Backend        string `toml:"backend"` // file, keyring, sqlite or memory.
	Record         string `toml:"record"`
	Dir            string `toml:"dir,omitempty"`
	Database       string `toml:"database,omitempty"`
	KeyringService string `toml:"keyring_service,omitempty"`
	Iterations     int    `toml:"iterations"`
	IdleLock       string `toml:"idle_lock,omitempty"`
}

// ServerConfig configures the price proxy server. X-Forwarded-For is only
// honoured for peers listed in TrustedProxies (addresses or CIDRs).
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	AllowedOrigin   string   `toml:"allowed_origin"`
	RateLimit       float64  `toml:"rate_limit"`
	RateBurst       int      `toml:"rate_burst"`
	ShutdownTimeout string   `toml:"shutdown_timeout"`
	TrustedProxies  []string `toml:"trusted_proxies,omitempty"`
}

// PricesConfig configures upstream price providers and caching.
type PricesConfig struct {
	CoinGeckoURL     string `toml:"coingecko_url"`
	CoinMarketCapURL string `toml:"coinmarketcap_url"`
	CoinMarketCapKey string `toml:"coinmarketcap_key,omitempty"`
	CacheTTL         string `toml:"cache_ttl"`
	CacheSize        int    `toml:"cache_size"`
	MaxAge           string `toml:"max_age"`
	Timeout          string `toml:"timeout"`
	RetryMax         int    `toml:"retry_max"`
	DisableFallback  bool   `toml:"disable_fallback,omitempty"`
}

const (
	DefaultRecordName = "lumen-wallet"
	DefaultIterations = 100000
)

// DefaultConfig returns a config with every default applied.
func DefaultConfig() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Wallet.Backend == "" {
		c.Wallet.Backend = "file"
	}
	if c.Wallet.Record == "" {
		c.Wallet.Record = DefaultRecordName
	}
	if c.Wallet.Dir == "" {
		c.Wallet.Dir = KeysPath()
	}
	if c.Wallet.KeyringService == "" {
		c.Wallet.KeyringService = "lumen"
	}
	if c.Wallet.Iterations <= 0 {
		c.Wallet.Iterations = DefaultIterations
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.AllowedOrigin == "" {
		c.Server.AllowedOrigin = "*"
	}
	if c.Server.RateLimit <= 0 {
		c.Server.RateLimit = 5
	}
	if c.Server.RateBurst <= 0 {
		c.Server.RateBurst = 10
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Prices.CoinGeckoURL == "" {
		c.Prices.CoinGeckoURL = "https://api.coingecko.com/api/v3"
	}
	if c.Prices.CoinMarketCapURL == "" {
		c.Prices.CoinMarketCapURL = "https://pro-api.coinmarketcap.com"
	}
	if c.Prices.CacheTTL == "" {
		c.Prices.CacheTTL = "30s"
	}
	if c.Prices.CacheSize <= 0 {
		c.Prices.CacheSize = 256
	}
	if c.Prices.MaxAge == "" {
		c.Prices.MaxAge = "5m"
	}
	if c.Prices.Timeout == "" {
		c.Prices.Timeout = "10s"
	}
	if c.Prices.RetryMax <= 0 {
		c.Prices.RetryMax = 3
	}
}

// Validate checks every duration field parses.
func (c *Config) Validate() error {
	fields := map[string]string{
		"wallet.idle_lock":        c.Wallet.IdleLock,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"prices.cache_ttl":        c.Prices.CacheTTL,
		"prices.max_age":          c.Prices.MaxAge,
		"prices.timeout":          c.Prices.Timeout,
	}
	for name, value := range fields {
		if _, err := ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// ParseDuration parses a duration string, treating "" as zero.
func ParseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", value)
	}
	return d, nil
}

// MustDuration returns the parsed duration of a value already checked by Validate.
func MustDuration(value string) time.Duration {
	d, _ := ParseDuration(value)
	return d
}

// LoadConfig loads config.toml from path, falling back to defaults when the
// file does not exist. The COINMARKETCAP_API_KEY environment variable
// overrides the configured key.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(path, config); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	if key := os.Getenv("COINMARKETCAP_API_KEY"); key != "" {
		config.Prices.CoinMarketCapKey = key
	}

	config.setDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig writes the config to path.
func SaveConfig(path string, config *Config) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
