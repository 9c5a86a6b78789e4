package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("COINMARKETCAP_API_KEY", "")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Wallet.Backend != "file" {
		t.Errorf("Expected default backend file, got %q", config.Wallet.Backend)
	}
	if config.Wallet.Record != DefaultRecordName {
		t.Errorf("Expected record %q, got %q", DefaultRecordName, config.Wallet.Record)
	}
	if config.Wallet.Iterations != DefaultIterations {
		t.Errorf("Expected %d iterations, got %d", DefaultIterations, config.Wallet.Iterations)
	}
	if config.Server.Addr != ":8080" {
		t.Errorf("Expected addr :8080, got %q", config.Server.Addr)
	}
	if MustDuration(config.Prices.MaxAge) != 5*time.Minute {
		t.Errorf("Expected max age 5m, got %q", config.Prices.MaxAge)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("COINMARKETCAP_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.toml")

	config := DefaultConfig()
	config.Wallet.Backend = "sqlite"
	config.Wallet.Database = "/tmp/wallet.db"
	config.Wallet.IdleLock = "2m"
	config.Server.RateLimit = 1.5
	config.Prices.DisableFallback = true

	if err := SaveConfig(path, config); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Wallet.Backend != "sqlite" || loaded.Wallet.Database != "/tmp/wallet.db" {
		t.Errorf("Wallet section not round-tripped: %+v", loaded.Wallet)
	}
	if MustDuration(loaded.Wallet.IdleLock) != 2*time.Minute {
		t.Errorf("Expected idle lock 2m, got %q", loaded.Wallet.IdleLock)
	}
	if loaded.Server.RateLimit != 1.5 {
		t.Errorf("Expected rate limit 1.5, got %v", loaded.Server.RateLimit)
	}
	if !loaded.Prices.DisableFallback {
		t.Error("Expected DisableFallback to be true")
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[prices]\ncache_ttl = \"soon\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected error for invalid duration, got nil")
	}
}

func TestLoadConfigAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("COINMARKETCAP_API_KEY", "env-key")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Prices.CoinMarketCapKey != "env-key" {
		t.Errorf("Expected key from environment, got %q", config.Prices.CoinMarketCapKey)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"30s", 30 * time.Second, false},
		{"1h5m", time.Hour + 5*time.Minute, false},
		{"-1s", 0, true},
		{"tomorrow", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSettingsPaths(t *testing.T) {
	original := LumenSettings
	defer func() { LumenSettings = original }()

	LumenSettings = &Settings{ConfigPath: "/cfg", DataPath: "/data", Username: "tester"}

	if got := ConfigFilePath(); got != filepath.Join("/cfg", "config.toml") {
		t.Errorf("ConfigFilePath() = %q", got)
	}
	if got := AuditLogPath(); got != filepath.Join("/data", "audit.jsonl") {
		t.Errorf("AuditLogPath() = %q", got)
	}
	if got := KeysPath(); got != filepath.Join("/data", "keys") {
		t.Errorf("KeysPath() = %q", got)
	}
	if got := SwapsPath(); got != filepath.Join("/data", "swaps.toml") {
		t.Errorf("SwapsPath() = %q", got)
	}
}
