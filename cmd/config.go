package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/configs"
	"github.com/PolarWolf314/lumen/internal/ui"
)

var (
	configInitForce      bool
	configInitBackend    string
	configInitIterations int
	configShowJSON       bool
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lumen configuration",
	Long: `Creates and displays config.toml.

The file has three sections:
  [wallet]  key store backend, record name, PBKDF2 iterations
  [server]  listen address, CORS origin, rate limits
  [prices]  upstream URLs, cache and staleness settings

The COINMARKETCAP_API_KEY environment variable overrides prices.coinmarketcap_key.`,
}

func init() {
	addCommonFlags(ConfigCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configInitCmd.Flags().StringVar(&configInitBackend, "backend", "file", "wallet key store (file, keyring, sqlite, memory)")
	configInitCmd.Flags().IntVar(&configInitIterations, "iterations", configs.DefaultIterations, "PBKDF2 iterations for new wallet records")
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

func currentConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return configs.ConfigFilePath()
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")
		path := currentConfigPath()

		if _, err := os.Stat(path); err == nil && !configInitForce {
			fmt.Println(ui.Warning.Sprint("⚠") + " Config already exists at " + ui.Path.Sprint(path))
			fmt.Println(ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--force") + " to overwrite it")
			return nil
		}

		cfg := configs.DefaultConfig()
		cfg.Wallet.Backend = configInitBackend
		cfg.Wallet.Iterations = configInitIterations
		if cfg.Wallet.Backend == "sqlite" && cfg.Wallet.Database == "" {
			cfg.Wallet.Database = filepath.Join(configs.LumenSettings.DataPath, "wallet.db")
		}
		if err := cfg.Validate(); err != nil {
			return Logger.ErrorfAndReturn("Invalid config: %v", err)
		}

		Logger.Debugf("Writing config to %s", path)
		if err := configs.SaveConfig(path, cfg); err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		fmt.Println(ui.Success.Sprint("✓") + " Wrote " + ui.Path.Sprint(path))
		fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("lumen wallet create") + " to create your wallet")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Displays config.toml with defaults and environment overrides applied.
The CoinMarketCap API key is masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		cfg, err := loadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}
		if cfg.Prices.CoinMarketCapKey != "" {
			cfg.Prices.CoinMarketCapKey = "********"
		}

		if configShowJSON {
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Println(ui.Info.Sprint("Configuration") + " " + ui.Muted.Sprint(currentConfigPath()))
		fmt.Println()
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}
