package configs

import (
	"log"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/lumen/internal/utils"
)

type Settings struct {
	ConfigPath string
	DataPath   string
	Username   string
}

var LumenSettings *Settings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		log.Fatalf("error getting username: %s", err)
	}

	LumenSettings = &Settings{
		ConfigPath: filepath.Join(configDir, "lumen"),
		DataPath:   filepath.Join(dataDir, "lumen"),
		Username:   username,
	}
}

// ConfigFilePath returns the path of the user's config.toml.
func ConfigFilePath() string {
	return filepath.Join(LumenSettings.ConfigPath, "config.toml")
}

// AuditLogPath returns the path of the wallet audit log.
func AuditLogPath() string {
	return filepath.Join(LumenSettings.DataPath, "audit.jsonl")
}

// KeysPath returns the directory holding file-backed wallet records.
func KeysPath() string {
	return filepath.Join(LumenSettings.DataPath, "keys")
}

// SwapsPath returns the file holding conditional swap orders.
func SwapsPath() string {
	return filepath.Join(LumenSettings.DataPath, "swaps.toml")
}
