// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments
// and capturing output.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/lumen/internal/configs"
	logger "github.com/PolarWolf314/lumen/internal/logging"
)

// testEnv is an isolated config, data directory and working directory.
type testEnv struct {
	ConfigPath string
	WorkDir    string
	Config     *configs.Config
}

// setupTestEnvironment points settings at temp directories, writes a config
// using the file key store with cheap key derivation, and changes into an
// empty working directory.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	originalSettings := *configs.LumenSettings

	root := t.TempDir()
	configs.LumenSettings.ConfigPath = filepath.Join(root, "config")
	configs.LumenSettings.DataPath = filepath.Join(root, "data")
	configs.LumenSettings.Username = "testuser"

	cfg := configs.DefaultConfig()
	cfg.Wallet.Dir = filepath.Join(root, "keys")
	cfg.Wallet.Iterations = 1000
	path := filepath.Join(root, "config", "config.toml")
	if err := configs.SaveConfig(path, cfg); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	workDir := filepath.Join(root, "work")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		t.Fatalf("Failed to create work dir: %v", err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("Failed to change to work dir: %v", err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		*configs.LumenSettings = originalSettings
		resetCommandState()
	})

	return &testEnv{ConfigPath: path, WorkDir: workDir, Config: cfg}
}

// resetCommandState resets all global flag variables between runs.
func resetCommandState() {
	resetFlags(WalletCmd, LayoutCmd, PricesCmd, SwapCmd, ServeCmd, ConfigCmd)
	verbose = false
	debug = false
	configPath = ""
	passphraseStdin = false
	passphraseInput = os.Stdin
	stdinReader = nil
	Logger = logger.Logger{}
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// runCLI executes a lumen command line against env with stdin feeding
// --passphrase-stdin.
func runCLI(t *testing.T, env *testEnv, stdin string, args ...string) (string, error) {
	t.Helper()
	resetCommandState()
	passphraseInput = strings.NewReader(stdin)

	root := &cobra.Command{Use: "lumen", SilenceErrors: true, SilenceUsage: true}
	root.AddCommand(WalletCmd, LayoutCmd, PricesCmd, SwapCmd, ServeCmd, ConfigCmd)
	root.SetArgs(append(args, "--config", env.ConfigPath))

	return captureOutput(root.Execute)
}
