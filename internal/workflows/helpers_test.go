package workflows

import (
	"context"
	"testing"

	"github.com/PolarWolf314/lumen/internal/audit"
	"github.com/PolarWolf314/lumen/internal/configs"
)

const testIterations = 1000

// useTempSettings points the data directory, and with it the audit log, at a
// temp dir for the length of the test.
func useTempSettings(t *testing.T) {
	t.Helper()
	original := *configs.LumenSettings
	configs.LumenSettings.DataPath = t.TempDir()
	configs.LumenSettings.ConfigPath = t.TempDir()
	t.Cleanup(func() { *configs.LumenSettings = original })
}

func testWalletConfig(t *testing.T) configs.WalletConfig {
	t.Helper()
	useTempSettings(t)
	return configs.WalletConfig{
		Backend:    "file",
		Record:     "test-wallet",
		Dir:        t.TempDir(),
		Iterations: testIterations,
	}
}

func auditOps(t *testing.T) []audit.Entry {
	t.Helper()
	entries, err := audit.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	return entries
}

func lastAudit(t *testing.T) audit.Entry {
	t.Helper()
	entries := auditOps(t)
	if len(entries) == 0 {
		t.Fatal("Expected at least one audit entry")
	}
	return entries[len(entries)-1]
}

func bg() context.Context { return context.Background() }
