package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/lumen/internal/configs"
	"github.com/PolarWolf314/lumen/internal/utils"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // OS user running lumen.
	Host      string `json:"host,omitempty"`
	Operation string `json:"op"`   // Operation name.
	Outcome   string `json:"outcome,omitempty"`

	// Optional fields depending on operation.
	KeyID     string   `json:"key_id,omitempty"`     // For create/unlock/sign.
	OldKeyID  string   `json:"old_key_id,omitempty"` // For rotate.
	Backend   string   `json:"backend,omitempty"`    // Key store backend.
	Files     []string `json:"files,omitempty"`      // For encrypt/decrypt.
	Layout    string   `json:"layout,omitempty"`     // For layout edits.
	WidgetID  string   `json:"widget,omitempty"`     // For layout edits.
	Condition string   `json:"condition,omitempty"`  // For swap conditions.
	Error     string   `json:"error,omitempty"`
}

const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// pathOverride redirects the log in tests.
var pathOverride string

// LogPath returns the path to the audit log file.
func LogPath() string {
	if pathOverride != "" {
		return pathOverride
	}
	if configs.LumenSettings == nil {
		return ""
	}
	return configs.AuditLogPath()
}

// Log appends an entry to the audit log.
// If logging fails, it does not return an error.
// Operations should not fail just because audit logging failed.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := LogPath()
	if logPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// LogWithUser starts an entry for op with the user and host filled in.
func LogWithUser(op string) Entry {
	entry := Entry{Operation: op}
	if configs.LumenSettings != nil {
		entry.User = configs.LumenSettings.Username
	}
	if host, err := utils.GetHostname(); err == nil {
		entry.Host = host
	}
	return entry
}

// Record fills in the outcome from err and logs the entry.
func Record(entry Entry, err error) {
	if err != nil {
		entry.Outcome = OutcomeFailed
		entry.Error = err.Error()
	} else {
		entry.Outcome = OutcomeOK
	}
	Log(entry)
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
