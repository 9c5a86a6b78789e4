package workflows

import (
	"errors"
	"testing"

	"github.com/PolarWolf314/lumen/internal/audit"
	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

func seedAuditLog(t *testing.T) {
	t.Helper()
	useTempSettings(t)
	for _, e := range []audit.Entry{
		{Timestamp: "2026-01-01T10:00:00.000000Z", User: "alice", Operation: "create", Outcome: audit.OutcomeOK, KeyID: "0123456789abcdef"},
		{Timestamp: "2026-01-02T10:00:00.000000Z", User: "alice", Operation: "unlock", Outcome: audit.OutcomeFailed, Error: "wrong passphrase"},
		{Timestamp: "2026-01-02T11:00:00.000000Z", User: "alice", Operation: "layout.move", Outcome: audit.OutcomeOK, WidgetID: "balance"},
		{Timestamp: "2026-01-03T09:00:00.000000Z", User: "alice", Operation: "layout.hide", Outcome: audit.OutcomeOK, WidgetID: "swap"},
		{Timestamp: "2026-01-04T09:00:00.000000Z", User: "alice", Operation: "rotate", Outcome: audit.OutcomeOK, OldKeyID: "0123456789abcdef", KeyID: "fedcba9876543210"},
	} {
		audit.Log(e)
	}
}

func entryOps(entries []audit.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Operation
	}
	return out
}

func TestLogFilters(t *testing.T) {
	seedAuditLog(t)

	tests := []struct {
		name string
		opts LogOptions
		want []string
	}{
		{name: "all", opts: LogOptions{}, want: []string{"create", "unlock", "layout.move", "layout.hide", "rotate"}},
		{name: "exact op", opts: LogOptions{Operations: []string{"Unlock"}}, want: []string{"unlock"}},
		{name: "op group", opts: LogOptions{Operations: []string{"layout"}}, want: []string{"layout.move", "layout.hide"}},
		{name: "failed only", opts: LogOptions{FailedOnly: true}, want: []string{"unlock"}},
		{name: "date range", opts: LogOptions{Since: "2026-01-02", Until: "2026-01-03"}, want: []string{"unlock", "layout.move", "layout.hide"}},
		{name: "limit keeps latest", opts: LogOptions{Limit: 2}, want: []string{"layout.hide", "rotate"}},
		{name: "reverse with limit", opts: LogOptions{Limit: 2, Reverse: true}, want: []string{"rotate", "layout.hide"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Log(bg(), tt.opts)
			if err != nil {
				t.Fatalf("Log failed: %v", err)
			}
			if result.Total != 5 {
				t.Errorf("Total = %d, want 5", result.Total)
			}
			got := entryOps(result.Entries)
			if len(got) != len(tt.want) {
				t.Fatalf("Got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestLogMissingFile(t *testing.T) {
	useTempSettings(t)

	result, err := Log(bg(), LogOptions{})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if result.Total != 0 || len(result.Entries) != 0 {
		t.Errorf("Expected an empty result, got %+v", result)
	}
}

func TestLogInvalidDate(t *testing.T) {
	useTempSettings(t)

	for _, opts := range []LogOptions{{Since: "01/02/2026"}, {Until: "tomorrow"}} {
		if _, err := Log(bg(), opts); !errors.Is(err, kerrors.ErrInvalidDateFormat) {
			t.Errorf("Log(%+v) = %v, want ErrInvalidDateFormat", opts, err)
		}
	}
}

func TestFormatDetails(t *testing.T) {
	tests := []struct {
		entry audit.Entry
		want  string
	}{
		{audit.Entry{Operation: "rotate", OldKeyID: "0123456789abcdef", KeyID: "fedcba9876543210"}, "01234567 -> fedcba98"},
		{audit.Entry{Operation: "encrypt", Files: []string{"a.env", "b.env"}}, "a.env, b.env"},
		{audit.Entry{Operation: "encrypt", Files: []string{"a", "b", "c", "d"}}, "4 files"},
		{audit.Entry{Operation: "layout.move", WidgetID: "balance", Layout: "dash.toml"}, "widget balance  dash.toml"},
		{audit.Entry{Operation: "unlock", Error: "wrong passphrase"}, "error: wrong passphrase"},
		{audit.Entry{Operation: "swap.cancel", Condition: "c0ffee00-1111"}, "condition c0ffee00"},
	}
	for _, tt := range tests {
		if got := FormatDetails(tt.entry); got != tt.want {
			t.Errorf("FormatDetails(%s) = %q, want %q", tt.entry.Operation, got, tt.want)
		}
	}
	if got := FormatDateTime("2026-01-02T10:00:00.000000Z"); got != "2026-01-02 10:00:00" {
		t.Errorf("FormatDateTime = %q", got)
	}
}
