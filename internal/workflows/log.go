package workflows

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PolarWolf314/lumen/internal/audit"
	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

const auditTimeLayout = "2006-01-02T15:04:05.000000Z"

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Operations filters by operation name. "layout" matches every
	// layout.* operation.
	Operations []string

	// FailedOnly keeps entries whose outcome is failed.
	FailedOnly bool

	// Since and Until bound entries by date (YYYY-MM-DD), both inclusive.
	Since string
	Until string
}

// LogResult contains the filtered audit log.
type LogResult struct {
	Entries []audit.Entry

	// Total is the number of entries before filtering.
	Total int
}

// Log reads and filters the audit log. A missing log yields no entries.
//
// Returns ErrInvalidDateFormat if Since or Until is not YYYY-MM-DD.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	since, until, err := parseLogDates(opts.Since, opts.Until)
	if err != nil {
		return nil, err
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading audit log %s: %w", audit.LogPath(), err)
	}
	result := &LogResult{Total: len(entries)}

	ops := normaliseOps(opts.Operations)
	var filtered []audit.Entry
	for _, e := range entries {
		if len(ops) > 0 && !matchesOp(e.Operation, ops) {
			continue
		}
		if opts.FailedOnly && e.Outcome != audit.OutcomeFailed {
			continue
		}
		if !since.IsZero() || !until.IsZero() {
			t, ok := parseAuditTime(e.Timestamp)
			if !ok || (!since.IsZero() && t.Before(since)) || (!until.IsZero() && t.After(until)) {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	if opts.Reverse {
		slices.Reverse(filtered)
	}
	// The limit always keeps the most recent entries.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

func parseLogDates(sinceStr, untilStr string) (since, until time.Time, err error) {
	if sinceStr != "" {
		since, err = time.Parse(time.DateOnly, sinceStr)
		if err != nil {
			return since, until, fmt.Errorf("%w: --since %q, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat, sinceStr)
		}
	}
	if untilStr != "" {
		until, err = time.Parse(time.DateOnly, untilStr)
		if err != nil {
			return since, until, fmt.Errorf("%w: --until %q, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat, untilStr)
		}
		until = until.Add(24*time.Hour - time.Nanosecond)
	}
	return since, until, nil
}

func normaliseOps(ops []string) []string {
	var out []string
	for _, op := range ops {
		if op = strings.ToLower(strings.TrimSpace(op)); op != "" {
			out = append(out, op)
		}
	}
	return out
}

func matchesOp(op string, filters []string) bool {
	op = strings.ToLower(op)
	for _, f := range filters {
		if op == f || strings.HasPrefix(op, f+".") {
			return true
		}
	}
	return false
}

func parseAuditTime(ts string) (time.Time, bool) {
	t, err := time.Parse(auditTimeLayout, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err == nil
}

// FormatDateTime renders an audit timestamp as YYYY-MM-DD HH:MM:SS.
func FormatDateTime(ts string) string {
	t, ok := parseAuditTime(ts)
	if !ok {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format(time.DateTime)
}

// FormatDetails summarises the operation-specific fields of an entry.
func FormatDetails(e audit.Entry) string {
	var parts []string
	switch {
	case e.Operation == "rotate" && e.OldKeyID != "":
		parts = append(parts, shortID(e.OldKeyID)+" -> "+shortID(e.KeyID))
	case e.KeyID != "":
		parts = append(parts, shortID(e.KeyID))
	}
	if n := len(e.Files); n > 3 {
		parts = append(parts, fmt.Sprintf("%d files", n))
	} else if n > 0 {
		parts = append(parts, strings.Join(e.Files, ", "))
	}
	if e.WidgetID != "" {
		parts = append(parts, "widget "+e.WidgetID)
	}
	if e.Layout != "" {
		parts = append(parts, e.Layout)
	}
	if e.Condition != "" {
		parts = append(parts, "condition "+shortID(e.Condition))
	}
	if e.Error != "" {
		parts = append(parts, "error: "+e.Error)
	}
	return strings.Join(parts, "  ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
