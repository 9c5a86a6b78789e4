// Package audit provides audit trail logging for lumen wallet operations.
//
// Every operation that touches the wallet key (create, unlock, rotate,
// passwd, encrypt, decrypt, sign) and every layout edit made from the CLI is
// recorded in a per-user audit log, successful or not.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	<data dir>/lumen/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - OS user name
//   - Operation name and outcome
//   - Operation-specific details (key id, files, widget)
//
// Entries never contain passphrases or key material.
//
// # Usage
//
//	entry := audit.LogWithUser("rotate")
//	entry.OldKeyID = oldID
//	audit.Record(entry, err)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
package audit
