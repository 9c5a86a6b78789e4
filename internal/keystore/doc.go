// Package keystore persists opaque encrypted wallet records.
//
// A Store maps a record name to bytes. It never sees plaintext key material:
// callers hand it records that are already encrypted. Four backends exist:
//
//   - FileStore: one <name>.json file per record, written atomically with 0600
//   - KeyringStore: the OS keychain through github.com/99designs/keyring
//   - SQLiteStore: a records table in a SQLite database
//   - MemoryStore: process memory, for tests and throwaway sessions
//
// Every backend reports a missing record as errors.ErrRecordNotFound and an
// unreachable store as errors.ErrStorageUnavailable, so callers can tell
// "no wallet yet" from "the disk is gone".
package keystore
