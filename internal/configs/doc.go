// Package configs manages lumen's settings and configuration.
//
// # Settings
//
// LumenSettings is initialised at startup from the XDG directories:
//
//   - ConfigPath: ~/.config/lumen (config.toml)
//   - DataPath: ~/.local/share/lumen (wallet records, audit.jsonl)
//
// Tests replace LumenSettings with temporary directories.
//
// # Configuration
//
// config.toml is TOML with three sections:
//
//	[wallet]   key store backend, record name, PBKDF2 iterations, idle lock
//	[server]   price proxy listen address, CORS origin, rate limits
//	[prices]   upstream URLs, API key, cache TTL, maximum price age
//
// Missing fields receive defaults; durations are Go duration strings ("30s").
// Unknown keys are rejected so typos do not silently fall back to defaults.
//
// # TOML Helpers
//
// SaveTOML and LoadTOML are shared with other packages (widget layouts are
// stored as TOML as well).
package configs
