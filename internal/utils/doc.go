// Package utils provides shared utility functions for lumen.
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//   - GetHostname: returns the system hostname
//
// # I/O Utilities
//
//   - ReadStdin: reads all data from standard input
//   - PassphraseReader: reads newline-separated passphrases from a pipe
//
// # Terminal Utilities
//
//   - ReadPassphrase: prompts without echo on stdin
//   - ReadPassphraseFromTTY: prompts without echo on the controlling terminal
//   - IsTerminal: checks if stdin is a terminal
package utils
