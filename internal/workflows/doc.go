// Package workflows provides high-level orchestration for lumen commands.
//
// Workflows coordinate multiple operations across packages (configs,
// keystore, secrets, grid, dashboard, pricefeed, audit) to implement complete
// user-facing features. Each workflow handles a single command's business
// logic, independent of CLI concerns like flag parsing, spinners, and output
// formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Reads passphrases from the terminal or stdin
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Opening the configured key store
//   - Unlocking the wallet for the length of one operation and locking it again
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Available Workflows
//
// Wallet:
//
//   - CreateWallet, WalletStatus, VerifyUnlock
//   - RotateWallet, ChangePassphrase
//   - EncryptFiles, DecryptFiles
//   - SignMessage, VerifySignature
//
// Layout:
//
//   - InitLayout, ValidateLayout
//   - MoveWidget, ResizeWidget
//   - DragWidget (replays a pointer gesture through the dashboard board)
//
// Prices:
//
//   - Quote, Convert
//   - NewFeeds, NewServer (shared by the serve command)
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	_, err := workflows.VerifyUnlock(ctx, opts)
//	if errors.Is(err, kerrors.ErrWrongPassphrase) {
//	    // Ask again
//	}
//
// # Context Usage
//
// All workflow functions that touch storage or the network accept a
// context.Context as their first parameter.
package workflows
