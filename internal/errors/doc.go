// Package errors provides typed error values for lumen.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The wallet
// UI depends on this: "no wallet found" routes to wallet creation, while
// "wrong passphrase" offers a retry.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Availability: the wallet record or its store (ErrWalletNotFound, ErrStorageUnavailable)
//   - Authentication: passphrase or blob failures (ErrWrongPassphrase, ErrCorruptBlob)
//   - Lifecycle: wrong state for an operation (ErrKeyUnavailable, ErrUnlockInProgress)
//   - Layout: validation failures (ErrMalformedLayout, ErrInvalidLayout)
//   - Price feed: upstream and input problems (ErrInvalidSymbols, ErrUpstream)
//
// # Usage
//
// Return errors from internal packages:
//
//	if len(passphrase) == 0 {
//	    return errors.ErrEmptyPassphrase
//	}
//
// Handle errors in the CLI layer:
//
//	err := workflows.VerifyUnlock(ctx, opts)
//	if errors.Is(err, kerrors.ErrWalletNotFound) {
//	    // Suggest `lumen wallet create`
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading record %s: %w", name, errors.ErrStorageUnavailable)
package errors
