package cmd

import (
	"errors"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/ui"
)

var (
	cross = ui.Error.Sprint("✗")
	arrow = ui.Info.Sprint("→")
)

// describeError turns known failures into user-facing messages.
func describeError(err error) (string, bool) {
	switch {
	case errors.Is(err, kerrors.ErrWalletNotFound):
		return cross + " No wallet found\n" +
			arrow + " Run " + ui.Code.Sprint("lumen wallet create") + " first", true
	case errors.Is(err, kerrors.ErrWalletExists):
		return cross + " A wallet already exists in this key store\n" +
			arrow + " Use " + ui.Code.Sprint("lumen wallet rotate") + " to replace its key", true
	case errors.Is(err, kerrors.ErrWrongPassphrase):
		return cross + " Wrong passphrase", true
	case errors.Is(err, kerrors.ErrEmptyPassphrase):
		return cross + " Passphrase must not be empty", true
	case errors.Is(err, kerrors.ErrPassphraseMismatch):
		return cross + " Passphrases do not match", true
	case errors.Is(err, kerrors.ErrCorruptBlob):
		return cross + " The stored wallet record is corrupted\n\n" +
			ui.Error.Sprint("Error: ") + err.Error(), true
	case errors.Is(err, kerrors.ErrStorageUnavailable):
		return cross + " The key store is unavailable\n\n" +
			ui.Error.Sprint("Error: ") + err.Error(), true
	case errors.Is(err, kerrors.ErrUnknownBackend):
		return cross + " " + err.Error() + "\n" +
			arrow + " Set " + ui.Flag.Sprint("wallet.backend") + " to file, keyring, sqlite or memory", true
	case errors.Is(err, kerrors.ErrInvalidCiphertext):
		return cross + " Could not decrypt with the current wallet key\n" +
			arrow + " Files encrypted before the last " + ui.Code.Sprint("lumen wallet rotate") + " cannot be opened", true
	case errors.Is(err, kerrors.ErrNoSecretFiles):
		return cross + " " + err.Error(), true
	case errors.Is(err, kerrors.ErrInvalidSignature):
		return cross + " " + err.Error(), true
	case errors.Is(err, kerrors.ErrLayoutExists):
		return cross + " " + err.Error() + "\n" +
			arrow + " Use " + ui.Flag.Sprint("--force") + " to overwrite it", true
	case errors.Is(err, kerrors.ErrInvalidLayout),
		errors.Is(err, kerrors.ErrMalformedLayout),
		errors.Is(err, kerrors.ErrWidgetNotFound),
		errors.Is(err, kerrors.ErrDuplicateWidget),
		errors.Is(err, kerrors.ErrUnknownBreakpoint):
		return cross + " " + err.Error(), true
	case errors.Is(err, kerrors.ErrInvalidSymbols),
		errors.Is(err, kerrors.ErrUnknownSymbol),
		errors.Is(err, kerrors.ErrInvalidAmount),
		errors.Is(err, kerrors.ErrUnknownProvider),
		errors.Is(err, kerrors.ErrStalePrice),
		errors.Is(err, kerrors.ErrZeroPrice):
		return cross + " " + err.Error(), true
	case errors.Is(err, kerrors.ErrMissingAPIKey):
		return cross + " " + err.Error(), true
	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return cross + " " + err.Error(), true
	case errors.Is(err, kerrors.ErrInvalidSwap),
		errors.Is(err, kerrors.ErrConditionExpired),
		errors.Is(err, kerrors.ErrConditionExhausted),
		errors.Is(err, kerrors.ErrSlippageExceeded):
		return cross + " " + err.Error(), true
	case errors.Is(err, kerrors.ErrConditionNotFound):
		return cross + " " + err.Error() + "\n" +
			arrow + " Run " + ui.Code.Sprint("lumen swap list --all") + " to see condition IDs", true
	case errors.Is(err, kerrors.ErrConditionClosed):
		return cross + " " + err.Error() + "\n" +
			arrow + " Only active conditions can be changed", true
	case errors.Is(err, kerrors.ErrUpstream):
		return cross + " Failed to fetch prices\n\n" +
			ui.Error.Sprint("Error: ") + err.Error(), true
	}
	return "", false
}
