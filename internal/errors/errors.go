package errors

import "errors"

// Wallet availability errors indicate the wallet record or its store cannot be used.
var (
	// ErrWalletNotFound indicates no wallet record exists in the key store.
	ErrWalletNotFound = errors.New("no wallet found")

	// ErrWalletExists indicates a wallet record already exists in the key store.
	ErrWalletExists = errors.New("wallet already exists")

	// ErrStorageUnavailable indicates the underlying key store could not be accessed.
	ErrStorageUnavailable = errors.New("key store unavailable")

	// ErrRecordNotFound indicates the key store holds no record under the requested name.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnknownBackend indicates the configured key store backend is not supported.
	ErrUnknownBackend = errors.New("unknown key store backend")

	// ErrInvalidRecordName indicates a record name contains characters a store cannot hold.
	ErrInvalidRecordName = errors.New("invalid record name")
)

// Authentication errors indicate the passphrase or stored ciphertext did not authenticate.
var (
	// ErrWrongPassphrase indicates the passphrase failed to authenticate the wallet blob.
	ErrWrongPassphrase = errors.New("wrong passphrase")

	// ErrCorruptBlob indicates the stored wallet record could not be parsed.
	ErrCorruptBlob = errors.New("wallet record is corrupted")

	// ErrEmptyPassphrase indicates an empty passphrase was supplied.
	ErrEmptyPassphrase = errors.New("passphrase must not be empty")

	// ErrPassphraseMismatch indicates a new passphrase and its confirmation differ.
	ErrPassphraseMismatch = errors.New("passphrases do not match")
)

// Lifecycle errors indicate an operation was attempted in the wrong lifecycle state.
var (
	// ErrKeyUnavailable indicates key material is not loaded because the wallet is locked.
	ErrKeyUnavailable = errors.New("key material unavailable: wallet is locked")

	// ErrUnlockInProgress indicates another unlock attempt is still running.
	ErrUnlockInProgress = errors.New("unlock already in progress")

	// ErrUnlockInterrupted indicates the wallet was locked while an unlock was running.
	ErrUnlockInterrupted = errors.New("unlock interrupted by lock")

	// ErrInvalidCiphertext indicates a payload could not be opened with the current key.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// ErrNoSecretFiles indicates no files matched for encryption or decryption.
	ErrNoSecretFiles = errors.New("no secret files found")

	// ErrInvalidSignature indicates a signature could not be decoded.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Layout errors indicate a widget layout or edit is not acceptable.
var (
	// ErrMalformedLayout indicates the grid or widget list is missing or structurally invalid.
	ErrMalformedLayout = errors.New("malformed layout")

	// ErrInvalidLayout indicates a layout violates grid bounds or contains overlapping widgets.
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrWidgetNotFound indicates no widget with the requested ID exists.
	ErrWidgetNotFound = errors.New("widget not found")

	// ErrDuplicateWidget indicates a widget with the same ID is already placed.
	ErrDuplicateWidget = errors.New("duplicate widget id")

	// ErrUnknownBreakpoint indicates the breakpoint name is not mobile, tablet or desktop.
	ErrUnknownBreakpoint = errors.New("unknown breakpoint")

	// ErrLayoutExists indicates a layout file is already present at the target path.
	ErrLayoutExists = errors.New("layout file already exists")

	// ErrGestureActive indicates a drag or resize is already in progress.
	ErrGestureActive = errors.New("gesture already in progress")
)

// Price feed errors indicate problems fetching or using third-party prices.
var (
	// ErrInvalidSymbols indicates the symbol list is missing or malformed.
	ErrInvalidSymbols = errors.New("invalid symbols parameter")

	// ErrUnknownSymbol indicates the provider does not support a requested symbol.
	ErrUnknownSymbol = errors.New("unsupported symbol")

	// ErrUpstream indicates the upstream price API failed.
	ErrUpstream = errors.New("failed to fetch prices")

	// ErrStalePrice indicates a quote is older than the configured maximum age.
	ErrStalePrice = errors.New("price data too old")

	// ErrZeroPrice indicates a quote carried a zero price.
	ErrZeroPrice = errors.New("zero price")

	// ErrInvalidAmount indicates a conversion amount could not be parsed or is negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownProvider indicates the price provider name is not coingecko or coinmarketcap.
	ErrUnknownProvider = errors.New("unknown price provider")

	// ErrMissingAPIKey indicates a provider that needs an API key has none configured.
	ErrMissingAPIKey = errors.New("price provider API key not configured")
)

// Audit log errors indicate the audit log cannot be queried as asked.
var (
	// ErrInvalidDateFormat indicates a --since or --until date is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// Swap condition errors indicate a conditional swap cannot be created or used.
var (
	// ErrInvalidSwap indicates a swap request failed validation.
	ErrInvalidSwap = errors.New("invalid swap condition")

	// ErrConditionNotFound indicates no swap condition matches the requested ID.
	ErrConditionNotFound = errors.New("swap condition not found")

	// ErrConditionExpired indicates a swap condition is past its expiry time.
	ErrConditionExpired = errors.New("swap condition expired")

	// ErrConditionExhausted indicates a swap condition reached its execution limit.
	ErrConditionExhausted = errors.New("swap condition execution limit reached")

	// ErrConditionClosed indicates a swap condition was cancelled or failed.
	ErrConditionClosed = errors.New("swap condition is closed")

	// ErrSlippageExceeded indicates an execution lost more than the allowed slippage.
	ErrSlippageExceeded = errors.New("slippage exceeds the allowed maximum")
)
