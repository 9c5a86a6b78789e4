package workflows

import (
	"context"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/PolarWolf314/lumen/internal/audit"
	"github.com/PolarWolf314/lumen/internal/configs"
	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/keystore"
	"github.com/PolarWolf314/lumen/internal/secrets"
)

// wallet is a manager over an open key store for the length of one command.
type wallet struct {
	cfg     configs.WalletConfig
	store   keystore.Store
	manager *secrets.Manager
}

func openWallet(cfg configs.WalletConfig) (*wallet, error) {
	store, err := keystore.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s key store: %w", backendName(cfg), err)
	}
	idle, err := configs.ParseDuration(cfg.IdleLock)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("wallet.idle_lock: %w", err)
	}
	m := secrets.NewManager(store, secrets.Options{
		Record:      cfg.Record,
		Iterations:  cfg.Iterations,
		IdleTimeout: idle,
	})
	return &wallet{cfg: cfg, store: store, manager: m}, nil
}

// close locks the wallet before releasing the store.
func (w *wallet) close() {
	w.manager.Lock()
	_ = w.store.Close()
}

func (w *wallet) auditEntry(op string) audit.Entry {
	entry := audit.LogWithUser(op)
	entry.Backend = backendName(w.cfg)
	return entry
}

func backendName(cfg configs.WalletConfig) string {
	if cfg.Backend == "" {
		return "file"
	}
	return cfg.Backend
}

// CreateOptions configures the create workflow.
type CreateOptions struct {
	Wallet     configs.WalletConfig
	Passphrase []byte
}

// CreateResult contains the outcome of a create operation.
type CreateResult struct {
	Identity secrets.Identity
	Backend  string
	Record   string
}

// CreateWallet generates a new wallet key and stores it sealed under the
// passphrase.
//
// Returns ErrWalletExists if a record is already stored under the configured name.
func CreateWallet(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	w, err := openWallet(opts.Wallet)
	if err != nil {
		return nil, err
	}
	defer w.close()

	entry := w.auditEntry("create")
	id, err := w.manager.Create(ctx, opts.Passphrase)
	entry.KeyID = id.KeyID
	audit.Record(entry, err)
	if err != nil {
		return nil, err
	}

	return &CreateResult{Identity: id, Backend: backendName(opts.Wallet), Record: opts.Wallet.Record}, nil
}

// StatusOptions configures the status workflow.
type StatusOptions struct {
	Wallet configs.WalletConfig
}

// StatusResult describes the stored wallet without unlocking it.
type StatusResult struct {
	Exists     bool
	Identity   secrets.Identity
	Backend    string
	Record     string
	KDF        string
	Iterations int
}

// WalletStatus reports whether a wallet exists and its public identity.
// A missing wallet is not an error.
func WalletStatus(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	w, err := openWallet(opts.Wallet)
	if err != nil {
		return nil, err
	}
	defer w.close()

	result := &StatusResult{Backend: backendName(opts.Wallet), Record: opts.Wallet.Record}
	exists, err := w.manager.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return result, nil
	}

	data, err := w.store.Get(ctx, opts.Wallet.Record)
	if err != nil {
		return nil, err
	}
	r, err := secrets.ParseRecord(data)
	if err != nil {
		return nil, err
	}

	result.Exists = true
	result.Identity = secrets.Identity{KeyID: r.KeyID, PublicKey: r.PublicKey}
	result.KDF = r.KDF
	result.Iterations = r.Iterations
	return result, nil
}

// UnlockOptions configures the unlock workflow.
type UnlockOptions struct {
	Wallet     configs.WalletConfig
	Passphrase []byte
}

// UnlockResult contains the identity of a successfully unlocked wallet.
type UnlockResult struct {
	Identity secrets.Identity
}

// VerifyUnlock unlocks the wallet to prove the passphrase, then locks it again.
//
// Returns ErrWalletNotFound, ErrWrongPassphrase or ErrCorruptBlob as the
// manager reports them.
func VerifyUnlock(ctx context.Context, opts UnlockOptions) (*UnlockResult, error) {
	w, err := openWallet(opts.Wallet)
	if err != nil {
		return nil, err
	}
	defer w.close()

	entry := w.auditEntry("unlock")
	err = w.manager.Unlock(ctx, opts.Passphrase)
	status := w.manager.Status()
	entry.KeyID = status.KeyID
	audit.Record(entry, err)
	if err != nil {
		return nil, err
	}

	return &UnlockResult{Identity: secrets.Identity{KeyID: status.KeyID, PublicKey: status.PublicKey}}, nil
}

// RotateOptions configures the rotate workflow.
type RotateOptions struct {
	Wallet     configs.WalletConfig
	Passphrase []byte
}

// RotateResult contains the outcome of a rotate operation.
type RotateResult struct {
	OldKeyID string
	Identity secrets.Identity
}

// RotateWallet replaces the wallet key with a fresh one under the same
// passphrase. Files sealed with the old key must be decrypted first.
func RotateWallet(ctx context.Context, opts RotateOptions) (*RotateResult, error) {
	w, err := openWallet(opts.Wallet)
	if err != nil {
		return nil, err
	}
	defer w.close()

	entry := w.auditEntry("rotate")
	if err := w.manager.Unlock(ctx, opts.Passphrase); err != nil {
		audit.Record(entry, err)
		return nil, err
	}
	oldKeyID := w.manager.Status().KeyID
	entry.OldKeyID = oldKeyID

	_, err = w.manager.Rotate(ctx)
	status := w.manager.Status()
	if err == nil {
		entry.KeyID = status.KeyID
	}
	audit.Record(entry, err)
	if err != nil {
		return nil, err
	}

	return &RotateResult{
		OldKeyID: oldKeyID,
		Identity: secrets.Identity{KeyID: status.KeyID, PublicKey: status.PublicKey},
	}, nil
}

// PasswdOptions configures the change-passphrase workflow.
type PasswdOptions struct {
	Wallet        configs.WalletConfig
	OldPassphrase []byte
	NewPassphrase []byte
}

// ChangePassphrase re-seals the wallet key under a new passphrase. The key
// and its identity do not change.
func ChangePassphrase(ctx context.Context, opts PasswdOptions) (*UnlockResult, error) {
	w, err := openWallet(opts.Wallet)
	if err != nil {
		return nil, err
	}
	defer w.close()

	entry := w.auditEntry("passwd")
	err = w.manager.Unlock(ctx, opts.OldPassphrase)
	if err == nil {
		err = w.manager.ChangePassphrase(ctx, opts.OldPassphrase, opts.NewPassphrase)
	}
	status := w.manager.Status()
	entry.KeyID = status.KeyID
	audit.Record(entry, err)
	if err != nil {
		return nil, err
	}

	return &UnlockResult{Identity: secrets.Identity{KeyID: status.KeyID, PublicKey: status.PublicKey}}, nil
}

// SignOptions configures the sign workflow.
type SignOptions struct {
	Wallet     configs.WalletConfig
	Passphrase []byte
	Message    []byte
}

// SignResult carries a base58 signature and the key that made it.
type SignResult struct {
	Identity  secrets.Identity
	Signature string
}

// SignMessage signs Message with the wallet key.
func SignMessage(ctx context.Context, opts SignOptions) (*SignResult, error) {
	w, err := openWallet(opts.Wallet)
	if err != nil {
		return nil, err
	}
	defer w.close()

	entry := w.auditEntry("sign")
	var sig []byte
	err = w.manager.Unlock(ctx, opts.Passphrase)
	if err == nil {
		sig, err = w.manager.Sign(opts.Message)
	}
	status := w.manager.Status()
	entry.KeyID = status.KeyID
	audit.Record(entry, err)
	if err != nil {
		return nil, err
	}

	return &SignResult{
		Identity:  secrets.Identity{KeyID: status.KeyID, PublicKey: status.PublicKey},
		Signature: base58.Encode(sig),
	}, nil
}

// VerifyOptions configures signature verification. No wallet is needed.
type VerifyOptions struct {
	PublicKey string
	Message   []byte
	Signature string
}

// VerifySignature checks a base58 signature against a base58 public key.
func VerifySignature(opts VerifyOptions) (bool, error) {
	sig, err := base58.Decode(opts.Signature)
	if err != nil || len(sig) == 0 {
		return false, fmt.Errorf("%w: not base58", kerrors.ErrInvalidSignature)
	}
	return secrets.Verify(opts.PublicKey, opts.Message, sig)
}
