package workflows

import (
	"errors"
	"testing"

	"github.com/PolarWolf314/lumen/internal/audit"
	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

func TestCreateWallet(t *testing.T) {
	cfg := testWalletConfig(t)

	result, err := CreateWallet(bg(), CreateOptions{Wallet: cfg, Passphrase: []byte("hunter2")})
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}
	if result.Identity.KeyID == "" || result.Identity.PublicKey == "" {
		t.Errorf("Expected identity, got %+v", result.Identity)
	}
	if result.Backend != "file" || result.Record != "test-wallet" {
		t.Errorf("Unexpected result: %+v", result)
	}

	entry := lastAudit(t)
	if entry.Operation != "create" || entry.Outcome != audit.OutcomeOK || entry.KeyID != result.Identity.KeyID {
		t.Errorf("Unexpected audit entry: %+v", entry)
	}

	_, err = CreateWallet(bg(), CreateOptions{Wallet: cfg, Passphrase: []byte("other")})
	if !errors.Is(err, kerrors.ErrWalletExists) {
		t.Errorf("Expected ErrWalletExists on second create, got %v", err)
	}
	if entry := lastAudit(t); entry.Outcome != audit.OutcomeFailed {
		t.Errorf("Expected failed audit entry, got %+v", entry)
	}
}

func TestWalletStatus(t *testing.T) {
	cfg := testWalletConfig(t)

	status, err := WalletStatus(bg(), StatusOptions{Wallet: cfg})
	if err != nil {
		t.Fatalf("WalletStatus failed: %v", err)
	}
	if status.Exists {
		t.Fatal("Expected no wallet before create")
	}

	created, err := CreateWallet(bg(), CreateOptions{Wallet: cfg, Passphrase: []byte("hunter2")})
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}

	status, err = WalletStatus(bg(), StatusOptions{Wallet: cfg})
	if err != nil {
		t.Fatalf("WalletStatus failed: %v", err)
	}
	if !status.Exists || status.Identity != created.Identity {
		t.Errorf("Unexpected status: %+v", status)
	}
	if status.KDF != "pbkdf2-sha256" || status.Iterations != testIterations {
		t.Errorf("Unexpected KDF parameters: %s/%d", status.KDF, status.Iterations)
	}
}

func TestVerifyUnlock(t *testing.T) {
	cfg := testWalletConfig(t)

	_, err := VerifyUnlock(bg(), UnlockOptions{Wallet: cfg, Passphrase: []byte("hunter2")})
	if !errors.Is(err, kerrors.ErrWalletNotFound) {
		t.Fatalf("Expected ErrWalletNotFound, got %v", err)
	}

	created, err := CreateWallet(bg(), CreateOptions{Wallet: cfg, Passphrase: []byte("hunter2")})
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}

	result, err := VerifyUnlock(bg(), UnlockOptions{Wallet: cfg, Passphrase: []byte("hunter2")})
	if err != nil {
		t.Fatalf("VerifyUnlock failed: %v", err)
	}
	if result.Identity != created.Identity {
		t.Errorf("Expected %+v, got %+v", created.Identity, result.Identity)
	}

	_, err = VerifyUnlock(bg(), UnlockOptions{Wallet: cfg, Passphrase: []byte("wrong")})
	if !errors.Is(err, kerrors.ErrWrongPassphrase) {
		t.Errorf("Expected ErrWrongPassphrase, got %v", err)
	}
	entry := lastAudit(t)
	if entry.Operation != "unlock" || entry.Outcome != audit.OutcomeFailed || entry.Error == "" {
		t.Errorf("Unexpected audit entry: %+v", entry)
	}
}

func TestRotateWallet(t *testing.T) {
	cfg := testWalletConfig(t)
	created, err := CreateWallet(bg(), CreateOptions{Wallet: cfg, Passphrase: []byte("hunter2")})
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}

	_, err = RotateWallet(bg(), RotateOptions{Wallet: cfg, Passphrase: []byte("wrong")})
	if !errors.Is(err, kerrors.ErrWrongPassphrase) {
		t.Fatalf("Expected ErrWrongPassphrase, got %v", err)
	}

	result, err := RotateWallet(bg(), RotateOptions{Wallet: cfg, Passphrase: []byte("hunter2")})
	if err != nil {
		t.Fatalf("RotateWallet failed: %v", err)
	}
	if result.OldKeyID != created.Identity.KeyID {
		t.Errorf("Expected old key %s, got %s", created.Identity.KeyID, result.OldKeyID)
	}
	if result.Identity.KeyID == created.Identity.KeyID || result.Identity.PublicKey == created.Identity.PublicKey {
		t.Error("Expected a new key after rotation")
	}

	entry := lastAudit(t)
	if entry.OldKeyID != created.Identity.KeyID || entry.KeyID != result.Identity.KeyID {
		t.Errorf("Unexpected audit entry: %+v", entry)
	}

	// Same passphrase still opens the rotated wallet.
	unlocked, err := VerifyUnlock(bg(), UnlockOptions{Wallet: cfg, Passphrase: []byte("hunter2")})
	if err != nil {
		t.Fatalf("VerifyUnlock after rotate failed: %v", err)
	}
	if unlocked.Identity != result.Identity {
		t.Errorf("Expected rotated identity, got %+v", unlocked.Identity)
	}
}

func TestChangePassphrase(t *testing.T) {
	cfg := testWalletConfig(t)
	created, err := CreateWallet(bg(), CreateOptions{Wallet: cfg, Passphrase: []byte("old")})
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}

	_, err = ChangePassphrase(bg(), PasswdOptions{Wallet: cfg, OldPassphrase: []byte("old"), NewPassphrase: nil})
	if !errors.Is(err, kerrors.ErrEmptyPassphrase) {
		t.Errorf("Expected ErrEmptyPassphrase, got %v", err)
	}

	result, err := ChangePassphrase(bg(), PasswdOptions{Wallet: cfg, OldPassphrase: []byte("old"), NewPassphrase: []byte("new")})
	if err != nil {
		t.Fatalf("ChangePassphrase failed: %v", err)
	}
	if result.Identity != created.Identity {
		t.Error("Changing the passphrase must keep the key")
	}

	if _, err := VerifyUnlock(bg(), UnlockOptions{Wallet: cfg, Passphrase: []byte("old")}); !errors.Is(err, kerrors.ErrWrongPassphrase) {
		t.Errorf("Expected old passphrase to fail, got %v", err)
	}
	if _, err := VerifyUnlock(bg(), UnlockOptions{Wallet: cfg, Passphrase: []byte("new")}); err != nil {
		t.Errorf("Expected new passphrase to work, got %v", err)
	}
}

func TestSignAndVerify(t *testing.T) {
	cfg := testWalletConfig(t)
	if _, err := CreateWallet(bg(), CreateOptions{Wallet: cfg, Passphrase: []byte("hunter2")}); err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}

	msg := []byte("transfer 10 XLM")
	signed, err := SignMessage(bg(), SignOptions{Wallet: cfg, Passphrase: []byte("hunter2"), Message: msg})
	if err != nil {
		t.Fatalf("SignMessage failed: %v", err)
	}

	ok, err := VerifySignature(VerifyOptions{PublicKey: signed.Identity.PublicKey, Message: msg, Signature: signed.Signature})
	if err != nil || !ok {
		t.Errorf("Expected valid signature, got ok=%v err=%v", ok, err)
	}

	ok, err = VerifySignature(VerifyOptions{PublicKey: signed.Identity.PublicKey, Message: []byte("transfer 99 XLM"), Signature: signed.Signature})
	if err != nil || ok {
		t.Errorf("Expected signature mismatch, got ok=%v err=%v", ok, err)
	}

	if _, err := VerifySignature(VerifyOptions{PublicKey: signed.Identity.PublicKey, Message: msg, Signature: "0OIl"}); !errors.Is(err, kerrors.ErrInvalidSignature) {
		t.Errorf("Expected ErrInvalidSignature, got %v", err)
	}

	if _, err := SignMessage(bg(), SignOptions{Wallet: cfg, Passphrase: []byte("wrong"), Message: msg}); !errors.Is(err, kerrors.ErrWrongPassphrase) {
		t.Errorf("Expected ErrWrongPassphrase, got %v", err)
	}
}

func TestUnknownBackend(t *testing.T) {
	cfg := testWalletConfig(t)
	cfg.Backend = "floppy"

	if _, err := WalletStatus(bg(), StatusOptions{Wallet: cfg}); !errors.Is(err, kerrors.ErrUnknownBackend) {
		t.Errorf("Expected ErrUnknownBackend, got %v", err)
	}
}
