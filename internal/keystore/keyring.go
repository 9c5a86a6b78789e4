package keystore

import (
	"context"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// KeyringStore keeps records in the operating system's credential store.
type KeyringStore struct {
	ring keyring.Keyring
}

// OpenKeyring opens the platform keyring for service. fileDir is used by the
// encrypted-file fallback on systems without a keychain or secret service.
func OpenKeyring(service, fileDir string) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		},
		KeychainTrustApplication: true,
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.TerminalPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring %s: %w: %w", service, kerrors.ErrStorageUnavailable, err)
	}
	return NewKeyringStore(ring), nil
}

// NewKeyringStore wraps an already opened keyring.
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

func (k *KeyringStore) Get(_ context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	item, err := k.ring.Get(name)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrRecordNotFound, name)
	}
	if err != nil {
		return nil, unavailable("reading", name, err)
	}
	return item.Data, nil
}

func (k *KeyringStore) Put(_ context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := k.ring.Set(keyring.Item{
		Key:         name,
		Data:        data,
		Label:       "lumen wallet " + name,
		Description: "encrypted wallet key",
	})
	if err != nil {
		return unavailable("writing", name, err)
	}
	return nil
}

func (k *KeyringStore) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := k.ring.Remove(name)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return unavailable("deleting", name, err)
	}
	return nil
}

func (k *KeyringStore) Close() error { return nil }
