package keystore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/PolarWolf314/lumen/internal/configs"
	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// Store holds named encrypted records.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
	Close() error
}

var recordNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

func checkName(name string) error {
	if !recordNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidRecordName, name)
	}
	return nil
}

func unavailable(op, name string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, name, kerrors.ErrStorageUnavailable, err)
}

// Open returns the backend named by cfg.Backend.
func Open(cfg configs.WalletConfig) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Dir)
	case "keyring":
		return OpenKeyring(cfg.KeyringService, cfg.Dir)
	case "sqlite":
		return OpenSQLite(cfg.Database)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownBackend, cfg.Backend)
	}
}
