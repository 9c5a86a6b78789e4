package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/lumen/internal/audit"
	"github.com/PolarWolf314/lumen/internal/configs"
	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/secrets"
)

// FilesOptions configures the encrypt and decrypt workflows.
type FilesOptions struct {
	Wallet     configs.WalletConfig
	Passphrase []byte

	// Patterns are paths or doublestar globs relative to Root. When empty,
	// Root is searched for every candidate file.
	Patterns []string
	Root     string

	// DryRun resolves files without unlocking the wallet or writing anything.
	DryRun bool
}

// FilesResult lists the resolved inputs and the files written.
type FilesResult struct {
	Files   []string
	Written []string
	KeyID   string
	DryRun  bool
}

// EncryptFiles seals .env files with the wallet's payload key.
//
// Returns ErrNoSecretFiles if nothing matched.
func EncryptFiles(ctx context.Context, opts FilesOptions) (*FilesResult, error) {
	return processFiles(ctx, opts, true)
}

// DecryptFiles opens sealed files back to their .env names.
//
// Returns ErrNoSecretFiles if nothing matched. Files sealed before the last
// rotation fail with ErrInvalidCiphertext.
func DecryptFiles(ctx context.Context, opts FilesOptions) (*FilesResult, error) {
	return processFiles(ctx, opts, false)
}

func processFiles(ctx context.Context, opts FilesOptions, encrypt bool) (*FilesResult, error) {
	files, err := resolveSecretFiles(opts.Patterns, opts.Root, encrypt)
	if err != nil {
		return nil, err
	}
	result := &FilesResult{Files: files, DryRun: opts.DryRun}
	if opts.DryRun {
		return result, nil
	}

	w, err := openWallet(opts.Wallet)
	if err != nil {
		return nil, err
	}
	defer w.close()

	op := "decrypt"
	if encrypt {
		op = "encrypt"
	}
	entry := w.auditEntry(op)
	entry.Files = files

	err = w.manager.Unlock(ctx, opts.Passphrase)
	if err == nil {
		if encrypt {
			result.Written, err = secrets.EncryptFiles(w.manager, files)
		} else {
			result.Written, err = secrets.DecryptFiles(w.manager, files)
		}
	}
	result.KeyID = w.manager.Status().KeyID
	entry.KeyID = result.KeyID
	audit.Record(entry, err)
	if err != nil {
		return result, err
	}
	return result, nil
}

func resolveSecretFiles(patterns []string, root string, encrypt bool) ([]string, error) {
	if root == "" {
		root = "."
	}
	var files []string
	var err error
	if len(patterns) > 0 {
		files, err = secrets.ResolveFiles(patterns, root, encrypt)
	} else {
		files, err = secrets.FindSecretFiles(root, secrets.DefaultIgnoreDirs, !encrypt)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrNoSecretFiles, err)
	}
	if len(files) == 0 {
		return nil, kerrors.ErrNoSecretFiles
	}
	return files, nil
}
