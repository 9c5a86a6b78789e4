package keystore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"

	"github.com/PolarWolf314/lumen/internal/configs"
	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	file, err := NewFileStore(filepath.Join(t.TempDir(), "keys"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "lumen.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		"file":    file,
		"sqlite":  db,
		"memory":  NewMemoryStore(),
		"keyring": NewKeyringStore(keyring.NewArrayKeyring(nil)),
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(ctx, "lumen-wallet"); !errors.Is(err, kerrors.ErrRecordNotFound) {
				t.Fatalf("Expected ErrRecordNotFound for missing record, got %v", err)
			}

			first := []byte(`{"version":1}`)
			if err := store.Put(ctx, "lumen-wallet", first); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			got, err := store.Get(ctx, "lumen-wallet")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !bytes.Equal(got, first) {
				t.Errorf("Get = %q, want %q", got, first)
			}

			second := []byte(`{"version":1,"keyId":"rotated"}`)
			if err := store.Put(ctx, "lumen-wallet", second); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			got, _ = store.Get(ctx, "lumen-wallet")
			if !bytes.Equal(got, second) {
				t.Errorf("overwrite not visible: got %q", got)
			}

			if err := store.Delete(ctx, "lumen-wallet"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := store.Get(ctx, "lumen-wallet"); !errors.Is(err, kerrors.ErrRecordNotFound) {
				t.Errorf("Expected ErrRecordNotFound after delete, got %v", err)
			}
			if err := store.Delete(ctx, "lumen-wallet"); err != nil {
				t.Errorf("Deleting a missing record should succeed, got %v", err)
			}
		})
	}
}

func TestStoreRejectsUnsafeNames(t *testing.T) {
	ctx := context.Background()
	names := []string{"", "../escape", "a/b", ".hidden", "with space"}

	for backend, store := range backends(t) {
		for _, n := range names {
			if err := store.Put(ctx, n, []byte("x")); !errors.Is(err, kerrors.ErrInvalidRecordName) {
				t.Errorf("%s: Put(%q) error = %v, want ErrInvalidRecordName", backend, n, err)
			}
		}
	}
}

func TestFileStorePermissionsAndNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if err := store.Put(context.Background(), "wallet", []byte("blob")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "wallet.json"))
	if err != nil {
		t.Fatalf("record file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected 0600 permissions, got %o", perm)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the record file, found %d entries", len(entries))
	}
}

func TestMemoryStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Put(ctx, "wallet", []byte("blob")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	store.SetUnavailable(true)
	if _, err := store.Get(ctx, "wallet"); !errors.Is(err, kerrors.ErrStorageUnavailable) {
		t.Errorf("Expected ErrStorageUnavailable, got %v", err)
	}
	if err := store.Put(ctx, "wallet", []byte("new")); !errors.Is(err, kerrors.ErrStorageUnavailable) {
		t.Errorf("Expected ErrStorageUnavailable on Put, got %v", err)
	}

	store.SetUnavailable(false)
	got, err := store.Get(ctx, "wallet")
	if err != nil || string(got) != "blob" {
		t.Errorf("Expected original record after recovery, got %q, %v", got, err)
	}
}

func TestFileStoreUnreadableRecord(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)

	// A directory where the record should be cannot be read as a file.
	if err := os.Mkdir(filepath.Join(dir, "wallet.json"), 0700); err != nil {
		t.Fatal(err)
	}
	_, err := store.Get(context.Background(), "wallet")
	if !errors.Is(err, kerrors.ErrStorageUnavailable) {
		t.Errorf("Expected ErrStorageUnavailable, got %v", err)
	}
	if errors.Is(err, kerrors.ErrRecordNotFound) {
		t.Error("Unreadable record must not look like a missing one")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     configs.WalletConfig
		wantErr error
	}{
		{"default file", configs.WalletConfig{Dir: dir}, nil},
		{"file", configs.WalletConfig{Backend: "file", Dir: dir}, nil},
		{"sqlite", configs.WalletConfig{Backend: "sqlite", Database: filepath.Join(dir, "w.db")}, nil},
		{"memory", configs.WalletConfig{Backend: "memory"}, nil},
		{"sqlite without path", configs.WalletConfig{Backend: "sqlite"}, kerrors.ErrStorageUnavailable},
		{"unknown", configs.WalletConfig{Backend: "floppy"}, kerrors.ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			store.Close()
		})
	}
}
