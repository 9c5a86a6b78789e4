package keystore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// FileStore keeps each record in <dir>/<name>.json.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: no key directory configured", kerrors.ErrStorageUnavailable)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, unavailable("creating", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

func (f *FileStore) Get(_ context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrRecordNotFound, name)
	}
	if err != nil {
		return nil, unavailable("reading", name, err)
	}
	return b, nil
}

// Put replaces the record atomically: the data goes to a temporary file that
// is renamed over the old record.
func (f *FileStore) Put(_ context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, "."+name+".*")
	if err != nil {
		return unavailable("writing", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return unavailable("writing", name, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return unavailable("writing", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return unavailable("writing", name, err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("writing", name, err)
	}
	if err := os.Rename(tmp.Name(), f.path(name)); err != nil {
		return unavailable("writing", name, err)
	}
	return nil
}

// Delete removes the record. Deleting a missing record is not an error.
func (f *FileStore) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := os.Remove(f.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return unavailable("deleting", name, err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
