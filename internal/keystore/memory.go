package keystore

import (
	"context"
	"fmt"
	"sync"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu          sync.Mutex
	records     map[string][]byte
	unavailable bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

// SetUnavailable makes every later call fail with ErrStorageUnavailable until
// it is switched back.
func (m *MemoryStore) SetUnavailable(down bool) {
	m.mu.Lock()
	m.unavailable = down
	m.mu.Unlock()
}

func (m *MemoryStore) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return nil, fmt.Errorf("reading %s: %w", name, kerrors.ErrStorageUnavailable)
	}
	data, ok := m.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrRecordNotFound, name)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return fmt.Errorf("writing %s: %w", name, kerrors.ErrStorageUnavailable)
	}
	m.records[name] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return fmt.Errorf("deleting %s: %w", name, kerrors.ErrStorageUnavailable)
	}
	delete(m.records, name)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
