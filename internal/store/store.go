// Package store persists whole snapshots per owner.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

var ErrNotFound = errors.New("snapshot not found")

// Provider saves and loads the snapshot of one owner.
type Provider interface {
	Name() string
	Save(ctx context.Context, owner string, s records.Snapshot) error
	Load(ctx context.Context, owner string) (records.Snapshot, error)
}

type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns a process-local provider. Snapshots are stored encoded,
// so callers never share maps with the store.
func NewMemory() Provider {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) Name() string { return "memory" }

func (m *memoryStore) Save(_ context.Context, owner string, s records.Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[owner] = b
	return nil
}

func (m *memoryStore) Load(_ context.Context, owner string) (records.Snapshot, error) {
	m.mu.RLock()
	b, ok := m.data[owner]
	m.mu.RUnlock()
	if !ok {
		return records.Snapshot{}, ErrNotFound
	}
	return decode(b)
}

func decode(b []byte) (records.Snapshot, error) {
	var s records.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return records.Snapshot{}, errors.Wrap(err, "decode snapshot")
	}
	return s, nil
}
