package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in process memory. It is the degradation path
// when the database is unreachable, and the default store for tests.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]Snapshot)}
}

// Save overwrites the snapshot for snap.SaveID.
//
// Postcondition: Load(snap.SaveID) returns snap until the next Save.
func (m *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.SaveID] = snap
	return nil
}

// Load returns the snapshot for saveID or ErrSnapshotNotFound.
func (m *MemoryStore) Load(_ context.Context, saveID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[saveID]
	if !ok {
		return Snapshot{}, ErrSnapshotNotFound
	}
	return snap, nil
}
