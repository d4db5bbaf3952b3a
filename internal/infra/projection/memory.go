package projection

import (
	"context"
	"sync"

	"hotel-booking/internal/usecase/projection"

	"github.com/google/uuid"
)

// MemoryStore keeps snapshots in process. Used when no Redis address is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[uuid.UUID]projection.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[uuid.UUID]projection.Snapshot)}
}

func (s *MemoryStore) Put(_ context.Context, snap projection.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[snap.RoomTypeID] = snap
	return nil
}

func (s *MemoryStore) Get(_ context.Context, roomTypeID uuid.UUID) (*projection.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[roomTypeID]
	if !ok {
		return nil, projection.ErrSnapshotMissing
	}
	return &snap, nil
}
