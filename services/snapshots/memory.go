package snapshots

import (
	"context"
	"sync"

	"github.com/matheuscscp/splitbill/models"
)

type (
	memoryStore struct {
		slot   []byte
		slotMu sync.Mutex
	}
)

// NewMemoryStore keeps the saved bills for the lifetime of the process.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) Close() {
}

func (m *memoryStore) Load(ctx context.Context) ([]models.Snapshot, error) {
	m.slotMu.Lock()
	defer m.slotMu.Unlock()
	return decode(m.slot)
}

func (m *memoryStore) Save(ctx context.Context, snapshots []models.Snapshot) error {
	b, err := encode(snapshots)
	if err != nil {
		return err
	}
	m.slotMu.Lock()
	m.slot = b
	m.slotMu.Unlock()
	return nil
}
