package game

import (
	"sync"
)

type MemoryHandStateTracker struct {
	mu          sync.Mutex
	activeHands map[string][]byte
}

func NewMemoryHandStateTracker() *MemoryHandStateTracker {
	return &MemoryHandStateTracker{
		activeHands: make(map[string][]byte),
	}
}

func (m *MemoryHandStateTracker) Load(tableID string) (*HandState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	handStateBytes, ok := m.activeHands[tableID]
	if !ok {
		return nil, UnknownTableError{TableID: tableID}
	}
	handState := &HandState{}
	if err := json.Unmarshal(handStateBytes, handState); err != nil {
		return nil, err
	}
	return handState, nil
}

func (m *MemoryHandStateTracker) Save(handState *HandState) error {
	stateInBytes, err := json.Marshal(handState)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeHands[handState.TableID] = stateInBytes
	return nil
}

func (m *MemoryHandStateTracker) Remove(tableID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.activeHands, tableID)
	return nil
}
