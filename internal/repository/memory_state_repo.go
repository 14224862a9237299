package repository

import (
	"context"
	"sync"
	"time"
)

type memoryStateRepository struct {
	mu     sync.RWMutex
	states map[string]LocalState
}

// NewMemoryStateRepository keeps state in process memory. Sessions do not
// survive a restart.
func NewMemoryStateRepository() StateRepository {
	return &memoryStateRepository{states: make(map[string]LocalState)}
}

func (m *memoryStateRepository) Get(_ context.Context, sessionID string) (*LocalState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.states[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *memoryStateRepository) Create(_ context.Context, state *LocalState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.states[state.SessionID]; ok {
		return ErrAlreadyExists
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}
	m.states[state.SessionID] = *state
	return nil
}

func (m *memoryStateRepository) Patch(_ context.Context, patch *StatePatch) (*LocalState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[patch.SessionID]
	if !ok {
		return nil, ErrNotFound
	}
	patch.apply(&s)
	s.UpdatedAt = time.Now().UTC()
	m.states[patch.SessionID] = s
	return &s, nil
}

func (m *memoryStateRepository) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, sessionID)
	return nil
}
