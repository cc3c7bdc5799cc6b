package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pocat/internal/configurator"
)

// ChatState is what the bot remembers about one chat between updates.
type ChatState struct {
	Session configurator.Session `json:"session"`

	// Awaiting names the field the next plain text message fills in.
	Awaiting configurator.Field `json:"awaiting,omitempty"`
}

func newChatState(session *configurator.Session) *ChatState {
	return &ChatState{Session: *session}
}

// StateStore persists chat state as JSON. LoadChatState reports found=false
// for a chat without state.
type StateStore interface {
	LoadChatState(ctx context.Context, chatID int64, dst any) (bool, error)
	SaveChatState(ctx context.Context, chatID int64, state any) error
	DropChatState(ctx context.Context, chatID int64) error
}

// MemoryStateStore is a StateStore for single-process runs and tests.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[int64][]byte
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[int64][]byte)}
}

func (m *MemoryStateStore) LoadChatState(_ context.Context, chatID int64, dst any) (bool, error) {
	m.mu.Lock()
	data, ok := m.states[chatID]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return true, nil
}

func (m *MemoryStateStore) SaveChatState(_ context.Context, chatID int64, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	m.mu.Lock()
	m.states[chatID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStateStore) DropChatState(_ context.Context, chatID int64) error {
	m.mu.Lock()
	delete(m.states, chatID)
	m.mu.Unlock()
	return nil
}
