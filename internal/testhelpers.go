package internal

import (
	"context"
	"sync"
	"time"
)

// CreateTestTab creates a chat tab with one user and one assistant bubble
func CreateTestTab(id string) *ChatTab {
	return &ChatTab{
		ID:        id,
		Title:     "Test Conversation",
		Timestamp: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
		Bubbles: []ChatBubble{
			{
				Type:       BubbleTypeUser,
				Text:       "Hello, how are you?",
				Selections: []Selection{},
			},
			{
				Type:       BubbleTypeAI,
				Text:       "I'm doing well, thank you!",
				ModelType:  ComposerModelLabel,
				Selections: []Selection{},
			},
		},
	}
}

// CreateTestTabWithBubbles creates a chat tab with custom bubbles
func CreateTestTabWithBubbles(id string, bubbles []ChatBubble) *ChatTab {
	tab := CreateTestTab(id)
	tab.Bubbles = bubbles
	return tab
}

// MemoryStore is an in-memory Store used by tests
type MemoryStore struct {
	Values   map[string]string
	GetErr   error
	BatchErr error

	mu      sync.Mutex
	closed  bool
	batches [][]string
}

// NewMemoryStore creates a MemoryStore holding values
func NewMemoryStore(values map[string]string) *MemoryStore {
	if values == nil {
		values = make(map[string]string)
	}
	return &MemoryStore{Values: values}
}

// Get implements Store
func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	value, ok := m.Values[key]
	return value, ok, nil
}

// BatchGet implements Store, returning pairs in key order
func (m *MemoryStore) BatchGet(ctx context.Context, keys []string) ([]KeyValuePair, error) {
	m.mu.Lock()
	m.batches = append(m.batches, append([]string(nil), keys...))
	m.mu.Unlock()

	if m.BatchErr != nil {
		return nil, m.BatchErr
	}
	var pairs []KeyValuePair
	for _, key := range keys {
		if value, ok := m.Values[key]; ok {
			pairs = append(pairs, KeyValuePair{Key: key, Value: value})
		}
	}
	return pairs, nil
}

// Close implements Store
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called
func (m *MemoryStore) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Batches returns the key lists passed to BatchGet
func (m *MemoryStore) Batches() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches
}

// MemoryOpener is an in-memory StoreOpener used by tests
type MemoryOpener struct {
	Workspaces   map[string]*MemoryStore
	Global       *MemoryStore
	WorkspaceErr error
	GlobalErr    error

	mu          sync.Mutex
	globalOpens int
}

// OpenWorkspace implements StoreOpener. Unknown ids get an empty store.
func (o *MemoryOpener) OpenWorkspace(ctx context.Context, workspaceID string) (Store, error) {
	if o.WorkspaceErr != nil {
		return nil, o.WorkspaceErr
	}
	if store, ok := o.Workspaces[workspaceID]; ok {
		return store, nil
	}
	return NewMemoryStore(nil), nil
}

// OpenGlobal implements StoreOpener
func (o *MemoryOpener) OpenGlobal(ctx context.Context) (Store, error) {
	o.mu.Lock()
	o.globalOpens++
	o.mu.Unlock()

	if o.GlobalErr != nil {
		return nil, o.GlobalErr
	}
	if o.Global == nil {
		o.Global = NewMemoryStore(nil)
	}
	return o.Global, nil
}

// GlobalOpens returns how many times the global store was opened
func (o *MemoryOpener) GlobalOpens() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.globalOpens
}
