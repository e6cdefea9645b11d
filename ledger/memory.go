package ledger

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an in-memory Store. A single RWMutex covers all users, which
// trivially satisfies the per-user atomicity contract.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]SpendingEntry
	cards   map[string]map[string]CardConfig
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string][]SpendingEntry),
		cards:   make(map[string]map[string]CardConfig),
	}
}

func (m *Memory) AddEntry(_ context.Context, user string, entry SpendingEntry) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = len(m.entries[user]) + 1
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.entries[user] = append(m.entries[user], entry)
	return entry.ID, nil
}

func (m *Memory) DeleteEntry(_ context.Context, user string, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.entries[user]
	idx := -1
	for i, e := range all {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &EntryNotFoundError{User: user, ID: id}
	}

	// Remove and re-densify ids to 1..N under the same lock, so readers
	// never observe a gap.
	remaining := append(append([]SpendingEntry{}, all[:idx]...), all[idx+1:]...)
	for i := range remaining {
		remaining[i].ID = i + 1
	}
	m.entries[user] = remaining
	return nil
}

func (m *Memory) ListEntries(_ context.Context, user string) ([]SpendingEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]SpendingEntry, len(m.entries[user]))
	copy(out, m.entries[user])
	return out, nil
}

func (m *Memory) SetCardConfig(_ context.Context, user string, cfg CardConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg.UpdatedAt.IsZero() {
		cfg.UpdatedAt = time.Now().UTC()
	}
	if m.cards[user] == nil {
		m.cards[user] = make(map[string]CardConfig)
	}
	m.cards[user][cfg.CardName] = cfg
	return nil
}

func (m *Memory) GetCardConfigs(_ context.Context, user string) (map[string]CardConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]CardConfig, len(m.cards[user]))
	for name, cfg := range m.cards[user] {
		out[name] = cfg
	}
	return out, nil
}
