package events

import (
	"context"
	"sync"
)

// MockEventPublisher records events for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []SessionEvent
	closed bool
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event SessionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Events returns a copy of everything published so far.
func (m *MockEventPublisher) Events() []SessionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SessionEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Closed reports whether Close was called.
func (m *MockEventPublisher) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
