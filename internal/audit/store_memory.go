package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps audit events in memory, grouped per attribute. It is
// the default sink for tests and single-process deployments.
type InMemoryStore struct {
	mu      sync.RWMutex
	ordered []Event
	byAttr  map[int][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byAttr: make(map[int][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ordered = append(s.ordered, event)
	s.byAttr[event.AttributeID] = append(s.byAttr[event.AttributeID], event)
	return nil
}

func (s *InMemoryStore) ListByAttribute(_ context.Context, attributeID int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.byAttr[attributeID]...), nil
}

// ListAll returns every event in emission order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.ordered...), nil
}

// Clear drops all recorded events. Test helper.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ordered = nil
	s.byAttr = make(map[int][]Event)
}
