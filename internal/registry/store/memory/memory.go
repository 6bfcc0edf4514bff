// Package memory provides the in-memory registry store. It favors clarity
// over performance and is the default backend for tests and single-process
// deployments.
package memory

import (
	"context"
	"sync"

	"easel/internal/registry/models"
	"easel/pkg/platform/sentinel"
)

// Store holds the four registry structures behind one lock: the attribute
// list (index == attribute ID, keeping density structural), per-attribute
// traits, per-attribute CID history, and the generation script list.
// Everything is append-only; nothing is ever deleted or edited in place.
type Store struct {
	mu         sync.RWMutex
	attributes []*models.Attribute
	traits     map[int][]*models.Trait
	cids       map[int][]string
	scripts    []string
}

func New() *Store {
	return &Store{
		traits: make(map[int][]*models.Trait),
		cids:   make(map[int][]string),
	}
}

func (s *Store) AttributeCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attributes), nil
}

// AppendAttribute stores a new attribute. The attribute's ID must equal the
// current count; anything else would break density and is rejected.
func (s *Store) AppendAttribute(_ context.Context, attribute *models.Attribute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attribute.ID != len(s.attributes) {
		return sentinel.ErrInvalidState
	}
	s.attributes = append(s.attributes, attribute)
	return nil
}

func (s *Store) FindAttribute(_ context.Context, attributeID int) (*models.Attribute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if attributeID < 0 || attributeID >= len(s.attributes) {
		return nil, sentinel.ErrNotFound
	}
	return s.attributes[attributeID], nil
}

func (s *Store) ListAttributes(_ context.Context) ([]*models.Attribute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.Attribute{}, s.attributes...), nil
}

func (s *Store) TraitCount(_ context.Context, attributeID int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if attributeID < 0 || attributeID >= len(s.attributes) {
		return 0, sentinel.ErrNotFound
	}
	return len(s.traits[attributeID]), nil
}

// AppendTrait stores a new trait. The trait's ID must continue the dense
// 1-based sequence for its attribute.
func (s *Store) AppendTrait(_ context.Context, trait *models.Trait) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if trait.AttributeID < 0 || trait.AttributeID >= len(s.attributes) {
		return sentinel.ErrNotFound
	}
	if trait.ID != len(s.traits[trait.AttributeID])+1 {
		return sentinel.ErrInvalidState
	}
	s.traits[trait.AttributeID] = append(s.traits[trait.AttributeID], trait)
	return nil
}

func (s *Store) ListTraits(_ context.Context, attributeID int) ([]*models.Trait, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if attributeID < 0 || attributeID >= len(s.attributes) {
		return nil, sentinel.ErrNotFound
	}
	return append([]*models.Trait{}, s.traits[attributeID]...), nil
}

func (s *Store) AppendCID(_ context.Context, attributeID int, cid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attributeID < 0 || attributeID >= len(s.attributes) {
		return sentinel.ErrNotFound
	}
	s.cids[attributeID] = append(s.cids[attributeID], cid)
	return nil
}

func (s *Store) CIDHistory(_ context.Context, attributeID int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if attributeID < 0 || attributeID >= len(s.attributes) {
		return nil, sentinel.ErrNotFound
	}
	return append([]string{}, s.cids[attributeID]...), nil
}

// CurrentCID returns the last (authoritative) history entry.
func (s *Store) CurrentCID(_ context.Context, attributeID int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if attributeID < 0 || attributeID >= len(s.attributes) {
		return "", sentinel.ErrNotFound
	}
	history := s.cids[attributeID]
	if len(history) == 0 {
		return "", sentinel.ErrNotFound
	}
	return history[len(history)-1], nil
}

func (s *Store) AppendScript(_ context.Context, script string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, script)
	return nil
}

func (s *Store) ListScripts(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.scripts...), nil
}

// snapshot captures the current state for rollback. Records are never
// mutated in place after append, so copying slice headers is sufficient.
type snapshot struct {
	attributes []*models.Attribute
	traits     map[int][]*models.Trait
	cids       map[int][]string
	scripts    []string
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		attributes: append([]*models.Attribute{}, s.attributes...),
		traits:     make(map[int][]*models.Trait, len(s.traits)),
		cids:       make(map[int][]string, len(s.cids)),
		scripts:    append([]string{}, s.scripts...),
	}
	for k, v := range s.traits {
		snap.traits[k] = append([]*models.Trait{}, v...)
	}
	for k, v := range s.cids {
		snap.cids[k] = append([]string{}, v...)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes = snap.attributes
	s.traits = snap.traits
	s.cids = snap.cids
	s.scripts = snap.scripts
}
