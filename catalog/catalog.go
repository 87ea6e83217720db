package catalog

import (
	"fmt"
	"sync"

	"github.com/martinlindhe/unit"

	"github.com/orreryworks/apparent/core"
)

// EventType indicates what kind of change happened in the store.
type EventType int

const (
	EventBodyPositionUpdated EventType = iota
)

// Event is emitted to subscribers when a body changes.
type Event struct {
	Type EventType
	Body Body
}

// Body is a named entity that can be placed on a layout grid. Position
// is a grid coordinate; the grid scale is decided by whichever layout
// the body is built into.
type Body struct {
	ID       string
	Name     string
	Position core.Coordinate
	Shape    core.Shape
}

// Store is an in-memory, thread-safe collection of named bodies. It is
// the mutable source of truth a driver edits; layouts are immutable-ish
// snapshots built from it via BuildLayout.
type Store struct {
	mu sync.RWMutex

	bodies map[string]*Body
	order  []string

	subs []func(Event)
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{bodies: make(map[string]*Body)}
}

// Add registers a new body. It returns an error if the ID already exists.
func (s *Store) Add(b Body) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bodies[b.ID]; exists {
		return fmt.Errorf("body with ID %q already exists", b.ID)
	}
	stored := b
	s.bodies[b.ID] = &stored
	s.order = append(s.order, b.ID)
	return nil
}

// Get returns the body with the given ID and whether it exists.
func (s *Store) Get(id string) (Body, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bodies[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// List returns a snapshot of all bodies in insertion order.
func (s *Store) List() []Body {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]Body, 0, len(s.order))
	for _, id := range s.order {
		res = append(res, *s.bodies[id])
	}
	return res
}

// UpdatePosition moves a body to a new grid coordinate and notifies
// subscribers.
func (s *Store) UpdatePosition(id string, pos core.Coordinate) error {
	s.mu.Lock()
	b, ok := s.bodies[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("body with ID %q not found", id)
	}
	b.Position = pos
	event := Event{
		Type: EventBodyPositionUpdated,
		Body: *b, // copy for safety
	}
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// Subscribe registers a callback for store events. It returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < 0 || idx >= len(s.subs) {
			return
		}
		s.subs = append(s.subs[:idx], s.subs[idx+1:]...)
		idx = -1
	}
}

// BuildLayout snapshots the store's bodies into a fresh layout with the
// given grid parameters, placing them in insertion order. Bodies whose
// positions fall outside the bound are reported in the summary rather
// than failing the build.
func BuildLayout(s *Store, coordinateBound int64, dimension unit.Length, opts ...core.Option) (*core.Layout, *core.PlacementSummary) {
	layout := core.NewLayout(coordinateBound, dimension, opts...)
	summary := &core.PlacementSummary{}
	for _, b := range s.List() {
		if layout.AddObject(core.NewObject(b.Position, b.Shape)) {
			summary.Placed = append(summary.Placed, b.Name)
		} else {
			summary.Rejected = append(summary.Rejected, b.Name)
		}
	}
	return layout, summary
}
