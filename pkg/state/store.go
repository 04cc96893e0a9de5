// Package state holds per-node persistent state addressed by id-path.
//
// The store is owned by the runtime and touched only from the owner thread.
// An entry lives exactly as long as a view occupies its path: it is created
// on first appearance, survives re-renders that keep the node's type and key,
// and is released when the path leaves the tree. Reading a released entry, or
// asking for one that was never created, is a programmer error and fails fast.
package state

import (
	"slices"

	"github.com/go-drift/xilem/pkg/errors"
	"github.com/go-drift/xilem/pkg/id"
)

// Entry is the state of one node. Its identity is stable for as long as the
// node keeps its path.
type Entry struct {
	path       id.Path
	value      any
	generation uint64
	released   bool
	disposers  []func()
}

// Path returns the id-path the entry belongs to.
func (e *Entry) Path() id.Path {
	return e.path
}

// Generation returns the allocation counter of the entry. A replaced or
// recreated entry always has a higher generation than its predecessor.
func (e *Entry) Generation() uint64 {
	return e.generation
}

// Get returns the stored value. It panics with a *errors.StateError when the
// entry has been released.
func (e *Entry) Get() any {
	e.checkLive("Get")
	return e.value
}

// Set replaces the stored value. It panics with a *errors.StateError when the
// entry has been released.
func (e *Entry) Set(v any) {
	e.checkLive("Set")
	e.value = v
}

// Released reports whether the entry's node has left the tree.
func (e *Entry) Released() bool {
	return e.released
}

// OnDispose registers a cleanup function that runs when the entry is
// released. Cleanups run in reverse registration order. Registering on a
// released entry runs the cleanup immediately.
func (e *Entry) OnDispose(cleanup func()) {
	if cleanup == nil {
		return
	}
	if e.released {
		cleanup()
		return
	}
	e.disposers = append(e.disposers, cleanup)
}

func (e *Entry) release() {
	if e.released {
		return
	}
	e.released = true
	for i := len(e.disposers) - 1; i >= 0; i-- {
		e.disposers[i]()
	}
	e.disposers = nil
	e.value = nil
}

func (e *Entry) checkLive(op string) {
	if e.released {
		panic(&errors.StateError{Op: op, Path: e.path.String()})
	}
}

// Value returns the entry's value as T. It panics if the entry is released
// or holds a value of another type.
func Value[T any](e *Entry) T {
	return e.Get().(T)
}

// Store maps id-paths to entries.
type Store struct {
	entries map[string]*Entry
	nextGen uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// GetOrCreate returns the entry at path, creating it with factory's value if
// none exists. A nil factory creates an entry holding nil.
func (s *Store) GetOrCreate(path id.Path, factory func() any) *Entry {
	k := path.String()
	if e, ok := s.entries[k]; ok {
		return e
	}
	var v any
	if factory != nil {
		v = factory()
	}
	return s.insert(k, path, v)
}

// GetMut returns the existing entry at path. It never creates state: an
// absent path yields an error wrapping errors.ErrNotFound.
func (s *Store) GetMut(path id.Path) (*Entry, error) {
	if e, ok := s.entries[path.String()]; ok {
		return e, nil
	}
	return nil, &errors.Error{
		Op:   "state.GetMut",
		Kind: errors.KindState,
		Path: path.String(),
		Err:  &errors.StateError{Op: "GetMut", Path: path.String()},
	}
}

// MustGet returns the existing entry at path and panics with a
// *errors.StateError if there is none.
func (s *Store) MustGet(path id.Path) *Entry {
	e, ok := s.entries[path.String()]
	if !ok {
		panic(&errors.StateError{Op: "MustGet", Path: path.String()})
	}
	return e
}

// Replace releases any entry at path and stores a fresh one holding value.
// The returned entry has a new identity.
func (s *Store) Replace(path id.Path, value any) *Entry {
	k := path.String()
	if old, ok := s.entries[k]; ok {
		old.release()
	}
	return s.insert(k, path, value)
}

// Remove releases the entry at path. Reports whether one existed.
func (s *Store) Remove(path id.Path) bool {
	k := path.String()
	e, ok := s.entries[k]
	if !ok {
		return false
	}
	e.release()
	delete(s.entries, k)
	return true
}

// RemoveSubtree releases the entry at path and every entry below it.
// Returns the number of entries released.
func (s *Store) RemoveSubtree(path id.Path) int {
	removed := 0
	for k, e := range s.entries {
		if e.path.HasPrefix(path) {
			e.release()
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Collect releases every entry whose path is not in live and returns the
// number released. It is run after each edit script is applied, with the
// path set of the new view tree, so no entry outlives its node.
func (s *Store) Collect(live []id.Path) int {
	keep := make(map[string]struct{}, len(live))
	for _, p := range live {
		keep[p.String()] = struct{}{}
	}
	removed := 0
	for k, e := range s.entries {
		if _, ok := keep[k]; ok {
			continue
		}
		e.release()
		delete(s.entries, k)
		removed++
	}
	return removed
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Paths returns the paths of all live entries, sorted by their string form.
func (s *Store) Paths() []id.Path {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	paths := make([]id.Path, len(keys))
	for i, k := range keys {
		paths[i] = s.entries[k].path
	}
	return paths
}

func (s *Store) insert(k string, path id.Path, value any) *Entry {
	s.nextGen++
	e := &Entry{path: path, value: value, generation: s.nextGen}
	s.entries[k] = e
	return e
}
