package id

// ID is a stable numeric identifier for a live node, used where collaborators
// need a scalar handle (accessibility node ids, action targets).
type ID int64

// Allocator hands out IDs for paths and keeps them stable while the path is
// live. Released IDs are never reused within one allocator.
type Allocator struct {
	next   ID
	byPath map[string]ID
	byID   map[ID]Path
}

// NewAllocator creates an empty allocator. IDs start at 1; 0 is reserved for
// the synthetic window root.
func NewAllocator() *Allocator {
	return &Allocator{
		next:   1,
		byPath: make(map[string]ID),
		byID:   make(map[ID]Path),
	}
}

// Acquire returns the ID for path, allocating one on first use.
func (a *Allocator) Acquire(path Path) ID {
	k := path.String()
	if existing, ok := a.byPath[k]; ok {
		return existing
	}
	id := a.next
	a.next++
	a.byPath[k] = id
	a.byID[id] = path
	return id
}

// Lookup returns the ID currently assigned to path.
func (a *Allocator) Lookup(path Path) (ID, bool) {
	id, ok := a.byPath[path.String()]
	return id, ok
}

// Resolve returns the path currently owning id.
func (a *Allocator) Resolve(id ID) (Path, bool) {
	p, ok := a.byID[id]
	return p, ok
}

// Release forgets the ID of path. Returns the released ID, if there was one.
func (a *Allocator) Release(path Path) (ID, bool) {
	k := path.String()
	id, ok := a.byPath[k]
	if !ok {
		return 0, false
	}
	delete(a.byPath, k)
	delete(a.byID, id)
	return id, true
}

// Len returns the number of live IDs.
func (a *Allocator) Len() int {
	return len(a.byPath)
}
