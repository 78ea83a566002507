package entity

// ListHandle is a compact reference to a slice interned in a ListPool.
type ListHandle = ID

// ListPool interns slices of T and hands back a compact ListHandle so that
// callers can embed a handle rather than own a growable vector. It backs
// the per-function ArgPool/TypePool used by operator value definitions to
// keep ValueDef small (a few words instead of an owned slice header plus
// backing array per operator).
//
// Equal slices are not deduplicated: interning the same contents twice
// yields two distinct handles. Deduplication is a valid future
// optimization but is not required for correctness, per the entity pool
// contract. Interned contents are immutable and the backing storage never
// relocates a slice that has already been handed out, because each handle
// owns an independently allocated copy.
type ListPool[T any] struct {
	pool Pool[[]T]
}

// NewListPool returns an empty ListPool.
func NewListPool[T any]() *ListPool[T] {
	return &ListPool[T]{pool: Pool[[]T]{}}
}

// Intern copies items into the pool and returns a stable handle to the
// copy. A zero-length slice is interned like any other and yields a valid,
// distinct handle every time (callers that want to share an empty list
// should special-case it themselves).
func (p *ListPool[T]) Intern(items []T) ListHandle {
	cp := make([]T, len(items))
	copy(cp, items)
	return p.pool.Push(cp)
}

// Get returns the interned slice for handle. Mutating the returned slice is
// a programming error: interned contents are immutable once pushed.
func (p *ListPool[T]) Get(handle ListHandle) []T {
	return *p.pool.Get(handle)
}

// Len returns the number of lists interned so far.
func (p *ListPool[T]) Len() int {
	return p.pool.Len()
}
