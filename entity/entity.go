// Package entity provides the index-based reference scheme shared by every
// kind of IR object (values, blocks, functions, signatures, globals, tables,
// memories, and debug records): a dense, non-negative integer handle plus a
// contiguous, append-only pool that maps a handle back to its payload.
//
// Handles are not pointers. They are only meaningful with respect to the
// Pool that minted them; using a handle from one pool against another is a
// programming error the same way a dangling pointer would be.
package entity

// pageSize bounds the size of a single backing array so that Pool growth
// never needs to copy previously handed-out data: pages are appended, never
// reallocated in place. Chosen to match the arena granularity used by the
// reference engine's own instruction/block pools.
const pageSize = 128

// ID is the common representation of a dense, non-negative index. Each IR
// entity kind (Value, Block, Func, Signature, ...) wraps ID in its own named
// type so the compiler keeps handles from different pools from being
// confused with one another.
type ID = uint32

// Invalid is the reserved sentinel denoting "no entity" for any ID-based
// handle.
const Invalid ID = ^ID(0)

// Pool is a contiguous, append-only, insertion-ordered container mapping an
// ID to a T. It supports O(1) lookup, O(1) amortized push, in-place
// mutation through Get, and deterministic iteration in insertion order.
// There is no Remove: a logically deleted slot is represented by overwriting
// its payload (e.g. with a None-variant ValueDef) so indices stay stable.
type Pool[T any] struct {
	pages [][]T
	len   int
}

// NewPool returns an empty Pool ready for use.
func NewPool[T any]() *Pool[T] {
	return &Pool[T]{}
}

// Push appends data to the pool and returns the ID it was assigned. IDs are
// dense in [0, Len()).
func (p *Pool[T]) Push(data T) ID {
	idx := p.len
	page, offset := idx/pageSize, idx%pageSize
	if page == len(p.pages) {
		p.pages = append(p.pages, make([]T, pageSize))
	}
	p.pages[page][offset] = data
	p.len++
	return ID(idx)
}

// Get returns a pointer to the data at id, allowing in-place mutation. It
// panics if id is out of range, which indicates a handle from a different
// pool or a stale handle into a pool that was reset.
func (p *Pool[T]) Get(id ID) *T {
	if int(id) >= p.len {
		panic("entity: id out of range")
	}
	page, offset := int(id)/pageSize, int(id)%pageSize
	return &p.pages[page][offset]
}

// Set overwrites the data at id.
func (p *Pool[T]) Set(id ID, data T) {
	*p.Get(id) = data
}

// Len returns the number of entities pushed into the pool.
func (p *Pool[T]) Len() int {
	return p.len
}

// ForEach visits every (id, *T) pair in insertion order. Returning false
// from fn stops iteration early.
func (p *Pool[T]) ForEach(fn func(id ID, data *T) bool) {
	for i := 0; i < p.len; i++ {
		if !fn(ID(i), p.Get(ID(i))) {
			return
		}
	}
}

// Slice materializes the pool contents as a freshly allocated slice in
// insertion order. Prefer ForEach on hot paths; Slice is for callers that
// want a plain range loop.
func (p *Pool[T]) Slice() []T {
	out := make([]T, 0, p.len)
	p.ForEach(func(_ ID, data *T) bool {
		out = append(out, *data)
		return true
	})
	return out
}
