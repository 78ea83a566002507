package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bytecodealliance/waffle/entity"
)

func TestPoolPushGetInsertionOrder(t *testing.T) {
	p := entity.NewPool[string]()
	a := p.Push("a")
	b := p.Push("b")
	c := p.Push("c")
	require.Equal(t, entity.ID(0), a)
	require.Equal(t, entity.ID(1), b)
	require.Equal(t, entity.ID(2), c)
	require.Equal(t, 3, p.Len())

	var seen []string
	p.ForEach(func(_ entity.ID, data *string) bool {
		seen = append(seen, *data)
		return true
	})
	require.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestPoolSetMutatesInPlace(t *testing.T) {
	p := entity.NewPool[int]()
	id := p.Push(1)
	p.Set(id, 42)
	require.Equal(t, 42, *p.Get(id))
}

func TestPoolForEachEarlyStop(t *testing.T) {
	p := entity.NewPool[int]()
	p.Push(1)
	p.Push(2)
	p.Push(3)
	var visited int
	p.ForEach(func(_ entity.ID, _ *int) bool {
		visited++
		return visited < 2
	})
	require.Equal(t, 2, visited)
}

func TestPoolSpansMultiplePages(t *testing.T) {
	p := entity.NewPool[int]()
	const n = 1000
	for i := 0; i < n; i++ {
		id := p.Push(i)
		require.Equal(t, entity.ID(i), id)
	}
	require.Equal(t, n, p.Len())
	for i := 0; i < n; i++ {
		require.Equal(t, i, *p.Get(entity.ID(i)))
	}
}

func TestPoolSlice(t *testing.T) {
	p := entity.NewPool[string]()
	p.Push("x")
	p.Push("y")
	require.Equal(t, []string{"x", "y"}, p.Slice())
}

func TestListPoolInternIsDefensiveCopy(t *testing.T) {
	lp := entity.NewListPool[int]()
	src := []int{1, 2, 3}
	h := lp.Intern(src)
	src[0] = 99
	require.Equal(t, []int{1, 2, 3}, lp.Get(h))
}

func TestListPoolInternDoesNotDeduplicate(t *testing.T) {
	lp := entity.NewListPool[int]()
	h1 := lp.Intern([]int{1, 2})
	h2 := lp.Intern([]int{1, 2})
	require.NotEqual(t, h1, h2)
	require.Equal(t, 2, lp.Len())
}

func TestListPoolEmptySlice(t *testing.T) {
	lp := entity.NewListPool[int]()
	h := lp.Intern(nil)
	require.Empty(t, lp.Get(h))
}
