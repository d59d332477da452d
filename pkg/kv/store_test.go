package kv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSet(t *testing.T) {
	s := New[string, int](0)

	s.Set("foo", 42)
	val, ok := s.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, 42, val)

	_, ok = s.Get("bar")
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	s := New[string, string](0)
	s.Set("key", "value")

	s.Delete("key")
	s.Delete("missing")

	_, ok := s.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStore_SetBatch(t *testing.T) {
	s := New[string, int](0)

	s.SetBatch(map[string]int{
		"a": 1,
		"b": 2,
		"c": 3,
	})

	assert.Equal(t, 3, s.Len())

	val, _ := s.Get("b")
	assert.Equal(t, 2, val)
}

func TestStore_Clear(t *testing.T) {
	s := New[string, int](0)
	s.Set("a", 1)
	s.Set("b", 2)

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Keys())
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := New[int, string](2)
	s.Set(1, "one")
	s.Set(2, "two")

	// Touch 1 so 2 becomes the oldest.
	_, _ = s.Get(1)
	s.Set(3, "three")

	_, ok := s.Get(2)
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Evicted())
	assert.Equal(t, []int{3, 1}, s.Keys())
}

func TestStore_PeekKeepsOrder(t *testing.T) {
	s := New[int, int](2)
	s.Set(1, 1)
	s.Set(2, 2)

	v, ok := s.Peek(1)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	s.Set(3, 3)
	_, ok = s.Peek(1)
	assert.False(t, ok, "peek must not refresh recency")
}

func TestStore_OverwriteDoesNotEvict(t *testing.T) {
	s := New[string, int](2)
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("a", 10)

	assert.Equal(t, 0, s.Evicted())
	val, _ := s.Get("a")
	assert.Equal(t, 10, val)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New[int, int](50)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Set(n, n*2)
		}(i)
	}

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Get(n)
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 50, s.Len())
	assert.Equal(t, 50, s.Evicted())
}
