// Package kv provides a generic thread-safe key-value store with optional
// least-recently-used eviction.
package kv

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Store is a thread-safe generic key-value store. When created with a
// positive capacity it evicts the least recently used entry on overflow.
type Store[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used
	data     map[K]*list.Element
	evicted  int
}

// New creates a store holding at most capacity entries. A capacity of zero
// or less means unbounded.
func New[K comparable, V any](capacity int) *Store[K, V] {
	return &Store[K, V]{
		capacity: capacity,
		order:    list.New(),
		data:     make(map[K]*list.Element),
	}
}

// Get retrieves a value by key and marks it as recently used.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.data[key]
	if !ok {
		var zero V
		return zero, false
	}
	s.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

// Peek retrieves a value without touching its recency.
func (s *Store[K, V]) Peek(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.data[key]
	if !ok {
		var zero V
		return zero, false
	}
	return el.Value.(*entry[K, V]).value, true
}

// Set stores a value by key, evicting the oldest entry when full.
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(key, value)
}

// SetBatch stores multiple key-value pairs at once.
func (s *Store[K, V]) SetBatch(items map[K]V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range items {
		s.set(k, v)
	}
}

func (s *Store[K, V]) set(key K, value V) {
	if el, ok := s.data[key]; ok {
		el.Value.(*entry[K, V]).value = value
		s.order.MoveToFront(el)
		return
	}

	s.data[key] = s.order.PushFront(&entry[K, V]{key: key, value: value})

	if s.capacity > 0 && s.order.Len() > s.capacity {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.data, oldest.Value.(*entry[K, V]).key)
		s.evicted++
	}
}

// Delete removes a key from the store.
func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.data[key]; ok {
		s.order.Remove(el)
		delete(s.data, key)
	}
}

// Clear removes all entries from the store.
func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order.Init()
	s.data = make(map[K]*list.Element)
}

// Len returns the number of items in the store.
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Evicted returns how many entries were dropped for capacity.
func (s *Store[K, V]) Evicted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicted
}

// Keys returns all keys, most recently used first.
func (s *Store[K, V]) Keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]K, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[K, V]).key)
	}
	return keys
}
