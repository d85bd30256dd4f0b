// Package kv provides the insertion-ordered map used to tally deterministic
// vote counts (see pkg/classify.heuristicClassify).
package kv

import "iter"

// OrderedKV is a key-value map that maintains the order of keys.
type OrderedKV[K comparable, V any] struct {
	values map[K]V
	keys   []K
}

// NewOrderedKV creates and returns an initialized OrderedKV with an optional initial capacity.
func NewOrderedKV[K comparable, V any](lens ...int) *OrderedKV[K, V] {
	var l = 0
	if len(lens) > 0 {
		l = lens[0]
	}
	return &OrderedKV[K, V]{
		values: make(map[K]V, l),
		keys:   make([]K, 0, l),
	}
}

// Size returns the number of key-value pairs in the map.
func (m *OrderedKV[K, V]) Size() int {
	return len(m.values)
}

// ContainsKey checks if the map contains the specified key.
func (m *OrderedKV[K, V]) ContainsKey(k K) bool {
	_, ok := m.values[k]
	return ok
}

// Value retrieves the value associated with the specified key.
// If the key does not exist, the zero value for the value type is returned.
func (m *OrderedKV[K, V]) Value(k K) V {
	return m.values[k]
}

// Put inserts or updates a key-value pair in the map, appending the key to
// the insertion order the first time it's seen. It returns the updated map.
func (m *OrderedKV[K, V]) Put(k K, v V) *OrderedKV[K, V] {
	if !m.ContainsKey(k) {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
	return m
}

// Iterator returns a sequence function that iterates over the key-value pairs
// in the OrderedKV map in insertion order. The iteration stops if the yield
// function returns false.
func (m *OrderedKV[K, V]) Iterator() iter.Seq2[K, V] {
	return func(yield func(key K, value V) bool) {
		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}
