package nestedset

import "iter"

// OrderedMap is an insertion-ordered map. Keys are never overwritten:
// the first value stored under a key wins.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap returns an empty map.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

// Add stores v under k unless k is already present.
// It reports whether the value was stored.
func (m *OrderedMap[K, V]) Add(k K, v V) bool {
	if _, ok := m.values[k]; ok {
		return false
	}
	m.keys = append(m.keys, k)
	m.values[k] = v
	return true
}

// Merge adds every entry of other, in order, keeping existing keys.
func (m *OrderedMap[K, V]) Merge(other *OrderedMap[K, V]) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		m.Add(k, other.values[k])
	}
}

// Get returns the value stored under k.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates entries in insertion order.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}
