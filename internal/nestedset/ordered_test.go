package nestedset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedMapFirstWins(t *testing.T) {
	m := NewOrderedMap[int, string]()
	assert.True(t, m.Add(3, "c"))
	assert.True(t, m.Add(1, "a"))
	assert.False(t, m.Add(3, "z"))

	v, ok := m.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "c", v)
	assert.Equal(t, []int{3, 1}, m.Keys())
	assert.Equal(t, 2, m.Len())
}

func TestOrderedMapMerge(t *testing.T) {
	a := NewOrderedMap[int, string]()
	a.Add(1, "a")
	a.Add(2, "b")

	b := NewOrderedMap[int, string]()
	b.Add(2, "B")
	b.Add(4, "d")
	b.Add(3, "c")

	a.Merge(b)
	a.Merge(nil)
	assert.Equal(t, []int{1, 2, 4, 3}, a.Keys())
	v, _ := a.Get(2)
	assert.Equal(t, "b", v)

	// the merged map is untouched
	assert.Equal(t, []int{2, 4, 3}, b.Keys())
}

func TestOrderedMapNil(t *testing.T) {
	var m *OrderedMap[int, int]
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	for range m.All() {
		t.Fatal("nil map yielded an entry")
	}
}

func TestOrderedMapAllStops(t *testing.T) {
	m := NewOrderedMap[int, int]()
	for i := range 5 {
		m.Add(i, i*i)
	}
	var seen []int
	for k, v := range m.All() {
		if k == 3 {
			break
		}
		seen = append(seen, v)
	}
	assert.Equal(t, []int{0, 1, 4}, seen)
}

func TestKeysIsCopy(t *testing.T) {
	m := NewOrderedMap[int, int]()
	m.Add(1, 1)
	keys := m.Keys()
	keys[0] = 99
	assert.Equal(t, []int{1}, m.Keys())
}
