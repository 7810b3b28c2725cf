package orderedset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_AddIsIdempotent(t *testing.T) {
	s := New[string]()

	assert.True(t, s.Add("a"))
	assert.True(t, s.Add("b"))
	assert.False(t, s.Add("a"))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.Values())
}

func TestSet_Remove(t *testing.T) {
	s := New[string]()
	s.Add("a")
	s.Add("b")
	s.Add("c")

	assert.True(t, s.Remove("b"))
	assert.False(t, s.Remove("b"))
	assert.False(t, s.Contains("b"))
	assert.Equal(t, []string{"a", "c"}, s.Values())
}

func TestSet_MoveToBack(t *testing.T) {
	s := New[int]()
	s.Add(1)
	s.Add(2)
	s.Add(3)

	s.MoveToBack(1)
	assert.Equal(t, []int{2, 3, 1}, s.Values())

	s.MoveToBack(4)
	assert.Equal(t, []int{2, 3, 1, 4}, s.Values())
	assert.Equal(t, 4, s.Len())
}

func TestSet_AllStopsEarly(t *testing.T) {
	s := New[int]()
	for i := range 5 {
		s.Add(i)
	}

	var seen []int
	for v := range s.All() {
		if v == 2 {
			break
		}
		seen = append(seen, v)
	}
	assert.Equal(t, []int{0, 1}, seen)
}
