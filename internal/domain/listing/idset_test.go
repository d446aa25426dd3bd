package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDSet_AddIsIdempotent(t *testing.T) {
	s := NewIDSet("42")
	assert.False(t, s.Add("42"))
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Add(""))
	assert.True(t, s.Add("7"))
	assert.Equal(t, []ID{"7", "42"}, s.Slice())
}

func TestIDSet_SliceOrdersNumerically(t *testing.T) {
	s := NewIDSet("10", "9", "2", "abc", "100", "07", "7")
	assert.Equal(t, []ID{"2", "07", "7", "9", "10", "100", "abc"}, s.Slice())
}

func TestIDSet_Remove(t *testing.T) {
	s := NewIDSet("1", "2", "2")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Remove("1"))
	assert.False(t, s.Remove("1"))
	assert.False(t, s.Has("1"))
	assert.True(t, s.Has("2"))
}

func TestIDSet_CloneIsIndependent(t *testing.T) {
	s := NewIDSet("1")
	c := s.Clone()
	c.Add("2")
	assert.False(t, s.Has("2"))
	assert.Equal(t, 2, c.Len())
}

func TestIDsOf(t *testing.T) {
	ls := []Listing{{ID: "1"}, {}, {ID: "3"}}
	assert.Equal(t, []ID{"1", "3"}, IDsOf(ls))
}
