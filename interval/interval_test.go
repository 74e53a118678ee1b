package interval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionCoalescesOverlappingRanges(t *testing.T) {
	s := New(0, 2).Union(New(1, 3)).Union(New(5, 6))
	require.Equal(t, []Range{{0, 3}, {5, 6}}, s.Ranges())
}

func TestUnionCoalescesAdjacentRanges(t *testing.T) {
	s := New(math.Inf(-1), 32.5).Union(New(32.5, math.Inf(1)))
	require.True(t, s.Equal(Unbounded()))
}

func TestUnionKeepsDisjointRangesSorted(t *testing.T) {
	s := New(10, 20).Union(New(-5, 0))
	assert.Equal(t, []Range{{-5, 0}, {10, 20}}, s.Ranges())
}

func TestUnionIsCommutative(t *testing.T) {
	cases := []struct {
		a, b Set
	}{
		{New(0, 1), New(2, 3)},
		{New(0, 5), New(1, 2)},
		{New(math.Inf(-1), 4), New(4, math.Inf(1))},
		{New(0, 1).Union(New(4, 5)), New(2, 3).Union(New(5, 8))},
	}
	for _, c := range cases {
		assert.True(t, c.a.Union(c.b).Equal(c.b.Union(c.a)), "%v | %v", c.a, c.b)
	}
}

func TestUnionIsIdempotent(t *testing.T) {
	a := New(0, 1).Union(New(3, 4))
	assert.True(t, a.Union(a).Equal(a))
}

func TestUnionDoesNotAlterOperands(t *testing.T) {
	a := New(0, 1)
	b := New(2, 3)
	_ = a.Union(b)
	assert.Equal(t, []Range{{0, 1}}, a.Ranges())
	assert.Equal(t, []Range{{2, 3}}, b.Ranges())
}

func TestContains(t *testing.T) {
	s := New(0, 1).Union(New(5, math.Inf(1)))
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(1))
	assert.True(t, s.Contains(1e300))
	assert.False(t, s.Contains(3))
	assert.False(t, s.Contains(-0.5))
	assert.False(t, Set{}.Contains(0))
}

func TestString(t *testing.T) {
	s := New(math.Inf(-1), 2.5).Union(New(4, math.Inf(1)))
	assert.Equal(t, "(-inf, 2.5) (4, inf)", s.String())
}
