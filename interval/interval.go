/*
Package interval provides sets of closed numeric ranges, used to label the
edges of a tree with the values of a continuous feature that lead through them.
*/
package interval

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

/*
Range is a closed range of float64 values [Lo, Hi]. Either end can be
infinite to represent an unbounded tail.
*/
type Range struct {
	Lo, Hi float64
}

/*
Set is an ordered sequence of disjoint ranges. Sets are values: Union
returns a new Set and never alters its operands.

The zero Set holds no ranges and contains no value.
*/
type Set struct {
	ranges []Range
}

/*
New takes the lo and hi ends of a range and returns a Set holding only
that range.
*/
func New(lo, hi float64) Set {
	return Set{[]Range{{lo, hi}}}
}

// Unbounded returns the Set covering every value, (-Inf, +Inf).
func Unbounded() Set {
	return New(math.Inf(-1), math.Inf(1))
}

/*
Union takes another Set and returns a new Set with the ranges of both
coalesced: they are sorted by their lo and hi ends and any range starting
at or before the end of the one preceding it is merged into it.
*/
func (s Set) Union(o Set) Set {
	ranges := make([]Range, 0, len(s.ranges)+len(o.ranges))
	ranges = append(ranges, s.ranges...)
	ranges = append(ranges, o.ranges...)
	if len(ranges) == 0 {
		return Set{}
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Lo != ranges[j].Lo {
			return ranges[i].Lo < ranges[j].Lo
		}
		return ranges[i].Hi < ranges[j].Hi
	})
	merged := make([]Range, 0, len(ranges))
	current := ranges[0]
	for _, r := range ranges[1:] {
		if r.Lo <= current.Hi {
			current.Hi = math.Max(current.Hi, r.Hi)
			continue
		}
		merged = append(merged, current)
		current = r
	}
	merged = append(merged, current)
	return Set{merged}
}

/*
Contains takes a float64 value and returns whether any range of the set
includes it, both ends included.
*/
func (s Set) Contains(v float64) bool {
	for _, r := range s.ranges {
		if r.Lo <= v && v <= r.Hi {
			return true
		}
	}
	return false
}

// Ranges returns a copy of the ranges in the set.
func (s Set) Ranges() []Range {
	result := make([]Range, len(s.ranges))
	copy(result, s.ranges)
	return result
}

// IsZero reports whether the set holds no ranges.
func (s Set) IsZero() bool {
	return len(s.ranges) == 0
}

// Equal reports whether both sets hold the same ranges.
func (s Set) Equal(o Set) bool {
	if len(s.ranges) != len(o.ranges) {
		return false
	}
	for i, r := range s.ranges {
		if r != o.ranges[i] {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	parts := make([]string, 0, len(s.ranges))
	for _, r := range s.ranges {
		parts = append(parts, fmt.Sprintf("(%s, %s)", formatBound(r.Lo), formatBound(r.Hi)))
	}
	return strings.Join(parts, " ")
}

func formatBound(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "inf"
	}
	return fmt.Sprintf("%g", v)
}
