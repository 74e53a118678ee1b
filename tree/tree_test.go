package tree

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/interval"
)

var (
	inf   = math.Inf(1)
	age   = feature.NewContinuousFeature("Age")
	class = feature.NewDiscreteFeature("Class", []string{"Tak", "Nie"})
)

func leaf(label string, lo, hi float64) *Leaf {
	return &Leaf{Label: label, Range: interval.New(lo, hi)}
}

func ageSample(v interface{}) dataset.Sample {
	return dataset.NewSample(map[string]interface{}{"Age": v})
}

func TestClassifyDescendsByIntervalMembership(t *testing.T) {
	ctx := context.Background()
	tr := New(&Internal{
		Feature: age,
		Children: []Node{
			leaf("Tak", -inf, 32.5),
			leaf("Nie", 32.5, inf),
		},
	}, class)
	label, err := tr.Classify(ctx, ageSample(20.0))
	require.NoError(t, err)
	assert.Equal(t, "Tak", label)
	label, err = tr.Classify(ctx, ageSample(60.0))
	require.NoError(t, err)
	assert.Equal(t, "Nie", label)
	label, err = tr.Classify(ctx, ageSample(32.5))
	require.NoError(t, err)
	assert.Equal(t, "Tak", label, "boundary values go to the first matching child")
}

func TestClassifyMissReportsNoPrediction(t *testing.T) {
	ctx := context.Background()
	tr := New(&Internal{
		Feature:  age,
		Children: []Node{leaf("Tak", 0, 10), leaf("Nie", 20, 30)},
	}, class)
	for _, v := range []interface{}{15.0, nil, "twelve"} {
		label, err := tr.Classify(ctx, ageSample(v))
		assert.ErrorIs(t, err, ErrNoPrediction)
		assert.Empty(t, label)
	}
}

func TestMergeFoldsSameLabelSiblings(t *testing.T) {
	root := &Internal{
		Feature: age,
		Children: []Node{
			leaf("Tak", -inf, 10),
			leaf("Nie", 10, 20),
			leaf("Tak", 20, 30),
			leaf("Nie", 30, inf),
		},
	}
	merged := Merge(root).(*Internal)
	require.Len(t, merged.Children, 2)
	tak := merged.Children[0].(*Leaf)
	nie := merged.Children[1].(*Leaf)
	assert.Equal(t, "Tak", tak.Label)
	assert.Equal(t, []interval.Range{{Lo: -inf, Hi: 10}, {Lo: 20, Hi: 30}}, tak.Range.Ranges())
	assert.Equal(t, "Nie", nie.Label)
	assert.Equal(t, []interval.Range{{Lo: 10, Hi: 20}, {Lo: 30, Hi: inf}}, nie.Range.Ranges())
	assert.Len(t, root.Children, 4, "the merged subtree must not be altered")
}

func TestMergeCollapsesSingleLeafChildIntoParent(t *testing.T) {
	weight := feature.NewContinuousFeature("Weight")
	root := &Internal{
		Feature: age,
		Children: []Node{
			&Internal{
				Feature: weight,
				Range:   interval.New(-inf, 40),
				Children: []Node{
					leaf("Tak", -inf, 50),
					leaf("Tak", 50, inf),
				},
			},
			leaf("Tak", 40, inf),
		},
	}
	merged := Merge(root)
	l, ok := merged.(*Leaf)
	require.True(t, ok, "the cascade should collapse the whole tree, got %T", merged)
	assert.Equal(t, "Tak", l.Label)
	assert.True(t, l.Range.IsZero(), "the root keeps its own interval")
}

func TestMergeKeepsInternalSiblings(t *testing.T) {
	weight := feature.NewContinuousFeature("Weight")
	root := &Internal{
		Feature: age,
		Children: []Node{
			leaf("Tak", -inf, 10),
			&Internal{
				Feature:  weight,
				Range:    interval.New(10, 20),
				Children: []Node{leaf("Tak", -inf, 50), leaf("Nie", 50, inf)},
			},
			leaf("Tak", 20, inf),
		},
	}
	merged := Merge(root).(*Internal)
	require.Len(t, merged.Children, 2)
	assert.IsType(t, &Leaf{}, merged.Children[0])
	assert.IsType(t, &Internal{}, merged.Children[1])
	assert.Equal(t, []interval.Range{{Lo: -inf, Hi: 10}, {Lo: 20, Hi: inf}}, merged.Children[0].Interval().Ranges())
}

func TestMergeIsIdempotent(t *testing.T) {
	weight := feature.NewContinuousFeature("Weight")
	root := &Internal{
		Feature: age,
		Children: []Node{
			leaf("Tak", -inf, 10),
			&Internal{
				Feature:  weight,
				Range:    interval.New(10, 20),
				Children: []Node{leaf("Nie", -inf, 50), leaf("Tak", 50, 60), leaf("Nie", 60, inf)},
			},
			leaf("Nie", 20, 30),
			leaf("Tak", 30, inf),
		},
	}
	once := Merge(root)
	twice := Merge(once)
	assert.Equal(t, once, twice)
}

func TestStringRendersConnectors(t *testing.T) {
	tr := New(&Internal{
		Feature: age,
		Children: []Node{
			leaf("Tak", -inf, 32.5),
			leaf("Nie", 32.5, inf),
		},
	}, class)
	lines := strings.Split(strings.TrimSpace(tr.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "└──┐ Age", lines[0])
	assert.Equal(t, "   ├── Tak (-inf, 32.5)", lines[1])
	assert.Equal(t, "   └── Nie (32.5, inf)", lines[2])
}

func TestDepthAndLeafCount(t *testing.T) {
	weight := feature.NewContinuousFeature("Weight")
	tr := New(&Internal{
		Feature: age,
		Children: []Node{
			leaf("Tak", -inf, 10),
			&Internal{
				Feature:  weight,
				Range:    interval.New(10, inf),
				Children: []Node{leaf("Nie", -inf, 50), leaf("Tak", 50, inf)},
			},
		},
	}, class)
	assert.Equal(t, 3, tr.Depth())
	assert.Equal(t, 3, tr.LeafCount())
	assert.Equal(t, 1, New(leaf("Tak", 0, 0), class).Depth())
}
