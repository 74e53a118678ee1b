package impurity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
)

var (
	age   = feature.NewContinuousFeature("Age")
	class = feature.NewDiscreteFeature("Class", []string{"Tak", "Nie"})
)

func labelled(ages []float64, labels ...string) dataset.Dataset {
	samples := make([]dataset.Sample, 0, len(labels))
	for i, l := range labels {
		samples = append(samples, dataset.NewSample(map[string]interface{}{"Age": ages[i], "Class": l}))
	}
	return dataset.New(samples)
}

func TestEntropyOfBalancedBinaryDistributionIsOneBit(t *testing.T) {
	s := labelled([]float64{1, 2, 3, 4}, "Tak", "Tak", "Nie", "Nie")
	e, err := Entropy(context.Background(), s, class)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, e, 1e-12)
}

func TestEntropyOfFourClassesIsTwoBits(t *testing.T) {
	s := labelled([]float64{1, 2, 3, 4}, "a", "b", "c", "d")
	e, err := Entropy(context.Background(), s, class)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, e, 1e-12)
}

func TestImpurityOfPureAndEmptyDatasetsIsZero(t *testing.T) {
	ctx := context.Background()
	for _, fn := range []Func{Entropy, Gini} {
		for _, s := range []dataset.Dataset{
			labelled(nil),
			labelled([]float64{1}, "Tak"),
			labelled([]float64{1, 2, 3, 4, 5}, "Nie", "Nie", "Nie", "Nie", "Nie"),
		} {
			i, err := fn(ctx, s, class)
			require.NoError(t, err)
			assert.Equal(t, 0.0, i)
		}
	}
}

func TestGini(t *testing.T) {
	s := labelled([]float64{1, 2, 3, 4}, "Tak", "Tak", "Tak", "Nie")
	g, err := Gini(context.Background(), s, class)
	require.NoError(t, err)
	assert.InDelta(t, 1-(0.75*0.75+0.25*0.25), g, 1e-12)
}

func TestConditional(t *testing.T) {
	ctx := context.Background()
	s := labelled([]float64{20, 45, 60, 70}, "Tak", "Nie", "Nie", "Tak")

	e, err := Conditional(ctx, s, class, age, 30, Entropy)
	require.NoError(t, err)
	// {Tak} | {Nie, Nie, Tak}
	assert.InDelta(t, 0.75*0.9182958340544896, e, 1e-12)

	e, err = Conditional(ctx, s, class, age, 100, Entropy)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, e, 1e-12)

	g, err := Conditional(ctx, s, class, age, 65, Gini)
	require.NoError(t, err)
	// {Tak, Nie, Nie} | {Tak}
	assert.InDelta(t, 0.75*(1-(1.0/9+4.0/9)), g, 1e-12)
}

func TestWeightedSkipsEmptySubsets(t *testing.T) {
	ctx := context.Background()
	whole := labelled([]float64{1, 2, 3, 4}, "Tak", "Tak", "Nie", "Nie")
	w, err := Weighted(ctx, 4, []dataset.Dataset{labelled(nil), whole}, class, Entropy)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, w, 1e-12)
}
