package feature

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/canopy/interval"
)

type mapSample map[string]interface{}

func (ms mapSample) ValueFor(_ context.Context, f Feature) (interface{}, error) {
	return ms[f.Name()], nil
}

func TestBandCriterionIsHalfOpen(t *testing.T) {
	ctx := context.Background()
	age := NewContinuousFeature("Age")
	c := NewBandCriterion(age, 20, 45)
	for v, expected := range map[float64]bool{19.9: false, 20: true, 44.9: true, 45: false} {
		ok, err := c.SatisfiedBy(ctx, mapSample{"Age": v})
		require.NoError(t, err)
		assert.Equal(t, expected, ok, "value %v", v)
	}
	ok, err := NewBandCriterion(age, math.Inf(-1), math.Inf(1)).SatisfiedBy(ctx, mapSample{"Age": -1e9})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIntervalCriterionIsClosed(t *testing.T) {
	ctx := context.Background()
	age := NewContinuousFeature("Age")
	c := NewIntervalCriterion(age, interval.New(20, 45).Union(interval.New(60, 70)))
	for v, expected := range map[float64]bool{20: true, 45: true, 50: false, 60: true, 71: false} {
		ok, err := c.SatisfiedBy(ctx, mapSample{"Age": v})
		require.NoError(t, err)
		assert.Equal(t, expected, ok, "value %v", v)
	}
}

func TestCriteriaRejectUndefinedValues(t *testing.T) {
	ctx := context.Background()
	age := NewContinuousFeature("Age")
	criteria := []Criterion{
		NewBandCriterion(age, math.Inf(-1), math.Inf(1)),
		NewIntervalCriterion(age, interval.Unbounded()),
		NewThresholdCriterion(age, 0, false),
	}
	for _, c := range criteria {
		for _, s := range []mapSample{{}, {"Age": "old"}, {"Age": math.NaN()}} {
			ok, err := c.SatisfiedBy(ctx, s)
			require.NoError(t, err)
			assert.False(t, ok, "%v with %v", c, s)
		}
	}
}

func TestThresholdCriterion(t *testing.T) {
	ctx := context.Background()
	age := NewContinuousFeature("Age")
	below := NewThresholdCriterion(age, 30, false)
	above := NewThresholdCriterion(age, 30, true)
	for _, v := range []float64{10, 30, 31} {
		b, err := below.SatisfiedBy(ctx, mapSample{"Age": v})
		require.NoError(t, err)
		a, err := above.SatisfiedBy(ctx, mapSample{"Age": v})
		require.NoError(t, err)
		assert.NotEqual(t, a, b, "value %v must satisfy exactly one side", v)
	}
}

func TestDiscreteFeatureValid(t *testing.T) {
	class := NewDiscreteFeature("Class", []string{"Tak", "Nie"})
	ok, err := class.Valid("Tak")
	assert.True(t, ok)
	assert.NoError(t, err)
	ok, err = class.Valid("Maybe")
	assert.False(t, ok)
	assert.Error(t, err)
	ok, err = NewDiscreteFeature("Any", nil).Valid("Maybe")
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestContinuousFeatureValid(t *testing.T) {
	age := NewContinuousFeature("Age")
	for _, v := range []interface{}{nil, 3.5, math.Inf(1)} {
		ok, err := age.Valid(v)
		assert.True(t, ok, "%v", v)
		assert.NoError(t, err, "%v", v)
	}
	for _, v := range []interface{}{"3.5", 3, math.NaN()} {
		ok, err := age.Valid(v)
		assert.False(t, ok, "%v", v)
		assert.Error(t, err, "%v", v)
	}
	assert.Equal(t, "Age", age.Name())
	assert.Equal(t, "Age", age.String())
}
