package feature

import (
	"context"
	"fmt"
	"math"

	"github.com/pbanos/canopy/interval"
)

/*
Criterion represents a constraint on a feature

Its SatisfiedBy method takes a sample and returns a boolean indicating if
the given value satisfies the feature criterion.

Its Feature method returns the feature on which the criterion is applied.
*/
type Criterion interface {
	Feature() Feature
	SatisfiedBy(ctx context.Context, sample Sample) (bool, error)
}

/*
Sample is an interface for something that can satisfy a Criterion.

Its ValueFor method returns the value corresponding to the feature
passed as parameter, or nil if the sample does not define one.
*/
type Sample interface {
	ValueFor(context.Context, Feature) (interface{}, error)
}

/*
BandCriterion represents a constraint on a continuous feature to a half-open
band [a, b). Either end can be infinite.

Its Band method returns the start and end of the band.
*/
type BandCriterion interface {
	Criterion
	Band() (float64, float64)
}

/*
IntervalCriterion represents a constraint on a continuous feature to the
values of an interval.Set, both ends of every range included.
*/
type IntervalCriterion interface {
	Criterion
	Interval() interval.Set
}

/*
ThresholdCriterion represents a constraint on a continuous feature to the
values below or equal to a threshold, or above it when negated.
*/
type ThresholdCriterion interface {
	Criterion
	Threshold() (float64, bool)
}

type bandCriterion struct {
	feature *ContinuousFeature
	a, b    float64
}

type intervalCriterion struct {
	feature *ContinuousFeature
	set     interval.Set
}

type thresholdCriterion struct {
	feature   *ContinuousFeature
	threshold float64
	above     bool
}

/*
NewBandCriterion takes a ContinuousFeature feature and a pair of float64
values indicating the start and the end of a band and returns a BandCriterion
satisfied by values v with a <= v < b. The band can be open on any end by
providing -Inf and/or +Inf.
*/
func NewBandCriterion(feature *ContinuousFeature, a, b float64) BandCriterion {
	return &bandCriterion{feature, a, b}
}

/*
NewIntervalCriterion takes a ContinuousFeature and an interval.Set and
returns an IntervalCriterion satisfied by values contained in the set.
*/
func NewIntervalCriterion(feature *ContinuousFeature, set interval.Set) IntervalCriterion {
	return &intervalCriterion{feature, set}
}

/*
NewThresholdCriterion takes a ContinuousFeature, a threshold and an above flag
and returns a ThresholdCriterion satisfied by values v <= threshold, or by
values v > threshold if above is true.
*/
func NewThresholdCriterion(feature *ContinuousFeature, threshold float64, above bool) ThresholdCriterion {
	return &thresholdCriterion{feature, threshold, above}
}

// ContinuousValue takes a context, a sample and a feature and returns the
// sample's float64 value for the feature and true, or false if the sample
// does not define a numeric value for it.
func ContinuousValue(ctx context.Context, sample Sample, f Feature) (float64, bool, error) {
	val, err := sample.ValueFor(ctx, f)
	if err != nil {
		return 0, false, err
	}
	floatVal, ok := val.(float64)
	if !ok || math.IsNaN(floatVal) {
		return 0, false, nil
	}
	return floatVal, true, nil
}

func (bc *bandCriterion) Feature() Feature {
	return bc.feature
}

/*
SatisfiedBy receives a sample as parameter and returns a boolean indicating if the
sample satisfies the criterion. Specifically, it returns false if the sample does
not define a value for the feature, true if the value, being a float64, is in the
band defined by the criterion; and false otherwise.
*/
func (bc *bandCriterion) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	v, ok, err := ContinuousValue(ctx, sample, bc.feature)
	if err != nil || !ok {
		return false, err
	}
	return bc.a <= v && v < bc.b, nil
}

func (bc *bandCriterion) Band() (float64, float64) {
	return bc.a, bc.b
}

func (bc *bandCriterion) String() string {
	if math.IsInf(bc.a, -1) {
		return fmt.Sprintf("%s < %g", bc.feature.Name(), bc.b)
	}
	if math.IsInf(bc.b, 1) {
		return fmt.Sprintf("%g <= %s", bc.a, bc.feature.Name())
	}
	return fmt.Sprintf("%g <= %s < %g", bc.a, bc.feature.Name(), bc.b)
}

func (ic *intervalCriterion) Feature() Feature {
	return ic.feature
}

/*
SatisfiedBy receives a sample as parameter and returns true if the sample's
value for the feature is a float64 contained in the criterion's interval set,
and false otherwise.
*/
func (ic *intervalCriterion) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	v, ok, err := ContinuousValue(ctx, sample, ic.feature)
	if err != nil || !ok {
		return false, err
	}
	return ic.set.Contains(v), nil
}

func (ic *intervalCriterion) Interval() interval.Set {
	return ic.set
}

func (ic *intervalCriterion) String() string {
	return fmt.Sprintf("%s in %v", ic.feature.Name(), ic.set)
}

func (tc *thresholdCriterion) Feature() Feature {
	return tc.feature
}

func (tc *thresholdCriterion) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	v, ok, err := ContinuousValue(ctx, sample, tc.feature)
	if err != nil || !ok {
		return false, err
	}
	if tc.above {
		return v > tc.threshold, nil
	}
	return v <= tc.threshold, nil
}

func (tc *thresholdCriterion) Threshold() (float64, bool) {
	return tc.threshold, tc.above
}

func (tc *thresholdCriterion) String() string {
	if tc.above {
		return fmt.Sprintf("%s > %g", tc.feature.Name(), tc.threshold)
	}
	return fmt.Sprintf("%s <= %g", tc.feature.Name(), tc.threshold)
}
