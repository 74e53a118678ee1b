package canopy

import (
	"context"
	"math"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/impurity"
)

// SelectionSplits is the number of bands each candidate feature is split
// into when ranking features by information gain.
const SelectionSplits = 10

/*
SelectFeature takes a context, a dataset, a slice of candidate continuous
features, the label feature, a SplitStrategy and an impurity.Func and
returns the candidate whose split in SelectionSplits bands yields the
highest information gain along that gain. The gain of a feature is the
impurity of the dataset minus the impurity of its partitions weighted by
their share of the dataset. Ties are resolved in favour of the candidate
that comes first.

It returns ErrNoFeatures if no candidates are given. A nil feature with a
-Inf gain is returned if no candidate has values on the dataset.
*/
func SelectFeature(ctx context.Context, s dataset.Dataset, features []*feature.ContinuousFeature, label feature.Feature, ss SplitStrategy, fn impurity.Func) (*feature.ContinuousFeature, float64, error) {
	if len(features) == 0 {
		return nil, 0, ErrNoFeatures
	}
	count, err := s.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	whole, err := fn(ctx, s, label)
	if err != nil {
		return nil, 0, err
	}
	var selected *feature.ContinuousFeature
	bestGain := math.Inf(-1)
	for _, f := range features {
		gain, err := informationGain(ctx, s, count, whole, f, label, ss, fn)
		if err != nil {
			return nil, 0, err
		}
		if gain > bestGain {
			selected = f
			bestGain = gain
		}
	}
	return selected, bestGain, nil
}

func informationGain(ctx context.Context, s dataset.Dataset, count int, whole float64, f *feature.ContinuousFeature, label feature.Feature, ss SplitStrategy, fn impurity.Func) (float64, error) {
	partitions, err := Split(ctx, s, f, label, SelectionSplits, ss)
	if err != nil {
		return 0, err
	}
	if len(partitions) == 0 {
		return math.Inf(-1), nil
	}
	subsets := make([]dataset.Dataset, 0, len(partitions))
	for _, p := range partitions {
		subsets = append(subsets, p.Dataset)
	}
	weighted, err := impurity.Weighted(ctx, count, subsets, label, fn)
	if err != nil {
		return 0, err
	}
	return whole - weighted, nil
}
