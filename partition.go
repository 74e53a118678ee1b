package canopy

import (
	"context"
	"math"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/interval"
)

/*
Partition represents one of the parts in which Split divides a dataset: the
samples whose value for the split feature falls in a band, and the interval
of values that lead to them.
*/
type Partition struct {
	Dataset  dataset.Dataset
	Interval interval.Set
}

/*
Split takes a context, a dataset, a continuous feature, the label feature, a
number of splits n and a SplitStrategy and returns the partitions of the
dataset into the n bands [t_i, t_i+1) delimited by the thresholds of the
strategy, with the first and last thresholds replaced by -Inf and +Inf.

Bands without samples are not returned: their interval is added to the
closest preceding band with samples, or, for leading empty bands, to the
first band with samples. Leading empty bands are absorbed rather than dropped,
so values below the first populated band still lead to a partition and the
intervals of the returned partitions cover every value. Samples without a
value for the feature belong to no partition.
*/
func Split(ctx context.Context, s dataset.Dataset, f *feature.ContinuousFeature, label feature.Feature, n int, ss SplitStrategy) ([]*Partition, error) {
	if n < 2 {
		return nil, configErrorf("number of splits must be at least 2, got %d", n)
	}
	strategyThresholds, err := ss.Thresholds(ctx, s, f, label, n)
	if err != nil {
		return nil, err
	}
	if err = checkThresholds(strategyThresholds, n); err != nil {
		return nil, err
	}
	thresholds := append([]float64{}, strategyThresholds...)
	thresholds[0], thresholds[n] = math.Inf(-1), math.Inf(1)
	var result []*Partition
	var pending interval.Set
	for i := 0; i < n; i++ {
		band := interval.New(thresholds[i], thresholds[i+1])
		subset, err := s.SubsetWith(ctx, feature.NewBandCriterion(f, thresholds[i], thresholds[i+1]))
		if err != nil {
			return nil, err
		}
		count, err := subset.Count(ctx)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			if len(result) == 0 {
				pending = pending.Union(band)
			} else {
				last := result[len(result)-1]
				last.Interval = last.Interval.Union(band)
			}
			continue
		}
		result = append(result, &Partition{subset, pending.Union(band)})
		pending = interval.Set{}
	}
	return result, nil
}
