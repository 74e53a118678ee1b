/*
Package impurity provides measures of the heterogeneity of the labels of a
dataset: entropy and Gini impurity. Both are 0 for an empty dataset or one
whose samples all share a label.
*/
package impurity

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
)

/*
Func is the signature shared by impurity measures: it takes a context, a
dataset and the label feature and returns the impurity of the dataset's
label distribution.
*/
type Func func(ctx context.Context, s dataset.Dataset, label feature.Feature) (float64, error)

/*
Entropy takes a context, a dataset and a label feature and returns the
entropy in bits of the distribution of values of the label on the dataset.
*/
func Entropy(ctx context.Context, s dataset.Dataset, label feature.Feature) (float64, error) {
	p, err := distribution(ctx, s, label)
	if err != nil || len(p) < 2 {
		return 0, err
	}
	return stat.Entropy(p) / math.Ln2, nil
}

/*
Gini takes a context, a dataset and a label feature and returns the Gini
impurity 1 - sum(p_i^2) of the distribution of values of the label on the
dataset.
*/
func Gini(ctx context.Context, s dataset.Dataset, label feature.Feature) (float64, error) {
	p, err := distribution(ctx, s, label)
	if err != nil || len(p) == 0 {
		return 0, err
	}
	result := 1.0
	for _, pi := range p {
		result -= pi * pi
	}
	return result, nil
}

/*
Weighted takes a context, the size of a whole dataset, a slice of subsets
of it, a label feature and an impurity Func and returns the impurity of every
subset weighted by its share of the whole. Empty subsets contribute nothing.
*/
func Weighted(ctx context.Context, total int, subsets []dataset.Dataset, label feature.Feature, fn Func) (float64, error) {
	if total == 0 {
		return 0, nil
	}
	var result float64
	for _, ss := range subsets {
		count, err := ss.Count(ctx)
		if err != nil {
			return 0, err
		}
		if count == 0 {
			continue
		}
		i, err := fn(ctx, ss, label)
		if err != nil {
			return 0, err
		}
		result += float64(count) / float64(total) * i
	}
	return result, nil
}

/*
Conditional takes a context, a dataset, a label feature, a continuous feature,
a threshold and an impurity Func and returns the impurity of the binary split
of the dataset into the samples whose value for the feature is below or equal
to the threshold and those above it.
*/
func Conditional(ctx context.Context, s dataset.Dataset, label feature.Feature, f *feature.ContinuousFeature, threshold float64, fn Func) (float64, error) {
	count, err := s.Count(ctx)
	if err != nil || count == 0 {
		return 0, err
	}
	below, err := s.SubsetWith(ctx, feature.NewThresholdCriterion(f, threshold, false))
	if err != nil {
		return 0, err
	}
	above, err := s.SubsetWith(ctx, feature.NewThresholdCriterion(f, threshold, true))
	if err != nil {
		return 0, err
	}
	return Weighted(ctx, count, []dataset.Dataset{below, above}, label, fn)
}

func distribution(ctx context.Context, s dataset.Dataset, label feature.Feature) ([]float64, error) {
	counts, err := s.CountFeatureValues(ctx, label)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	if total == 0 {
		return nil, nil
	}
	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		p = append(p, float64(c)/total)
	}
	return p, nil
}
