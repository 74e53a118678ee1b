package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/pbanos/canopy/feature"
)

// errStop ends an Each traversal early without reporting a failure.
var errStop = errors.New("stop")

func each(ctx context.Context, s Dataset, fn func(Sample) error) error {
	err := s.Each(ctx, fn)
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}

/*
DistinctValues takes a context, a dataset and a feature and returns the
distinct values the samples take for the feature, in order of first
appearance. Values are told apart by their %v formatting.
*/
func DistinctValues(ctx context.Context, s Dataset, f feature.Feature) ([]interface{}, error) {
	result := []interface{}{}
	seen := make(map[string]bool)
	err := each(ctx, s, func(sample Sample) error {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("%v", v)
		if !seen[key] {
			seen[key] = true
			result = append(result, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TallyValues counts the samples of the dataset per value of the feature,
// keyed by the value formatted with %v.
func TallyValues(ctx context.Context, s Dataset, f feature.Feature) (map[string]int, error) {
	result := make(map[string]int)
	err := each(ctx, s, func(sample Sample) error {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return err
		}
		result[fmt.Sprintf("%v", v)]++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Collect gathers the samples of the dataset in a slice.
func Collect(ctx context.Context, s Dataset) ([]Sample, error) {
	var result []Sample
	err := each(ctx, s, func(sample Sample) error {
		result = append(result, sample)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

/*
MostCommonValue takes a context, a dataset and a feature and returns the
value taken by the most samples for the feature, formatted with %v. Ties are
resolved in favour of the value encountered first. An empty dataset yields
an empty string.
*/
func MostCommonValue(ctx context.Context, s Dataset, f feature.Feature) (string, error) {
	var order []string
	counts := make(map[string]int)
	err := each(ctx, s, func(sample Sample) error {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("%v", v)
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
		return nil
	})
	if err != nil {
		return "", err
	}
	var result string
	best := 0
	for _, key := range order {
		if counts[key] > best {
			best = counts[key]
			result = key
		}
	}
	return result, nil
}

/*
SingleValue takes a context, a dataset and a feature and returns the value
all samples share for the feature, formatted with %v, and true; or false if
the samples disagree or the dataset is empty. The traversal stops at the
first disagreement.
*/
func SingleValue(ctx context.Context, s Dataset, f feature.Feature) (string, bool, error) {
	var first string
	found, single := false, true
	err := each(ctx, s, func(sample Sample) error {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("%v", v)
		if !found {
			first, found = key, true
			return nil
		}
		if key != first {
			single = false
			return errStop
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	if !found || !single {
		return "", false, nil
	}
	return first, true, nil
}

/*
Uniform takes a context, a dataset and a slice of features and returns
whether every sample in the dataset takes the same value for each of them.
*/
func Uniform(ctx context.Context, s Dataset, features []feature.Feature) (bool, error) {
	for _, f := range features {
		_, single, err := SingleValue(ctx, s, f)
		if err != nil {
			return false, err
		}
		if !single {
			empty, err := isEmpty(ctx, s)
			if err != nil || !empty {
				return false, err
			}
		}
	}
	return true, nil
}

func isEmpty(ctx context.Context, s Dataset) (bool, error) {
	empty := true
	err := each(ctx, s, func(Sample) error {
		empty = false
		return errStop
	})
	return empty, err
}

// ContinuousValues returns the defined float64 values of the samples in the
// dataset for the given feature, in sample order.
func ContinuousValues(ctx context.Context, s Dataset, f feature.Feature) ([]float64, error) {
	var result []float64
	err := each(ctx, s, func(sample Sample) error {
		v, ok, err := feature.ContinuousValue(ctx, sample, f)
		if err != nil {
			return err
		}
		if ok {
			result = append(result, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
