package dataset

import (
	"context"

	"github.com/pbanos/canopy/feature"
)

// cpuIntensiveThreshold is the sample count above which New stops copying
// samples on every subset.
const cpuIntensiveThreshold = 1000

/*
Dataset is an immutable collection of samples sharing a schema.

SubsetWith returns the samples that satisfy a criterion, leaving the receiver
untouched. Criteria returns the criteria applied so far, most recent first.

Each calls a function on every sample in turn and stops at the first error
it returns, passing that error back unchanged. FeatureValues, CountFeatureValues
and Samples may be implemented on top of it with DistinctValues, TallyValues
and Collect, although backends able to push the work down should do so.

FeatureValues lists the distinct values taken for a feature in order of first
appearance, and CountFeatureValues counts the samples per value, keyed by the
value formatted with %v.
*/
type Dataset interface {
	SubsetWith(context.Context, feature.Criterion) (Dataset, error)
	Each(context.Context, func(Sample) error) error
	FeatureValues(context.Context, feature.Feature) ([]interface{}, error)
	CountFeatureValues(context.Context, feature.Feature) (map[string]int, error)
	Samples(context.Context) ([]Sample, error)
	Count(context.Context) (int, error)
	Criteria(context.Context) ([]feature.Criterion, error)
}

/*
New takes a slice of samples and returns an in-memory dataset holding them.
Datasets over cpuIntensiveThreshold samples are CPU intensive, the rest
memory intensive.
*/
func New(samples []Sample) Dataset {
	if len(samples) > cpuIntensiveThreshold {
		return NewCPUIntensive(samples)
	}
	return NewMemoryIntensive(samples)
}

// NewMemoryIntensive returns a dataset whose subsets keep their own copy of
// the samples they select.
func NewMemoryIntensive(samples []Sample) Dataset {
	return &copyingSet{samples: samples}
}

/*
NewCPUIntensive returns a dataset whose subsets share the original slice of
samples and only record the criteria selecting them. Every traversal then
checks those criteria on each original sample, trading time for memory.
*/
func NewCPUIntensive(samples []Sample) Dataset {
	return &filteringSet{samples: samples}
}

type copyingSet struct {
	samples  []Sample
	criteria []feature.Criterion
}

func (s *copyingSet) SubsetWith(ctx context.Context, fc feature.Criterion) (Dataset, error) {
	var selected []Sample
	for _, sample := range s.samples {
		ok, err := fc.SatisfiedBy(ctx, sample)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, sample)
		}
	}
	return &copyingSet{selected, prepend(fc, s.criteria)}, nil
}

func (s *copyingSet) Each(ctx context.Context, fn func(Sample) error) error {
	for _, sample := range s.samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(sample); err != nil {
			return err
		}
	}
	return nil
}

func (s *copyingSet) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	return DistinctValues(ctx, s, f)
}

func (s *copyingSet) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	return TallyValues(ctx, s, f)
}

func (s *copyingSet) Samples(context.Context) ([]Sample, error) {
	return s.samples, nil
}

func (s *copyingSet) Count(context.Context) (int, error) {
	return len(s.samples), nil
}

func (s *copyingSet) Criteria(context.Context) ([]feature.Criterion, error) {
	return s.criteria, nil
}

type filteringSet struct {
	samples  []Sample
	criteria []feature.Criterion
}

func (s *filteringSet) SubsetWith(_ context.Context, fc feature.Criterion) (Dataset, error) {
	return &filteringSet{s.samples, prepend(fc, s.criteria)}, nil
}

func (s *filteringSet) Each(ctx context.Context, fn func(Sample) error) error {
	for _, sample := range s.samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := s.selects(ctx, sample)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err = fn(sample); err != nil {
			return err
		}
	}
	return nil
}

func (s *filteringSet) selects(ctx context.Context, sample Sample) (bool, error) {
	for _, fc := range s.criteria {
		ok, err := fc.SatisfiedBy(ctx, sample)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (s *filteringSet) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	return DistinctValues(ctx, s, f)
}

func (s *filteringSet) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	return TallyValues(ctx, s, f)
}

func (s *filteringSet) Samples(ctx context.Context) ([]Sample, error) {
	if len(s.criteria) == 0 {
		return s.samples, nil
	}
	return Collect(ctx, s)
}

func (s *filteringSet) Count(ctx context.Context) (int, error) {
	if len(s.criteria) == 0 {
		return len(s.samples), nil
	}
	n := 0
	err := s.Each(ctx, func(Sample) error {
		n++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *filteringSet) Criteria(context.Context) ([]feature.Criterion, error) {
	return s.criteria, nil
}

func prepend(fc feature.Criterion, criteria []feature.Criterion) []feature.Criterion {
	return append([]feature.Criterion{fc}, criteria...)
}
