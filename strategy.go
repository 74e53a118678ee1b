package canopy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/impurity"
)

/*
SplitStrategy is an interface wrapping the Thresholds method, which decides
where to cut the range of a continuous feature.

The Thresholds method takes a context, a dataset, a continuous feature, the
label feature and a number of splits n and returns n+1 ascending thresholds
delimiting n bands. The first and last thresholds are replaced with -Inf and
+Inf by Split, so only the inner ones are significant.
*/
type SplitStrategy interface {
	Thresholds(ctx context.Context, s dataset.Dataset, f *feature.ContinuousFeature, label feature.Feature, n int) ([]float64, error)
}

/*
SplitStrategyFunc wraps a function with the Thresholds method signature to
implement the SplitStrategy interface
*/
type SplitStrategyFunc func(ctx context.Context, s dataset.Dataset, f *feature.ContinuousFeature, label feature.Feature, n int) ([]float64, error)

/*
Thresholds invokes the SplitStrategyFunc with the given parameters and
returns its result.
*/
func (ssf SplitStrategyFunc) Thresholds(ctx context.Context, s dataset.Dataset, f *feature.ContinuousFeature, label feature.Feature, n int) ([]float64, error) {
	return ssf(ctx, s, f, label, n)
}

/*
QuantileStrategy returns a SplitStrategy that places the thresholds at the
i/n quantiles of the values of the feature on the dataset, for i in 0..n,
linearly interpolating between observed values. The label is ignored.
*/
func QuantileStrategy() SplitStrategy {
	return SplitStrategyFunc(func(ctx context.Context, s dataset.Dataset, f *feature.ContinuousFeature, _ feature.Feature, n int) ([]float64, error) {
		values, err := dataset.ContinuousValues(ctx, s, f)
		if err != nil {
			return nil, err
		}
		thresholds := make([]float64, n+1)
		if len(values) == 0 {
			return thresholds, nil
		}
		sort.Float64s(values)
		for i := range thresholds {
			thresholds[i] = stat.Quantile(float64(i)/float64(n), stat.LinInterp, values, nil)
		}
		return thresholds, nil
	})
}

/*
ImpurityStrategy takes an impurity.Func and returns a SplitStrategy that
divides the observed range of the feature into n+1 equal-width sub-bands,
takes their midpoints as candidate thresholds, ranks the candidates by the
impurity of the binary split they produce (lowest first, ties keeping their
order) and returns the best n+1 of them in ascending order.
*/
func ImpurityStrategy(fn impurity.Func) SplitStrategy {
	return SplitStrategyFunc(func(ctx context.Context, s dataset.Dataset, f *feature.ContinuousFeature, label feature.Feature, n int) ([]float64, error) {
		values, err := dataset.ContinuousValues(ctx, s, f)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return make([]float64, n+1), nil
		}
		lo, hi := floats.Min(values), floats.Max(values)
		width := (hi - lo) / float64(n+1)
		type candidate struct {
			threshold, impurity float64
		}
		candidates := make([]candidate, 0, n+1)
		for i := 0; i <= n; i++ {
			threshold := lo + (float64(i)+0.5)*width
			ci, err := impurity.Conditional(ctx, s, label, f, threshold, fn)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, candidate{threshold, ci})
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].impurity < candidates[j].impurity
		})
		thresholds := make([]float64, 0, n+1)
		for _, c := range candidates[:n+1] {
			thresholds = append(thresholds, c.threshold)
		}
		sort.Float64s(thresholds)
		return thresholds, nil
	})
}

// EntropyStrategy returns an ImpurityStrategy ranking thresholds by entropy.
func EntropyStrategy() SplitStrategy {
	return ImpurityStrategy(impurity.Entropy)
}

// GiniStrategy returns an ImpurityStrategy ranking thresholds by Gini impurity.
func GiniStrategy() SplitStrategy {
	return ImpurityStrategy(impurity.Gini)
}

/*
ParseSplitStrategy takes the name of a split strategy and returns it: "equal"
or "quantile" for QuantileStrategy, "entropy" for EntropyStrategy and "gini"
for GiniStrategy. Any other name returns a ConfigError.
*/
func ParseSplitStrategy(name string) (SplitStrategy, error) {
	switch strings.ToLower(name) {
	case "equal", "quantile":
		return QuantileStrategy(), nil
	case "entropy":
		return EntropyStrategy(), nil
	case "gini":
		return GiniStrategy(), nil
	}
	return nil, configErrorf("unknown split strategy %q", name)
}

/*
ParseImpurity takes the name of an impurity measure, "entropy" or "gini", and
returns the corresponding impurity.Func or a ConfigError.
*/
func ParseImpurity(name string) (impurity.Func, error) {
	switch strings.ToLower(name) {
	case "entropy":
		return impurity.Entropy, nil
	case "gini":
		return impurity.Gini, nil
	}
	return nil, configErrorf("unknown impurity measure %q", name)
}

func checkThresholds(thresholds []float64, n int) error {
	if len(thresholds) != n+1 {
		return fmt.Errorf("split strategy returned %d thresholds for %d splits", len(thresholds), n)
	}
	return nil
}
