/*
Package bio reads the datasets trees are grown from.
*/
package bio

import (
	"fmt"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
)

/*
SetGenerator is a function that takes a slice of samples
and generates a dataset with them.
*/
type SetGenerator func([]dataset.Sample) dataset.Dataset

/*
Set is a dataset together with the features describing it: the input
features to grow a tree on and the label feature the tree must predict.

Sets backed by a database hold its connection until closed.
*/
type Set struct {
	Dataset dataset.Dataset
	Inputs  []feature.Feature
	Label   feature.Feature
	closer  func() error
}

// Close releases the connection behind the set, if any.
func (s *Set) Close() error {
	if s.closer == nil {
		return nil
	}
	closer := s.closer
	s.closer = nil
	return closer()
}

func (sg SetGenerator) generate(samples []dataset.Sample) dataset.Dataset {
	if sg == nil {
		return dataset.New(samples)
	}
	return sg(samples)
}

func featureSliceToMap(features []feature.Feature) map[string]feature.Feature {
	result := make(map[string]feature.Feature)
	for _, f := range features {
		result[f.Name()] = f
	}
	return result
}

func splitLabel(features []feature.Feature, label string) ([]feature.Feature, feature.Feature, error) {
	var inputs []feature.Feature
	var lf feature.Feature
	for _, f := range features {
		if f.Name() == label {
			lf = f
			continue
		}
		inputs = append(inputs, f)
	}
	if lf == nil {
		return nil, nil, fmt.Errorf("label feature %q is not defined", label)
	}
	return inputs, lf, nil
}
