package feature

import (
	"fmt"
	"math"
)

/*
Feature is a named property observed on samples.

Valid takes a value and reports whether the feature may take it, with an
error explaining why not when it may not. A nil value stands for an
undefined value and is valid for every feature.
*/
type Feature interface {
	Name() string
	Valid(interface{}) (bool, error)
}

type named string

func (n named) Name() string {
	return string(n)
}

func (n named) String() string {
	return string(n)
}

/*
DiscreteFeature is a feature taking string values, optionally restricted to
a closed set. Labels are discrete features.
*/
type DiscreteFeature struct {
	named
	values  []string
	allowed map[string]bool
}

/*
NewDiscreteFeature takes a name and the values the feature may take and
returns the feature. Without values, any string is accepted.
*/
func NewDiscreteFeature(name string, values []string) *DiscreteFeature {
	df := &DiscreteFeature{named: named(name), values: values}
	if len(values) > 0 {
		df.allowed = make(map[string]bool, len(values))
		for _, v := range values {
			df.allowed[v] = true
		}
	}
	return df
}

// AvailableValues returns the values the feature may take, in declaration order.
func (df *DiscreteFeature) AvailableValues() []string {
	return df.values
}

func (df *DiscreteFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	s, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("feature %s takes strings, not %T", df, value)
	}
	if df.allowed != nil && !df.allowed[s] {
		return false, fmt.Errorf("feature %s cannot take value %q", df, s)
	}
	return true, nil
}

/*
ContinuousFeature is a feature taking float64 values. Only continuous
features are split on.
*/
type ContinuousFeature struct {
	named
}

// NewContinuousFeature returns a continuous feature with the given name.
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{named(name)}
}

func (cf *ContinuousFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	f, ok := value.(float64)
	if !ok {
		return false, fmt.Errorf("feature %s takes float64 values, not %T", cf, value)
	}
	if math.IsNaN(f) {
		return false, fmt.Errorf("feature %s cannot take NaN", cf)
	}
	return true, nil
}
