package canopy

import (
	"io/ioutil"

	"github.com/sirupsen/logrus"

	"github.com/pbanos/canopy/impurity"
)

// DefaultNumSplits is the number of bands a node's samples are split into
// when Options does not set one.
const DefaultNumSplits = 2

/*
Options holds the configuration with which a Pot grows trees
*/
type Options struct {
	// Strategy decides the thresholds used to split continuous features,
	// both to select a node's feature and to split the node's samples.
	// Defaults to QuantileStrategy.
	Strategy SplitStrategy
	// NumSplits is the number of bands a node's samples are split into. It
	// must be at least 2. Defaults to DefaultNumSplits.
	NumSplits int
	// MaxDepth limits the number of nodes on a path from the root to a
	// leaf. 0 means unbounded.
	MaxDepth int
	// Impurity is the measure with which information gain is computed to
	// select a node's feature. Defaults to impurity.Entropy.
	Impurity impurity.Func
	// Logger receives debug records for every developed node. Defaults to
	// a logger discarding everything.
	Logger logrus.FieldLogger
}

/*
Validate returns a ConfigError if the options can never be used to grow a
tree, and nil otherwise. Unset fields are not errors: they take their
defaults.
*/
func (o Options) Validate() error {
	if o.NumSplits != 0 && o.NumSplits < 2 {
		return configErrorf("number of splits must be at least 2, got %d", o.NumSplits)
	}
	if o.MaxDepth < 0 {
		return configErrorf("maximum depth must be positive or 0 for unbounded, got %d", o.MaxDepth)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Strategy == nil {
		o.Strategy = QuantileStrategy()
	}
	if o.NumSplits == 0 {
		o.NumSplits = DefaultNumSplits
	}
	if o.Impurity == nil {
		o.Impurity = impurity.Entropy
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(ioutil.Discard)
		o.Logger = l
	}
	return o
}
