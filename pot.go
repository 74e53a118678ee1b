package canopy

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/interval"
	"github.com/pbanos/canopy/tree"
)

/*
Pot represents the context in which a tree is grown.

Its Grow method takes a context and a dataset and returns a merged tree that
predicts the label of the dataset's samples, or an error.
*/
type Pot interface {
	Grow(context.Context, dataset.Dataset) (*tree.Tree, error)
}

type pot struct {
	features []*feature.ContinuousFeature
	label    feature.Feature
	Options
}

/*
New takes a slice of features, a label feature and Options and returns a Pot
that uses those to grow trees, or a ConfigError if the options are invalid
or any of the features is not continuous.
*/
func New(features []feature.Feature, label feature.Feature, o Options) (Pot, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if label == nil {
		return nil, configErrorf("no label feature")
	}
	cfs := make([]*feature.ContinuousFeature, 0, len(features))
	for _, f := range features {
		cf, ok := f.(*feature.ContinuousFeature)
		if !ok {
			return nil, configErrorf("feature %s cannot be used to split samples: only continuous features can", f.Name())
		}
		if f.Name() == label.Name() {
			return nil, configErrorf("label feature %s cannot be used to split samples", f.Name())
		}
		cfs = append(cfs, cf)
	}
	return &pot{cfs, label, o.withDefaults()}, nil
}

/*
Grow takes a context and a dataset, develops a tree from the root down and
then merges it with tree.Merge. It returns a ConfigError if the dataset is
empty and the context's error if it is cancelled while growing.
*/
func (p *pot) Grow(ctx context.Context, s dataset.Dataset) (*tree.Tree, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, configErrorf("cannot grow a tree from an empty dataset")
	}
	p.Logger.WithFields(logrus.Fields{"samples": count, "features": len(p.features)}).Debug("growing tree")
	root, err := p.develop(ctx, s, p.features, interval.Set{}, 1)
	if err != nil {
		return nil, err
	}
	return tree.New(tree.Merge(root), p.label), nil
}

func (p *pot) develop(ctx context.Context, s dataset.Dataset, features []*feature.ContinuousFeature, r interval.Set, depth int) (tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	label, single, err := dataset.SingleValue(ctx, s, p.label)
	if err != nil {
		return nil, err
	}
	if single {
		return &tree.Leaf{Label: label, Range: r}, nil
	}
	stop, err := p.exhausted(ctx, s, features, depth)
	if err != nil {
		return nil, err
	}
	if stop {
		return p.leaf(ctx, s, r)
	}
	f, gain, err := SelectFeature(ctx, s, features, p.label, p.Strategy, p.Impurity)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return p.leaf(ctx, s, r)
	}
	partitions, err := Split(ctx, s, f, p.label, p.NumSplits, p.Strategy)
	if err != nil {
		return nil, err
	}
	if len(partitions) == 0 {
		return p.leaf(ctx, s, r)
	}
	p.Logger.WithFields(logrus.Fields{
		"depth":      depth,
		"feature":    f.Name(),
		"gain":       gain,
		"partitions": len(partitions),
	}).Debug("feature selected")
	remaining := make([]*feature.ContinuousFeature, 0, len(features)-1)
	for _, rf := range features {
		if rf != f {
			remaining = append(remaining, rf)
		}
	}
	node := &tree.Internal{Feature: f, Range: r, Children: make([]tree.Node, 0, len(partitions))}
	for _, part := range partitions {
		child, err := p.develop(ctx, part.Dataset, remaining, part.Interval, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// exhausted reports whether a node with impure samples must still become
// a leaf: no features are left, the samples are indistinguishable or the
// maximum depth has been reached.
func (p *pot) exhausted(ctx context.Context, s dataset.Dataset, features []*feature.ContinuousFeature, depth int) (bool, error) {
	if len(features) == 0 || (p.MaxDepth > 0 && depth >= p.MaxDepth) {
		return true, nil
	}
	all := make([]feature.Feature, 0, len(p.features))
	for _, f := range p.features {
		all = append(all, f)
	}
	return dataset.Uniform(ctx, s, all)
}

func (p *pot) leaf(ctx context.Context, s dataset.Dataset, r interval.Set) (tree.Node, error) {
	label, err := dataset.MostCommonValue(ctx, s, p.label)
	if err != nil {
		return nil, err
	}
	return &tree.Leaf{Label: label, Range: r}, nil
}
