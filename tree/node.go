package tree

import (
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/interval"
)

/*
Node is a node of the tree: either a *Leaf or an *Internal node.

Its Interval method returns the values of the parent node's feature that
lead to the node. The root node has a zero interval.Set.
*/
type Node interface {
	Interval() interval.Set
	node()
}

/*
Leaf is a terminal node predicting a label
*/
type Leaf struct {
	// The predicted value of the label feature
	Label string
	// The values of the parent's feature leading to this leaf
	Range interval.Set
}

/*
Internal is a decision node that routes samples to one of its children
according to their value for a continuous feature.
*/
type Internal struct {
	// The feature whose value selects a child
	Feature *feature.ContinuousFeature
	// The values of the parent's feature leading to this node
	Range interval.Set
	// The children, in the order of the bands they were grown from
	Children []Node
}

func (l *Leaf) Interval() interval.Set {
	return l.Range
}

func (n *Internal) Interval() interval.Set {
	return n.Range
}

func (*Leaf) node()     {}
func (*Internal) node() {}
