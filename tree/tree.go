package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/canopy/feature"
)

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrNoPrediction is the error returned when classifying a sample whose value
for a node's feature is not contained in any of the node's children
intervals, or is undefined. It signals an absent prediction: no label is
returned with it.
*/
const ErrNoPrediction = PredictionError("no prediction available for this kind of sample")

func (pe PredictionError) Error() string {
	return string(pe)
}

// Tree represents a classification tree: its root node and the label
// feature it predicts.
type Tree struct {
	Root  Node
	Label feature.Feature
}

// New takes a root node and a label feature and returns a tree.
func New(root Node, label feature.Feature) *Tree {
	return &Tree{root, label}
}

/*
Classify takes a context, a node and a sample and returns the label
predicted for the sample by the subtree under the node. From each internal
node it descends into the first child whose interval contains the sample's
value for the node's feature. If there is no such child, ErrNoPrediction is
returned along an empty label.
*/
func Classify(ctx context.Context, n Node, s feature.Sample) (string, error) {
	for {
		switch node := n.(type) {
		case *Leaf:
			return node.Label, nil
		case *Internal:
			v, ok, err := feature.ContinuousValue(ctx, s, node.Feature)
			if err != nil {
				return "", fmt.Errorf("classifying sample: reading %s: %w", node.Feature.Name(), err)
			}
			if !ok {
				return "", ErrNoPrediction
			}
			var next Node
			for _, c := range node.Children {
				if c.Interval().Contains(v) {
					next = c
					break
				}
			}
			if next == nil {
				return "", ErrNoPrediction
			}
			n = next
		default:
			return "", fmt.Errorf("classifying sample: unknown node type %T", n)
		}
	}
}

// Classify takes a context and a sample and returns the label the tree
// predicts for it, or ErrNoPrediction.
func (t *Tree) Classify(ctx context.Context, s feature.Sample) (string, error) {
	if t == nil || t.Root == nil {
		return "", fmt.Errorf("nil tree cannot classify samples")
	}
	return Classify(ctx, t.Root, s)
}

// Traverse takes a bottomup boolean and an error-returning function that
// takes a node and its depth (the root being at depth 1), and goes through
// the tree running the function with every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the call to the function returns an error, the traversing is
// aborted and the error is returned.
func (t *Tree) Traverse(bottomup bool, f func(n Node, depth int) error) error {
	return traverse(t.Root, 1, bottomup, f)
}

func traverse(n Node, depth int, bottomup bool, f func(Node, int) error) error {
	if !bottomup {
		if err := f(n, depth); err != nil {
			return err
		}
	}
	if in, ok := n.(*Internal); ok {
		for _, c := range in.Children {
			if err := traverse(c, depth+1, bottomup, f); err != nil {
				return err
			}
		}
	}
	if bottomup {
		return f(n, depth)
	}
	return nil
}

// Depth returns the number of nodes on the longest path from the root to a leaf.
func (t *Tree) Depth() int {
	var result int
	t.Traverse(false, func(_ Node, depth int) error {
		if depth > result {
			result = depth
		}
		return nil
	})
	return result
}

// LeafCount returns the number of leaves in the tree.
func (t *Tree) LeafCount() int {
	var result int
	t.Traverse(false, func(n Node, _ int) error {
		if _, ok := n.(*Leaf); ok {
			result++
		}
		return nil
	})
	return result
}

/*
String renders the tree as indented text, with branch connectors joining each
node to its parent. Internal nodes show their feature and leaves their label,
each followed by the interval leading to them.
*/
func (t *Tree) String() string {
	if t == nil || t.Root == nil {
		return ""
	}
	var b strings.Builder
	render(&b, t.Root, "", true)
	return b.String()
}

func render(b *strings.Builder, n Node, prefix string, last bool) {
	b.WriteString(prefix)
	if last {
		b.WriteString("└──")
		prefix += "   "
	} else {
		b.WriteString("├──")
		prefix += "│  "
	}
	switch node := n.(type) {
	case *Leaf:
		fmt.Fprintf(b, " %s", node.Label)
	case *Internal:
		fmt.Fprintf(b, "┐ %s", node.Feature.Name())
	}
	if r := n.Interval(); !r.IsZero() {
		fmt.Fprintf(b, " %v", r)
	}
	b.WriteString("\n")
	if in, ok := n.(*Internal); ok {
		for i, c := range in.Children {
			render(b, c, prefix, i == len(in.Children)-1)
		}
	}
}
