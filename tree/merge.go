package tree

/*
Merge takes a node and returns the root of an equivalent subtree in which
sibling leaves predicting the same label have been folded into one and
internal nodes left with a single leaf child have been replaced by it.

Children are merged first, so simplifications cascade upwards. Folding a
leaf into an earlier sibling with the same label unions its interval into
the sibling's. The folding repeats over the node's children until a sweep
makes no change. An internal node collapsing into its only leaf child keeps
its own interval.

The given subtree is left untouched. Merging a merged tree returns an equal
tree.
*/
func Merge(n Node) Node {
	in, ok := n.(*Internal)
	if !ok {
		return n
	}
	children := make([]Node, 0, len(in.Children))
	for _, c := range in.Children {
		children = append(children, Merge(c))
	}
	for {
		var changed bool
		children, changed = foldLeaves(children)
		if !changed {
			break
		}
	}
	if len(children) == 1 {
		if l, ok := children[0].(*Leaf); ok {
			return &Leaf{Label: l.Label, Range: in.Range}
		}
	}
	return &Internal{Feature: in.Feature, Range: in.Range, Children: children}
}

// foldLeaves makes one sweep over the children: it first decides which
// survive and what each absorbs, then builds the new slice.
func foldLeaves(children []Node) ([]Node, bool) {
	absorbedBy := make([]int, len(children))
	firstWithLabel := make(map[string]int)
	changed := false
	for i, c := range children {
		absorbedBy[i] = i
		l, ok := c.(*Leaf)
		if !ok {
			continue
		}
		if j, seen := firstWithLabel[l.Label]; seen {
			absorbedBy[i] = j
			changed = true
			continue
		}
		firstWithLabel[l.Label] = i
	}
	if !changed {
		return children, false
	}
	leaves := make(map[int]*Leaf)
	for i, j := range absorbedBy {
		if i == j {
			continue
		}
		survivor, ok := leaves[j]
		if !ok {
			first := children[j].(*Leaf)
			survivor = &Leaf{Label: first.Label, Range: first.Range}
			leaves[j] = survivor
		}
		survivor.Range = survivor.Range.Union(children[i].Interval())
	}
	result := make([]Node, 0, len(children))
	for i, c := range children {
		if absorbedBy[i] != i {
			continue
		}
		if l, ok := leaves[i]; ok {
			c = l
		}
		result = append(result, c)
	}
	return result, true
}
