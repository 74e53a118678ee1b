package tree

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/google/uuid"
)

/*
DrawGraph builds a graphviz graph of the tree: a box per leaf with its label,
an ellipse per internal node with its feature, and an edge per child labelled
with the child's interval. The caller must close both returned values.
*/
func (t *Tree) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	gv := graphviz.New()
	graph, err := gv.Graph()
	if err != nil {
		gv.Close()
		return nil, nil, err
	}
	if err = drawNode(graph, t.Root, nil); err != nil {
		graph.Close()
		gv.Close()
		return nil, nil, err
	}
	return gv, graph, nil
}

/*
WriteGraph takes an io.Writer and a graphviz.Format and renders the graph of
the tree onto the writer in the given format.
*/
func (t *Tree) WriteGraph(w io.Writer, format graphviz.Format) error {
	gv, graph, err := t.DrawGraph()
	if err != nil {
		return fmt.Errorf("drawing tree: %w", err)
	}
	defer gv.Close()
	defer graph.Close()
	if err = gv.Render(graph, format, w); err != nil {
		return fmt.Errorf("rendering tree as %s: %w", format, err)
	}
	return nil
}

func drawNode(g *cgraph.Graph, n Node, parent *cgraph.Node) error {
	current, err := g.CreateNode(uuid.New().String())
	if err != nil {
		return err
	}
	if parent != nil {
		e, err := g.CreateEdge("", parent, current)
		if err != nil {
			return err
		}
		e.SetLabel(n.Interval().String())
	}
	switch node := n.(type) {
	case *Leaf:
		current.SetLabel(node.Label)
		current.SetShape(cgraph.BoxShape)
	case *Internal:
		current.SetLabel(node.Feature.Name())
		for _, c := range node.Children {
			if err = drawNode(g, c, current); err != nil {
				return err
			}
		}
	}
	return nil
}
