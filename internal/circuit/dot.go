package circuit

import (
	"fmt"
	"io"
	"strings"
)

// kindShapes maps module kinds to Graphviz node shapes.
var kindShapes = map[Kind]string{
	KindBroadcast:   "box",
	KindFlipFlop:    "parallelogram",
	KindConjunction: "ellipse",
	KindInverter:    "circle",
	KindOutput:      "triangle",
}

// RenderDOT produces a Graphviz DOT representation of g. A synthetic
// button node feeds the start module; unresolved edges point at a node
// named "unknown".
func RenderDOT(g Graph) string {
	var b strings.Builder
	b.WriteString("digraph {\n")
	b.WriteString("  button [shape = invtriangle, rank = source]\n")
	fmt.Fprintf(&b, "  button -> %q\n", g.Name(g.Start()))

	for id := 0; id < g.Len(); id++ {
		name := g.Name(id)
		shape := kindShapes[g.Kind(id)]
		if g.Kind(id) == KindOutput {
			fmt.Fprintf(&b, "  subgraph { rank = sink ; %q [shape = %s] }\n", name, shape)
		} else {
			fmt.Fprintf(&b, "  %q [shape = %s]\n", name, shape)
		}
		for _, e := range g.Outputs(id) {
			if !e.Resolved() {
				fmt.Fprintf(&b, "  %q -> unknown\n", name)
				continue
			}
			fmt.Fprintf(&b, "  %q -> %q\n", name, g.Name(e.Target))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// WriteDOT writes the DOT rendering of g to w.
func WriteDOT(w io.Writer, g Graph) error {
	_, err := io.WriteString(w, RenderDOT(g))
	return err
}
