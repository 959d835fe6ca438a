package circuit

// NoTarget marks an edge whose destination name resolved to nothing.
// Pulses sent along such an edge are counted but never delivered.
const NoTarget = -1

// DefaultSinkName is the name of the terminal module watched by part 2.
const DefaultSinkName = "rx"

// BroadcasterName is the reserved name of the broadcast module.
const BroadcasterName = "broadcaster"

// Edge is a directed connection to one input slot of a target module.
type Edge struct {
	Target int
	Slot   int
}

// Resolved reports whether the edge leads to a real module.
func (e Edge) Resolved() bool {
	return e.Target != NoTarget
}

// Module is an immutable node of the network.
type Module struct {
	Name       string
	Kind       Kind
	Outputs    []Edge
	InputCount int
}

// SendsTo reports whether any output edge targets id.
func (m *Module) SendsTo(id int) bool {
	for _, e := range m.Outputs {
		if e.Target == id {
			return true
		}
	}
	return false
}

// Graph is the read-only view the simulator runs against. Both the full
// Network and an extracted subgraph implement it.
type Graph interface {
	// Start is the id that receives the button pulse.
	Start() int
	// Len is the number of modules.
	Len() int
	// Outputs returns the ordered output edges of id.
	Outputs(id int) []Edge
	// Kind returns the behavior of id.
	Kind(id int) Kind
	// InputCount returns the number of edges targeting id.
	InputCount(id int) int
	// Name returns the module name for id.
	Name(id int) string
}

// Network is a fully resolved circuit.
type Network struct {
	modules     []Module
	broadcaster int
	index       map[string]int
}

var _ Graph = (*Network)(nil)

// Start returns the broadcaster id.
func (n *Network) Start() int { return n.broadcaster }

// Len returns the module count.
func (n *Network) Len() int { return len(n.modules) }

// Outputs returns the edges leaving id. The slice must not be modified.
func (n *Network) Outputs(id int) []Edge { return n.modules[id].Outputs }

// Kind returns the kind of id.
func (n *Network) Kind(id int) Kind { return n.modules[id].Kind }

// InputCount returns the number of edges that target id.
func (n *Network) InputCount(id int) int { return n.modules[id].InputCount }

// Name returns the name of id.
func (n *Network) Name(id int) string { return n.modules[id].Name }

// Module returns a copy of the module record for id.
func (n *Network) Module(id int) Module { return n.modules[id] }

// Lookup finds a module id by name.
func (n *Network) Lookup(name string) (int, bool) {
	id, ok := n.index[name]
	return id, ok
}

// Inputs returns, in id order, every module with an edge to target.
// The reverse relation is not stored; it is recomputed on each call.
func (n *Network) Inputs(target int) []int {
	var inputs []int
	for i := range n.modules {
		if n.modules[i].SendsTo(target) {
			inputs = append(inputs, i)
		}
	}
	return inputs
}

// Sinks returns the ids of all Output modules.
func (n *Network) Sinks() []int {
	var sinks []int
	for i := range n.modules {
		if n.modules[i].Kind == KindOutput {
			sinks = append(sinks, i)
		}
	}
	return sinks
}

// Reachable marks every module reachable from start along resolved edges.
func Reachable(g Graph, start int) []bool {
	seen := make([]bool, g.Len())
	pending := []int{start}
	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for _, e := range g.Outputs(cur) {
			if e.Resolved() && !seen[e.Target] {
				pending = append(pending, e.Target)
			}
		}
	}
	return seen
}

// Slice marks every module from which target can be reached, target
// included. It walks the reverse edge relation.
func (n *Network) Slice(target int) []bool {
	marked := make([]bool, len(n.modules))
	pending := []int{target}
	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if marked[cur] {
			continue
		}
		marked[cur] = true
		pending = append(pending, n.Inputs(cur)...)
	}
	return marked
}
