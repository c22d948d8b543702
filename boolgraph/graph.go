package boolgraph

import "github.com/google/uuid"

// BooleanGraph is the mutable DAG the preprocessor rewrites in place. It
// is rooted at Root and owns the allocation of node identities; nodes
// otherwise only reference each other directly (gates hold strong
// references down to their args, args hold weak back-references up to
// their parents).
type BooleanGraph struct {
	Root     *Gate
	RootSign int // absorbs the root's own negativity; see CheckRootGate.
	Coherent bool
	Normal   bool

	// BuildID correlates every slog line the preprocessor emits for one
	// ProcessFaultTree call, the way a downstream MEF loader or report
	// writer running as a separate process would need to join log lines
	// for a single analysis run.
	BuildID uuid.UUID

	nextIndex int
	nodes     map[int]Node

	constGates []*Gate
	nullGates  []*Gate

	argPool argBufferPool
}

// NewGraph returns an empty graph ready to have variables and gates
// added to it. Coherent and Normal default to true, matching a graph
// whose builder has not yet observed any negation or non-normal
// operator; callers (or a future MEF builder) should clear them as
// negation/operators beyond AND/OR/NULL/ATLEAST are introduced.
func NewGraph() *BooleanGraph {
	return &BooleanGraph{
		RootSign: 1,
		Coherent: true,
		Normal:   true,
		BuildID:  uuid.New(),
		nodes:    make(map[int]Node),
	}
}

func (g *BooleanGraph) allocIndex() int {
	g.nextIndex++
	return g.nextIndex
}

// NewVariable creates and registers a fresh Variable leaf.
func (g *BooleanGraph) NewVariable(name string) *Variable {
	v := &Variable{nodeBase: nodeBase{idx: g.allocIndex()}, Name: name}
	g.nodes[v.idx] = v
	return v
}

// NewConstant creates and registers a fresh Constant leaf. Constants
// must not survive past the first phase of preprocessing.
func (g *BooleanGraph) NewConstant(value bool) *Constant {
	c := &Constant{nodeBase: nodeBase{idx: g.allocIndex()}, Value: value}
	g.nodes[c.idx] = c
	return c
}

// NewGate creates and registers a fresh gate of the given operator, with
// no args and State Normal.
func (g *BooleanGraph) NewGate(op Operator) *Gate {
	gate := newGate(g.allocIndex(), op)
	g.nodes[gate.idx] = gate
	return gate
}

// CloneGate duplicates gate into a new node sharing its children: each
// child gains gate's clone as an additional parent. The clone starts
// with Module false, since cloning changes the DAG shape and module
// status must be re-derived.
func (g *BooleanGraph) CloneGate(gate *Gate) *Gate {
	clone := g.NewGate(gate.Type)
	clone.State = gate.State
	clone.VoteNumber = gate.VoteNumber

	for s, n := range gate.gateArgs {
		clone.gateArgs[s] = n
		n.addParent(clone)
	}
	for s, n := range gate.variableArgs {
		clone.variableArgs[s] = n
		n.addParent(clone)
	}
	for s, n := range gate.constantArgs {
		clone.constantArgs[s] = n
		n.addParent(clone)
	}
	return clone
}

// Node looks up a node by its absolute index.
func (g *BooleanGraph) Node(index int) (Node, bool) {
	n, ok := g.nodes[index]
	return n, ok
}

// SetRoot installs gate as the graph's root, dropping the strong
// reference to whatever gate was root before. The previous root, if it
// has no other parents, becomes unreachable and collectable.
func (g *BooleanGraph) SetRoot(gate *Gate) {
	g.Root = gate
}

// PushConstGate adds gate to the const-gate worklist, to be drained by
// the preprocessor's constant-propagation pass.
func (g *BooleanGraph) PushConstGate(gate *Gate) {
	g.constGates = append(g.constGates, gate)
}

// PushNullGate adds gate to the null-gate worklist.
func (g *BooleanGraph) PushNullGate(gate *Gate) {
	g.nullGates = append(g.nullGates, gate)
}

// DrainConstGates empties and returns the const-gate worklist, skipping
// any gate that has since lost every parent (expired) unless it is the
// graph root: a worklist may outlive the gates it references once some
// other rewrite detaches them first, and a drainer must not act on a
// stale entry.
func (g *BooleanGraph) DrainConstGates() []*Gate {
	out := g.filterLive(g.constGates)
	g.constGates = nil
	return out
}

// DrainNullGates empties and returns the null-gate worklist, with the
// same expiry filtering as DrainConstGates.
func (g *BooleanGraph) DrainNullGates() []*Gate {
	out := g.filterLive(g.nullGates)
	g.nullGates = nil
	return out
}

func (g *BooleanGraph) filterLive(worklist []*Gate) []*Gate {
	live := make([]*Gate, 0, len(worklist))
	for _, gate := range worklist {
		if gate == g.Root || !gate.collectable() {
			live = append(live, gate)
		}
	}
	return live
}

// ConstGatesPending and NullGatesPending report worklist length without
// draining, used by assertions that a phase starts with empty worklists.
func (g *BooleanGraph) ConstGatesPending() int { return len(g.constGates) }
func (g *BooleanGraph) NullGatesPending() int  { return len(g.nullGates) }

// Constants returns every Constant leaf currently registered in the
// graph. Phase I of the preprocessor uses this to seed the initial
// constant-propagation sweep: no Constant leaf survives preprocessing.
func (g *BooleanGraph) Constants() []*Constant {
	out := make([]*Constant, 0)
	for _, n := range g.nodes {
		if c, ok := n.(*Constant); ok {
			out = append(out, c)
		}
	}
	return out
}
