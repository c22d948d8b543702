package preprocessor

import "github.com/scram-project/scram/boolgraph"

// Normalization: eliminating NAND,
// NOR and NOT by pushing their negation up onto the edge their parents
// hold, and — during full normalization (Phase III, for graphs not yet
// Normal) — expanding XOR and ATLEAST into AND/OR trees so that every
// surviving gate is AND, OR or NULL.

// nodeFor looks up the node gate holds at signed, across all three arg
// tables, using only the exported accessors available outside package
// boolgraph.
func nodeFor(gate *boolgraph.Gate, signed int) (boolgraph.Node, bool) {
	if n, ok := gate.GateArgs()[signed]; ok {
		return n, true
	}
	if n, ok := gate.VariableArgs()[signed]; ok {
		return n, true
	}
	if n, ok := gate.ConstantArgs()[signed]; ok {
		return n, true
	}
	return nil, false
}

func nodeForSigned(g *boolgraph.BooleanGraph, signed int) boolgraph.Node {
	n, ok := g.Node(boolgraph.AbsIndex(signed))
	if !ok {
		panic(boolgraph.LogicErrorf("nodeForSigned: no node with index %d", boolgraph.AbsIndex(signed)))
	}
	return n
}

func mustAdd(gate *boolgraph.Gate, signed int, node boolgraph.Node) {
	if err := gate.AddArg(signed, node); err != nil {
		panic(err)
	}
}

// notifyParentsOfNegativeGates walks the whole graph once and replaces
// every NAND/NOR/NOT gate with its positive counterpart (AND/OR/NULL),
// flipping the sign of every edge pointing into it so the graph's
// meaning is unchanged. A NAND/NOR/NOT root flips RootSign instead,
// since the root has no parent edge to carry the negation.
func (p *Preprocessor) notifyParentsOfNegativeGates() {
	gen := p.nextGen()
	p.notifyParentsOfNegativeGatesRec(p.graph.Root, gen)
}

func (p *Preprocessor) notifyParentsOfNegativeGatesRec(gate *boolgraph.Gate, gen int) {
	if gate.LastVisit() == gen {
		return
	}
	gate.SetLastVisit(gen)

	switch gate.Type {
	case boolgraph.NAND, boolgraph.NOR, boolgraph.NOT:
		p.retypeNegatedGate(gate)
	}

	for _, child := range gate.GateArgs() {
		p.notifyParentsOfNegativeGatesRec(child, gen)
	}
}

func (p *Preprocessor) retypeNegatedGate(gate *boolgraph.Gate) {
	for _, parent := range gateParents(gate) {
		signed, ok := parent.SignedArg(gate.Index())
		if !ok {
			continue
		}
		if err := parent.InvertArg(signed); err != nil {
			panic(err)
		}
	}
	if gate == p.graph.Root {
		p.graph.RootSign = -p.graph.RootSign
	}
	switch gate.Type {
	case boolgraph.NAND:
		gate.Type = boolgraph.AND
	case boolgraph.NOR:
		gate.Type = boolgraph.OR
	case boolgraph.NOT:
		gate.Type = boolgraph.NULL
	}
}

// normalizeFull runs the Phase III pass for graphs not yet Normal: it
// re-asserts that no negated operator remains (idempotent after Phase
// I's pass, but cheap to confirm) and then expands every XOR and
// ATLEAST gate.
func (p *Preprocessor) normalizeFull() error {
	p.notifyParentsOfNegativeGates()
	p.normalizeGate(p.graph.Root, true, p.nextGen())
	return nil
}

// normalizeGate walks the graph once, expanding XOR and ATLEAST gates
// when full is true. With full false it only marks the traversal;
// normalizeFull, its only caller, passes true.
func (p *Preprocessor) normalizeGate(gate *boolgraph.Gate, full bool, gen int) {
	if gate.Mark == gen {
		return
	}
	gate.Mark = gen

	for _, child := range gate.GateArgs() {
		p.normalizeGate(child, full, gen)
	}

	if !full {
		return
	}
	switch gate.Type {
	case boolgraph.XOR:
		p.normalizeXorGate(gate)
	case boolgraph.ATLEAST:
		p.normalizeAtLeastGate(gate)
	}
}

// normalizeXorGate rewrites a two-arg XOR(a, b) in place into
// OR(AND(a, -b), AND(-a, b)).
func (p *Preprocessor) normalizeXorGate(gate *boolgraph.Gate) {
	args := gate.SortedArgs()
	if len(args) != 2 {
		panic(boolgraph.LogicErrorf("normalizeXorGate: gate %d has %d args, want 2", gate.Index(), len(args)))
	}
	a, b := args[0], args[1]
	nodeA, _ := nodeFor(gate, a)
	nodeB, _ := nodeFor(gate, b)
	gate.Clear()

	left := p.graph.NewGate(boolgraph.AND)
	mustAdd(left, a, nodeA)
	mustAdd(left, -b, nodeB)

	right := p.graph.NewGate(boolgraph.AND)
	mustAdd(right, -a, nodeA)
	mustAdd(right, b, nodeB)

	gate.Type = boolgraph.OR
	mustAdd(gate, left.Index(), left)
	mustAdd(gate, right.Index(), right)
}

// normalizeAtLeastGate expands a vote gate into a tree of AND/OR gates
// via the textbook recursive Shannon expansion:
//
//	AtLeast(1, S)        = OR(S)
//	AtLeast(|S|, S)      = AND(S)
//	AtLeast(k, {x}∪rest) = OR(AND(x, AtLeast(k-1, rest)), AtLeast(k, rest))
//
// It is exponential in the worst case, which is why full normalization
// is only ever run once per tree.
func (p *Preprocessor) normalizeAtLeastGate(gate *boolgraph.Gate) {
	args := gate.SortedArgs()
	k := gate.VoteNumber
	nodes := make(map[int]boolgraph.Node, len(args))
	for _, s := range args {
		n, _ := nodeFor(gate, s)
		nodes[s] = n
	}
	gate.Clear()

	result := p.expandAtLeast(k, args, nodes)
	gate.Type = boolgraph.NULL
	mustAdd(gate, result, nodeForSigned(p.graph, result))
	p.graph.PushNullGate(gate)
}

// expandAtLeast returns a signed literal equivalent to AtLeast(k, args),
// allocating fresh AND/OR gates as needed.
func (p *Preprocessor) expandAtLeast(k int, args []int, nodes map[int]boolgraph.Node) int {
	n := len(args)
	if n == 1 {
		return args[0]
	}
	if k == 1 {
		return p.buildFamily(boolgraph.OR, args, nodes)
	}
	if k == n {
		return p.buildFamily(boolgraph.AND, args, nodes)
	}

	head := args[0]
	rest := args[1:]
	withHead := p.expandAtLeast(k-1, rest, nodes)
	withoutHead := p.expandAtLeast(k, rest, nodes)

	left := p.graph.NewGate(boolgraph.AND)
	mustAdd(left, head, nodes[head])
	mustAdd(left, withHead, nodeForSigned(p.graph, withHead))

	result := p.graph.NewGate(boolgraph.OR)
	mustAdd(result, left.Index(), left)
	mustAdd(result, withoutHead, nodeForSigned(p.graph, withoutHead))

	return result.Index()
}

func (p *Preprocessor) buildFamily(op boolgraph.Operator, args []int, nodes map[int]boolgraph.Node) int {
	g := p.graph.NewGate(op)
	for _, s := range args {
		mustAdd(g, s, nodes[s])
	}
	return g.Index()
}
