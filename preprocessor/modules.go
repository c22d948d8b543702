package preprocessor

import "github.com/scram-project/scram/boolgraph"

// Module detection: a gate is a
// module when every node in its subtree is referenced only from inside
// that subtree. Modules are detected with DFS enter/exit timestamps: a
// node's parent lies outside a candidate module's subtree exactly when
// the parent's own interval is not nested inside the candidate's.

// detectModules re-stamps DFS timings across the whole graph and
// recomputes every gate's Module flag. It is safe, if wasteful, to call
// repeatedly — phaseII does, since merges and coalescing can change
// which gates qualify.
func (p *Preprocessor) detectModules() {
	gen := p.nextGen()
	counter := 0
	p.assignTiming(p.graph.Root, gen, &counter)

	for _, g := range p.collectGates(p.graph.Root, p.nextGen()) {
		if g == p.graph.Root {
			continue
		}
		g.Module = p.isModule(g)
	}
}

// assignTiming stamps every reachable node with a DFS discover/finish
// pair drawn from one shared counter, visiting each node exactly once.
func (p *Preprocessor) assignTiming(gate *boolgraph.Gate, gen int, counter *int) {
	if gate.LastVisit() == gen {
		return
	}
	gate.SetLastVisit(gen)
	*counter++
	gate.SetEnterTime(*counter)

	for _, child := range gate.GateArgs() {
		p.assignTiming(child, gen, counter)
	}
	for _, v := range gate.VariableArgs() {
		if v.LastVisit() == gen {
			continue
		}
		v.SetLastVisit(gen)
		*counter++
		v.SetEnterTime(*counter)
		*counter++
		v.SetExitTime(*counter)
	}

	*counter++
	gate.SetExitTime(*counter)
}

// isModule reports whether every descendant of gate has every one of
// its parents nested inside gate's own [EnterTime, ExitTime] interval.
func (p *Preprocessor) isModule(gate *boolgraph.Gate) bool {
	gen := p.nextGen()
	return p.checkInternal(gate, gate, true, gen)
}

func (p *Preprocessor) checkInternal(root *boolgraph.Gate, node boolgraph.Node, isRoot bool, gen int) bool {
	if node.LastVisit() == gen {
		return true
	}
	node.SetLastVisit(gen)

	if !isRoot {
		for _, parent := range node.Parents() {
			if parent.EnterTime() < root.EnterTime() || parent.ExitTime() > root.ExitTime() {
				return false
			}
		}
	}

	gate, ok := node.(*boolgraph.Gate)
	if !ok {
		return true
	}
	for _, child := range gate.GateArgs() {
		if !p.checkInternal(root, child, false, gen) {
			return false
		}
	}
	for _, v := range gate.VariableArgs() {
		if !p.checkInternal(root, v, false, gen) {
			return false
		}
	}
	return true
}
