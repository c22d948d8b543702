package preprocessor

import "github.com/scram-project/scram/boolgraph"

// Common-node decomposition: when
// one variable occurs, with both polarities, often enough across the
// graph to be a bottleneck for downstream cut-set enumeration, Shannon
// expansion around that variable —
//
//	f = (x AND f|x=true) OR (NOT x AND f|x=false)
//
// — splits the graph into two smaller cofactors that no longer share
// that variable's ambiguity. Each cofactor is a full clone of the
// current root with the chosen variable replaced by a constant,
// clone-memoized per original gate index so shared structure in the
// original stays shared in each cofactor.

// minDecomposeOccurrences is the occurrence threshold below which
// decomposition is not worth the doubling in graph size it costs.
const minDecomposeOccurrences = 3

// decomposeCommonNodes performs at most one Shannon expansion per call,
// around the single best candidate variable, the same way the rest of
// Phase II applies one shape of rewrite per pass. phaseII calls it once
// per run, so a further candidate waits for a later phaseII run, if the
// driver makes one.
func (p *Preprocessor) decomposeCommonNodes() error {
	variable := p.mostCommonMixedPolarityVariable()
	if variable == nil {
		return nil
	}
	return p.shannonDecomposeRoot(variable)
}

// mostCommonMixedPolarityVariable tallies every variable's positive and
// negative occurrence count (reusing the PosCount/NegCount scratch
// fields) and returns the one with the highest combined count among
// those appearing with both polarities, or nil if none clears
// minDecomposeOccurrences.
func (p *Preprocessor) mostCommonMixedPolarityVariable() *boolgraph.Variable {
	gen := p.nextGen()
	var touched []*boolgraph.Variable

	var walk func(gate *boolgraph.Gate)
	walk = func(gate *boolgraph.Gate) {
		if gate.LastVisit() == gen {
			return
		}
		gate.SetLastVisit(gen)
		for signed, v := range gate.VariableArgs() {
			if v.LastVisit() != gen {
				v.SetLastVisit(gen)
				v.SetPosCount(0)
				v.SetNegCount(0)
				touched = append(touched, v)
			}
			if boolgraph.Polarity(signed) {
				v.SetPosCount(v.PosCount() + 1)
			} else {
				v.SetNegCount(v.NegCount() + 1)
			}
		}
		for _, child := range gate.GateArgs() {
			walk(child)
		}
	}
	walk(p.graph.Root)

	var best *boolgraph.Variable
	bestScore := 0
	for _, v := range touched {
		if v.PosCount() == 0 || v.NegCount() == 0 {
			continue
		}
		if score := v.PosCount() + v.NegCount(); score >= minDecomposeOccurrences && score > bestScore {
			bestScore, best = score, v
		}
	}
	return best
}

// shannonDecomposeRoot replaces the graph's root with
// OR(AND(+variable, cofactorTrue), AND(-variable, cofactorFalse)).
func (p *Preprocessor) shannonDecomposeRoot(variable *boolgraph.Variable) error {
	cofactorTrue := p.cloneSubgraphSubstituting(p.graph.Root, variable, true, make(map[int]*boolgraph.Gate))
	cofactorFalse := p.cloneSubgraphSubstituting(p.graph.Root, variable, false, make(map[int]*boolgraph.Gate))

	positive := p.graph.NewGate(boolgraph.AND)
	mustAdd(positive, variable.Index(), variable)
	mustAdd(positive, cofactorTrue.Index(), cofactorTrue)

	negative := p.graph.NewGate(boolgraph.AND)
	mustAdd(negative, -variable.Index(), variable)
	mustAdd(negative, cofactorFalse.Index(), cofactorFalse)

	newRoot := p.graph.NewGate(boolgraph.OR)
	mustAdd(newRoot, positive.Index(), positive)
	mustAdd(newRoot, negative.Index(), negative)

	p.graph.SetRoot(newRoot)
	p.seedConstantLeaves()
	return nil
}

// cloneSubgraphSubstituting deep-clones gate's subtree, replacing every
// occurrence of variable with a freshly built Constant of the given
// value (combined with that occurrence's own edge polarity). memo keeps
// the clone a DAG rather than a tree: a gate referenced twice in the
// original is cloned once and shared in the result, exactly as it was
// shared in the original.
func (p *Preprocessor) cloneSubgraphSubstituting(gate *boolgraph.Gate, variable *boolgraph.Variable, value bool, memo map[int]*boolgraph.Gate) *boolgraph.Gate {
	if clone, ok := memo[gate.Index()]; ok {
		return clone
	}
	clone := p.graph.NewGate(gate.Type)
	clone.VoteNumber = gate.VoteNumber
	memo[gate.Index()] = clone

	for _, signed := range gate.SortedArgs() {
		node, _ := nodeFor(gate, signed)
		switch n := node.(type) {
		case *boolgraph.Gate:
			childClone := p.cloneSubgraphSubstituting(n, variable, value, memo)
			newSigned := childClone.Index()
			if !boolgraph.Polarity(signed) {
				newSigned = -newSigned
			}
			mustAdd(clone, newSigned, childClone)
		case *boolgraph.Variable:
			if n == variable {
				c := p.graph.NewConstant(value == boolgraph.Polarity(signed))
				mustAdd(clone, c.Index(), c)
				continue
			}
			mustAdd(clone, signed, n)
		case *boolgraph.Constant:
			c := p.graph.NewConstant(n.Value)
			newSigned := c.Index()
			if !boolgraph.Polarity(signed) {
				newSigned = -newSigned
			}
			mustAdd(clone, newSigned, c)
		}
	}
	return clone
}
