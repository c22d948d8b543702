package preprocessor

import "github.com/scram-project/scram/boolgraph"

// Distributivity: factoring a literal shared by several opposite-family
// cube/clause children of one gate out of those children, turning
// OR(AND(x,a), AND(x,b)) into AND(x, OR(a, b)). The literal chosen at
// each gate is the one shared by the largest group of children — a
// greedy choice, not a globally optimal factoring.

// distribute walks every non-module gate and factors its best shared
// literal, when two or more of its cube/clause children share one.
func (p *Preprocessor) distribute() error {
	gen := p.nextGen()
	for _, parent := range p.collectGates(p.graph.Root, gen) {
		if parent.Module {
			continue
		}
		if err := p.distributeParent(parent); err != nil {
			return err
		}
	}
	p.seedConstantLeaves()
	return nil
}

func (p *Preprocessor) distributeParent(parent *boolgraph.Gate) error {
	var innerType boolgraph.Operator
	switch parent.Type {
	case boolgraph.OR:
		innerType = boolgraph.AND
	case boolgraph.AND:
		innerType = boolgraph.OR
	default:
		return nil
	}

	var cubes []cubeArg
	for _, signed := range parent.SortedArgs() {
		if !boolgraph.Polarity(signed) {
			continue
		}
		child, ok := parent.GateArgs()[signed]
		if !ok || child.Module || child.Type != innerType || len(child.GateArgs()) != 0 {
			continue
		}
		lits := make(map[int]bool, child.ArgCount())
		for _, s := range child.SortedArgs() {
			lits[s] = true
		}
		cubes = append(cubes, cubeArg{signed, child, lits})
	}
	if len(cubes) < 2 {
		return nil
	}

	litGroups := make(map[int][]cubeArg)
	for _, c := range cubes {
		for lit := range c.lits {
			litGroups[lit] = append(litGroups[lit], c)
		}
	}
	var bestLit int
	var bestGroup []cubeArg
	for lit, group := range litGroups {
		if len(group) > len(bestGroup) {
			bestLit, bestGroup = lit, group
		}
	}
	if len(bestGroup) < 2 {
		return nil
	}

	remainders := p.graph.NewGate(parent.Type)
	for _, c := range bestGroup {
		remainder := make(map[int]bool, len(c.lits)-1)
		for lit := range c.lits {
			if lit != bestLit {
				remainder[lit] = true
			}
		}
		switch len(remainder) {
		case 0:
			// This cube was exactly {bestLit}: factoring it leaves an empty
			// combiner, i.e. the vacuous identity for innerType (true for
			// AND, false for OR). Wire a constant leaf instead of
			// special-casing the combiner's shape; the next constant
			// sweep folds it away.
			c2 := p.graph.NewConstant(innerType == boolgraph.AND)
			mustAdd(remainders, c2.Index(), c2)
		case 1:
			for lit := range remainder {
				mustAdd(remainders, lit, nodeForSigned(p.graph, lit))
			}
		default:
			sub := p.graph.NewGate(innerType)
			for lit := range remainder {
				mustAdd(sub, lit, nodeForSigned(p.graph, lit))
			}
			mustAdd(remainders, sub.Index(), sub)
		}
	}

	factored := p.graph.NewGate(innerType)
	mustAdd(factored, bestLit, nodeForSigned(p.graph, bestLit))
	mustAdd(factored, remainders.Index(), remainders)

	// The factored gate goes in before the cubes come out, so EraseArg
	// never retypes parent to NULL/NOT while the new edge is still missing.
	if err := parent.AddArg(factored.Index(), factored); err != nil {
		return err
	}
	for _, c := range bestGroup {
		if err := parent.EraseArg(c.signed); err != nil {
			return err
		}
	}
	p.afterArgMutation(parent)
	return nil
}
