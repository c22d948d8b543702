package preprocessor

import "github.com/scram-project/scram/boolgraph"

// Boolean optimization: absorption
// between sibling cubes/clauses of a coherent gate. OR(AND(a,b),
// AND(a,b,c)) reduces to OR(AND(a,b)) because AND(a,b,c) can only be
// true when AND(a,b) already is — the superset term is redundant. The
// dual holds for AND(OR(a,b), OR(a,b,c)): the superset clause is the
// one that is always satisfied once the subset clause is, so it drops.
//
// This only runs for coherent graphs (phaseII gates it): a non-monotone
// operator reachable in a non-coherent tree would make the subset
// comparison unsound, since a negated literal does not "dominate" the
// way a positive one does.

// optimizeBoolean walks every non-module gate and removes, among its
// direct opposite-family cube/clause children, any child whose literal
// set is a non-strict superset of a sibling's.
func (p *Preprocessor) optimizeBoolean() error {
	gen := p.nextGen()
	for _, parent := range p.collectGates(p.graph.Root, gen) {
		if parent.Module {
			continue
		}
		if err := p.optimizeParent(parent); err != nil {
			return err
		}
	}
	return nil
}

type cubeArg struct {
	signed int
	gate   *boolgraph.Gate
	lits   map[int]bool
}

func (p *Preprocessor) optimizeParent(parent *boolgraph.Gate) error {
	var cubes []cubeArg
	for _, signed := range parent.SortedArgs() {
		if !boolgraph.Polarity(signed) {
			continue
		}
		child, ok := parent.GateArgs()[signed]
		if !ok || child.Module {
			continue
		}
		if !boolgraph.OppositeOperatorFamily(parent.Type, child.Type) {
			continue
		}
		if len(child.GateArgs()) != 0 {
			continue // only flat literal cubes/clauses are comparable here
		}
		lits := make(map[int]bool, child.ArgCount())
		for _, s := range child.SortedArgs() {
			lits[s] = true
		}
		cubes = append(cubes, cubeArg{signed, child, lits})
	}

	redundant := make(map[int]bool)
	for i := 0; i < len(cubes); i++ {
		for j := i + 1; j < len(cubes); j++ {
			if redundant[cubes[i].gate.Index()] || redundant[cubes[j].gate.Index()] {
				continue
			}
			if isSubset(cubes[i].lits, cubes[j].lits) {
				redundant[cubes[j].gate.Index()] = true
			} else if isSubset(cubes[j].lits, cubes[i].lits) {
				redundant[cubes[i].gate.Index()] = true
			}
		}
	}

	for _, c := range cubes {
		if !redundant[c.gate.Index()] {
			continue
		}
		if err := parent.EraseArg(c.signed); err != nil {
			return err
		}
		p.afterArgMutation(parent)
	}
	return nil
}

func isSubset(a, b map[int]bool) bool {
	if len(a) > len(b) {
		return false
	}
	for lit := range a {
		if !b[lit] {
			return false
		}
	}
	return true
}
