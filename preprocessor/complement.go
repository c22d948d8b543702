package preprocessor

import "github.com/scram-project/scram/boolgraph"

// Complement propagation: pushing every negative edge to a gate down
// through De Morgan's laws until only variable and constant leaves
// carry negative edges. By the time this runs, full normalization has
// already eliminated NAND/NOR/NOT and expanded XOR/ATLEAST, so every
// gate reached here is AND, OR or (transiently) NULL.
//
// A negative edge to a gate is resolved by cloning that gate into its
// De Morgan complement (AND<->OR, every child edge inverted) rather than
// mutating it in place, since the original positive-polarity gate may
// still be reachable from elsewhere in the graph. Clones are memoized
// per original gate index so a gate referenced negatively from two
// places shares one complement.

// propagateComplements runs the Phase IV rewrite over the whole graph.
// A negative RootSign means the root itself is effectively negated; that
// has to be absorbed into the root before any recursive propagation,
// since propagateComplementsRec only ever inverts edges into a gate, not
// the gate the graph is rooted at.
func (p *Preprocessor) propagateComplements() error {
	if p.graph.RootSign < 0 {
		root := p.graph.Root
		if root.Type == boolgraph.AND || root.Type == boolgraph.OR {
			root.Type = deMorgan(root.Type)
		}
		root.InvertArgs()
		p.graph.RootSign = 1
	}

	gen := p.nextGen()
	cache := make(map[int]*boolgraph.Gate)
	p.propagateComplementsRec(p.graph.Root, false, gen, cache)
	return nil
}

func (p *Preprocessor) propagateComplementsRec(gate *boolgraph.Gate, complement bool, gen int, cache map[int]*boolgraph.Gate) {
	if complement {
		gate.Type = deMorgan(gate.Type)
		gate.InvertArgs()
	}
	if gate.Mark == gen {
		return
	}
	gate.Mark = gen

	for _, signed := range gate.SortedArgs() {
		child, ok := gate.GateArgs()[signed]
		if !ok {
			continue // variable or constant leaf, already at the bottom
		}
		if boolgraph.Polarity(signed) {
			p.propagateComplementsRec(child, false, gen, cache)
			continue
		}

		complementGate, ok := cache[child.Index()]
		if !ok {
			complementGate = p.graph.CloneGate(child)
			cache[child.Index()] = complementGate
			p.propagateComplementsRec(complementGate, true, gen, cache)
		}
		// EraseArg retypes a gate it leaves with one argument to NULL/NOT;
		// the complement's edge restores the arity at once, so the
		// operator is put back before the complement is added.
		op := gate.Type
		if err := gate.EraseArg(signed); err != nil {
			panic(err)
		}
		gate.Type = op
		if err := gate.AddArg(complementGate.Index(), complementGate); err != nil {
			panic(err)
		}
	}
}

func deMorgan(op boolgraph.Operator) boolgraph.Operator {
	switch op {
	case boolgraph.AND:
		return boolgraph.OR
	case boolgraph.OR:
		return boolgraph.AND
	default:
		panic(boolgraph.LogicErrorf("deMorgan: operator %s has no De Morgan complement", op))
	}
}
