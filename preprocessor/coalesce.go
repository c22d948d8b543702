package preprocessor

import "github.com/scram-project/scram/boolgraph"

// Gate coalescing: folding a gate's same-family children into it,
// removing a level of indirection that carries no semantic weight of
// its own (AND(AND(a,b),c) is just AND(a,b,c)).
//
// In strict mode (layered=false, used at the end of every phase-two
// pass) a child is only folded when gate is its only parent — folding a
// shared child would change the meaning of its other parents. In
// layered mode (layered=true) a shared same-family child is cloned
// first so each parent gets its own copy to fold, trading graph size
// for a flatter shape.

// coalesceFixedPoint runs joinGatesPass to a fixed point: folding one
// layer of children can expose a fresh same-family grandchild at the
// gate's own level.
func (p *Preprocessor) coalesceFixedPoint(layered bool) error {
	for {
		changed, err := p.joinGatesPass(layered)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
}

func (p *Preprocessor) joinGatesPass(layered bool) (bool, error) {
	gen := p.nextGen()
	changed := false

	var walk func(gate *boolgraph.Gate) error
	walk = func(gate *boolgraph.Gate) error {
		if gate.Mark == gen {
			return nil
		}
		gate.Mark = gen

		for _, signed := range gate.SortedArgs() {
			child, ok := gate.GateArgs()[signed]
			if !ok {
				continue
			}
			if err := walk(child); err != nil {
				return err
			}
		}

		for _, signed := range gate.SortedArgs() {
			if !boolgraph.Polarity(signed) {
				continue
			}
			child, ok := gate.GateArgs()[signed]
			if !ok || !boolgraph.SameOperatorFamily(gate.Type, child.Type) {
				continue
			}

			candidate := child
			if len(child.Parents()) > 1 {
				if !layered {
					continue
				}
				clone := p.graph.CloneGate(child)
				// EraseArg retypes a gate it leaves with one argument to
				// NULL/NOT; the clone's edge restores the arity at once, so
				// the operator is put back before the clone is added.
				op := gate.Type
				if err := gate.EraseArg(signed); err != nil {
					return err
				}
				gate.Type = op
				if err := gate.AddArg(clone.Index(), clone); err != nil {
					return err
				}
				candidate = clone
			}
			if candidate.Module {
				continue
			}
			if err := gate.JoinGate(candidate); err != nil {
				return err
			}
			p.afterArgMutation(gate)
			changed = true
		}
		return nil
	}

	err := walk(p.graph.Root)
	return changed, err
}
