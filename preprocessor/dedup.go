package preprocessor

import (
	"fmt"

	"github.com/scram-project/scram/boolgraph"
)

// Multiple-definition detection: two gates with the same operator,
// vote number and sorted arg set
// compute the same Boolean function and can be collapsed into one,
// rewiring every parent of the discarded gate onto the survivor.

// processMultipleDefinitions finds every group of structurally identical
// gates reachable from the root and collapses each group to a single
// representative. It returns whether any gate was collapsed, so the
// caller can re-run it to a fixed point (collapsing one duplicate can
// make a parent gate's own signature collide with another gate's).
func (p *Preprocessor) processMultipleDefinitions() (bool, error) {
	gen := p.nextGen()
	gates := p.collectGates(p.graph.Root, gen)

	groups := make(map[string][]*boolgraph.Gate)
	for _, g := range gates {
		key := p.gateSignature(g)
		groups[key] = append(groups[key], g)
	}

	changed := false
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		// Keep the root's identity stable: a group containing the root
		// uses the root as its survivor and folds the others into it.
		canonical := group[0]
		for _, g := range group {
			if g == p.graph.Root {
				canonical = g
				break
			}
		}
		for _, dup := range group {
			if dup == canonical {
				continue
			}
			canonical.Module = canonical.Module || dup.Module
			if err := p.replaceGate(dup, canonical); err != nil {
				return changed, err
			}
			changed = true
		}
	}
	return changed, nil
}

// gateSignature builds the structural key two gates share iff they
// compute the same Boolean function: same operator, same vote number,
// same sorted arg set. The sorted slice is only read to format the key
// string, never retained, so it is drawn from the graph's pooled arg
// buffer instead of a fresh allocation — this runs for nearly every
// gate on nearly every fixed-point iteration.
func (p *Preprocessor) gateSignature(g *boolgraph.Gate) string {
	return fmt.Sprintf("%d:%d:%v", g.Type, g.VoteNumber, p.graph.SortedArgsPooled(g))
}

// collectGates returns every gate reachable from gate (gate included),
// each gate visited exactly once.
func (p *Preprocessor) collectGates(gate *boolgraph.Gate, gen int) []*boolgraph.Gate {
	if gate.Mark == gen {
		return nil
	}
	gate.Mark = gen
	out := []*boolgraph.Gate{gate}
	for _, child := range gate.GateArgs() {
		out = append(out, p.collectGates(child, gen)...)
	}
	return out
}

// replaceGate rewires every parent of dup onto canonical, preserving
// each edge's original polarity, then drops dup from the graph. dup is
// never the graph root once this is called: processMultipleDefinitions
// always makes the root the survivor of any group containing it.
func (p *Preprocessor) replaceGate(dup, canonical *boolgraph.Gate) error {
	for _, parent := range gateParents(dup) {
		signed, ok := parent.SignedArg(dup.Index())
		if !ok {
			continue
		}
		newSigned := canonical.Index()
		if !boolgraph.Polarity(signed) {
			newSigned = -newSigned
		}
		if parent.Type == boolgraph.NULL || parent.Type == boolgraph.NOT {
			// A single-argument gate has room for the new edge only once
			// the old one is gone.
			if err := parent.EraseArg(signed); err != nil {
				return err
			}
			if err := parent.AddArg(newSigned, canonical); err != nil {
				return err
			}
		} else {
			// Adding first keeps EraseArg from retyping a two-argument
			// parent to NULL/NOT before the replacement edge is in place.
			if err := parent.AddArg(newSigned, canonical); err != nil {
				return err
			}
			if parent.State == boolgraph.StateNormal {
				if err := parent.EraseArg(signed); err != nil {
					return err
				}
			}
		}
		p.afterArgMutation(parent)
	}
	return nil
}
