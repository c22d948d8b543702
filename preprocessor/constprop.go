package preprocessor

import "github.com/scram-project/scram/boolgraph"

// Constant propagation: eliminating every Constant leaf and every gate
// that has collapsed to Null/Unity, folding their truth value into each
// parent per that parent's operator.

// gateParents snapshots a node's current parents into a slice: the loops
// below mutate the very map Node.Parents returns (EraseArg/JoinGate call
// removeParent), so ranging over the live map directly would skip or
// revisit entries.
func gateParents(n boolgraph.Node) []*boolgraph.Gate {
	ps := n.Parents()
	out := make([]*boolgraph.Gate, 0, len(ps))
	for _, g := range ps {
		out = append(out, g)
	}
	return out
}

// seedConstantLeaves processes every Constant leaf still registered in
// the graph, folding its value into every parent. It runs at the start
// of Phase I, and again after decomposition and distributivity have
// wired in fresh Constant leaves, before the const/null worklists take over for
// everything downstream (a Constant leaf is never pushed onto
// constGates itself; only gates that become constant are).
func (p *Preprocessor) seedConstantLeaves() {
	for _, c := range p.graph.Constants() {
		for _, parent := range gateParents(c) {
			signed, ok := parent.SignedArg(c.Index())
			if !ok {
				continue
			}
			p.processConstantArg(parent, signed, c.Value)
		}
	}
}

// propagateConstGate folds a gate that has just become constant (Null or
// Unity) into every one of its parents.
func (p *Preprocessor) propagateConstGate(gate *boolgraph.Gate) {
	value := gate.State == boolgraph.StateUnity
	for _, parent := range gateParents(gate) {
		signed, ok := parent.SignedArg(gate.Index())
		if !ok {
			continue
		}
		p.processConstantArg(parent, signed, value)
	}
}

// processConstantArg folds the literal (signed, value) into gate,
// dispatching on gate's operator. value is the truth of the referenced
// node itself; signed's polarity is combined with it below to get the
// literal's truth as gate observes it.
func (p *Preprocessor) processConstantArg(gate *boolgraph.Gate, signed int, value bool) {
	if gate.State != boolgraph.StateNormal {
		// Already collapsed by an earlier parent processed in this same
		// drain batch; nothing left to fold into.
		return
	}
	effective := value == boolgraph.Polarity(signed)
	switch gate.Type {
	case boolgraph.AND:
		p.processAndFamilyConstant(gate, signed, effective, false)
	case boolgraph.NAND:
		p.processAndFamilyConstant(gate, signed, effective, true)
	case boolgraph.OR:
		p.processOrFamilyConstant(gate, signed, effective, false)
	case boolgraph.NOR:
		p.processOrFamilyConstant(gate, signed, effective, true)
	case boolgraph.XOR:
		p.processXorConstant(gate, signed, effective)
	case boolgraph.ATLEAST:
		p.processAtLeastConstant(gate, signed, effective)
	case boolgraph.NOT:
		p.collapseToConstant(gate, !effective)
	case boolgraph.NULL:
		p.collapseToConstant(gate, effective)
	default:
		panic(boolgraph.LogicErrorf("processConstantArg: unexpected operator %s on gate %d", gate.Type, gate.Index()))
	}
}

// processAndFamilyConstant handles AND (negated=false) and NAND
// (negated=true): a false literal is absorbing (AND->Null, NAND->Unity);
// a true literal is the identity and is simply erased.
func (p *Preprocessor) processAndFamilyConstant(gate *boolgraph.Gate, signed int, effective, negated bool) {
	if !effective {
		p.collapseToConstant(gate, negated)
		return
	}
	p.eraseConstantArg(gate, signed)
}

// processOrFamilyConstant handles OR (negated=false) and NOR
// (negated=true): a true literal is absorbing (OR->Unity, NOR->Null); a
// false literal is the identity and is simply erased.
func (p *Preprocessor) processOrFamilyConstant(gate *boolgraph.Gate, signed int, effective, negated bool) {
	if effective {
		p.collapseToConstant(gate, !negated)
		return
	}
	p.eraseConstantArg(gate, signed)
}

// processXorConstant handles XOR's two-arg identity: XOR(a, true) =
// NOT(a), XOR(a, false) = a. The NOT case is realized by inverting the
// remaining arg before erasing the constant one, so the inevitable
// retype to NULL (a single-arg XOR always retypes to NULL) passes the
// now-inverted arg through unchanged.
func (p *Preprocessor) processXorConstant(gate *boolgraph.Gate, signed int, effective bool) {
	if effective {
		if otherSigned, ok := soleOtherArg(gate, signed); ok {
			if err := gate.InvertArg(otherSigned); err != nil {
				panic(err)
			}
		}
	}
	p.eraseConstantArg(gate, signed)
}

// processAtLeastConstant handles a constant arg of a vote gate: a true
// literal counts toward the vote, so the vote number is decremented
// before the arg is erased; a false literal can never contribute and is
// simply erased. Afterward the gate is retyped or collapsed if the
// reduced (VoteNumber, arg count) pair has degenerated.
func (p *Preprocessor) processAtLeastConstant(gate *boolgraph.Gate, signed int, effective bool) {
	if effective {
		gate.VoteNumber--
	}
	p.eraseConstantArg(gate, signed)
	if gate.State != boolgraph.StateNormal {
		return
	}
	remaining := gate.ArgCount()
	switch {
	case gate.VoteNumber <= 0:
		p.collapseToConstant(gate, true)
	case gate.VoteNumber > remaining:
		p.collapseToConstant(gate, false)
	case gate.VoteNumber == remaining:
		gate.Type = boolgraph.AND
	case gate.VoteNumber == 1:
		gate.Type = boolgraph.OR
	}
}

// soleOtherArg returns the one signed arg of gate other than signed,
// assuming gate currently has exactly two args (true of any XOR gate
// before its constant arg is erased).
func soleOtherArg(gate *boolgraph.Gate, signed int) (int, bool) {
	for _, s := range gate.SortedArgs() {
		if s != signed {
			return s, true
		}
	}
	return 0, false
}

// eraseConstantArg removes signed from gate and pushes gate onto the
// null-gate worklist if the erase left it a NULL gate: EraseArg itself
// retypes a single-remaining-arg AND/OR/XOR to NULL or a NAND/NOR to
// NOT. A NOT result is not queued.
func (p *Preprocessor) eraseConstantArg(gate *boolgraph.Gate, signed int) {
	if err := gate.EraseArg(signed); err != nil {
		panic(err)
	}
	switch gate.Type {
	case boolgraph.NULL:
		p.graph.PushNullGate(gate)
	case boolgraph.NOT:
		// A NOT gate is not itself degenerate; it is simply waiting for
		// its one remaining arg to resolve on a future pass.
	}
}

// collapseToConstant marks gate Null or Unity and queues it for the
// constant-propagation worklist so its own parents get folded in turn.
func (p *Preprocessor) collapseToConstant(gate *boolgraph.Gate, isTrue bool) {
	if isTrue {
		gate.MakeUnity()
	} else {
		gate.Nullify()
	}
	p.graph.PushConstGate(gate)
}
