package preprocessor

import "github.com/scram-project/scram/boolgraph"

// propagateNullGate inlines gate — a NULL (pass-through) gate — into
// every one of its parents, replacing the parent's edge to gate with a
// direct edge to gate's own sole argument (composing polarity). This is
// the mechanism that flattens the thin NULL wrappers left behind by
// constant erasure (eraseConstantArg), XOR/ATLEAST expansion, and
// CheckRootGate's sibling logic.
func (p *Preprocessor) propagateNullGate(gate *boolgraph.Gate) {
	if gate.Type != boolgraph.NULL || gate.State != boolgraph.StateNormal {
		// Retyped or collapsed since being queued; nothing to inline.
		return
	}
	for _, parent := range gateParents(gate) {
		signed, ok := parent.SignedArg(gate.Index())
		if !ok {
			continue
		}
		if err := parent.JoinNullGate(signed); err != nil {
			panic(err)
		}
		p.afterArgMutation(parent)
	}
}

// afterArgMutation queues gate on the worklist its new shape calls for,
// after a mutation (JoinNullGate, JoinGate, merges) that can have pushed
// it to Null/Unity via a newly discovered contradiction, or retyped it
// to NULL via a newly discovered duplicate collapsing its arg count to
// one.
func (p *Preprocessor) afterArgMutation(gate *boolgraph.Gate) {
	if gate.State != boolgraph.StateNormal {
		p.graph.PushConstGate(gate)
		return
	}
	if gate.Type == boolgraph.NULL {
		p.graph.PushNullGate(gate)
	}
}
