package boolgraph

// NewAtLeastGate builds a fully-formed ATLEAST gate: vote of k among the
// given signed args. It exists because an ATLEAST gate's vote number and
// arg count are mutually constrained (|args| > vote_number >= 2) in a
// way that is easy to get wrong one AddArg call at a time, the
// same way a cardinality constraint's "at least k of these literals"
// shape is easy to get wrong one literal at a time.
//
// AtLeast1 builds the degenerate case (k=1), which is just an OR: it is
// provided for symmetry with callers that generate vote gates generically
// and only discover afterward that k collapsed to 1.
func (g *BooleanGraph) NewAtLeastGate(k int, args map[int]Node) (*Gate, error) {
	if len(args) == 0 {
		return nil, InvalidArgumentf("NewAtLeastGate: no args given")
	}
	if k < 2 {
		return nil, InvalidArgumentf("NewAtLeastGate: vote number %d must be >= 2", k)
	}
	if k >= len(args) {
		return nil, InvalidArgumentf("NewAtLeastGate: vote number %d must be < arg count %d", k, len(args))
	}
	gate := g.NewGate(ATLEAST)
	gate.VoteNumber = k
	for signed, node := range args {
		if err := gate.AddArg(signed, node); err != nil {
			return nil, err
		}
	}
	return gate, nil
}

// AtLeast1 builds an OR gate over args: requiring at least one of a set
// of args true is exactly a disjunction.
func (g *BooleanGraph) AtLeast1(args map[int]Node) (*Gate, error) {
	if len(args) < 2 {
		return nil, InvalidArgumentf("AtLeast1: need at least 2 args, got %d", len(args))
	}
	gate := g.NewGate(OR)
	for signed, node := range args {
		if err := gate.AddArg(signed, node); err != nil {
			return nil, err
		}
	}
	return gate, nil
}
