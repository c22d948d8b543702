package preprocessor

import (
	"sort"

	"github.com/scram-project/scram/boolgraph"
)

// Common-argument merging: two
// same-family gates anywhere in the graph that share two or more
// literal args can have those shared literals factored into one new
// gate, referenced by both, instead of duplicating the same sub-formula
// twice. The 4-step shape below mirrors the textbook approach: index
// literal co-occurrence, keep the pairs two or more gates share, rank
// them, apply them greedily in one pass.

// mergeCommonArgs runs the merge over the AND family and the OR family
// separately — a shared literal only carries meaning between gates of
// the same family.
func (p *Preprocessor) mergeCommonArgs() error {
	gen := p.nextGen()
	var andGates, orGates []*boolgraph.Gate
	for _, g := range p.collectGates(p.graph.Root, gen) {
		if g.Module {
			continue
		}
		switch g.Type {
		case boolgraph.AND:
			andGates = append(andGates, g)
		case boolgraph.OR:
			orGates = append(orGates, g)
		}
	}
	if err := p.mergeCommonArgsFamily(andGates, boolgraph.AND); err != nil {
		return err
	}
	return p.mergeCommonArgsFamily(orGates, boolgraph.OR)
}

type literalPair struct{ a, b int }

// mergeCommonArgsFamily applies the merge within one operator family.
func (p *Preprocessor) mergeCommonArgsFamily(gates []*boolgraph.Gate, family boolgraph.Operator) error {
	// Step 1: index every pair of literals each gate carries together.
	pairOwners := make(map[literalPair][]*boolgraph.Gate)
	for _, g := range gates {
		args := g.SortedArgs()
		for i := 0; i < len(args); i++ {
			for j := i + 1; j < len(args); j++ {
				key := literalPair{args[i], args[j]}
				pairOwners[key] = append(pairOwners[key], g)
			}
		}
	}

	// Step 2: keep only pairs shared by 2+ gates, ranked by popularity so
	// the biggest factoring opportunities are taken first.
	type candidate struct {
		key    literalPair
		owners []*boolgraph.Gate
	}
	var candidates []candidate
	for key, owners := range pairOwners {
		if len(owners) >= 2 {
			candidates = append(candidates, candidate{key, owners})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].owners) != len(candidates[j].owners) {
			return len(candidates[i].owners) > len(candidates[j].owners)
		}
		return candidates[i].key.a < candidates[j].key.a
	})

	// Step 3+4: apply each candidate greedily, re-checking that both of
	// its literals are still present (an earlier candidate may already
	// have consumed one of them) before factoring it out.
	for _, c := range candidates {
		var usable []*boolgraph.Gate
		for _, g := range c.owners {
			if g.Contains(c.key.a) && g.Contains(c.key.b) {
				usable = append(usable, g)
			}
		}
		if len(usable) < 2 {
			continue
		}

		nodeA := nodeForSigned(p.graph, c.key.a)
		nodeB := nodeForSigned(p.graph, c.key.b)
		shared := p.graph.NewGate(family)
		mustAdd(shared, c.key.a, nodeA)
		mustAdd(shared, c.key.b, nodeB)

		for _, g := range usable {
			// The shared gate goes in before the pair comes out, so
			// EraseArg never retypes g to NULL/NOT while the new edge is
			// still missing.
			if err := g.AddArg(shared.Index(), shared); err != nil {
				return err
			}
			if err := g.EraseArg(c.key.a); err != nil {
				return err
			}
			if err := g.EraseArg(c.key.b); err != nil {
				return err
			}
			p.afterArgMutation(g)
		}
	}
	return nil
}
