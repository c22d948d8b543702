package preprocessor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scram-project/scram/boolgraph"
	"github.com/scram-project/scram/fixture"
	"github.com/scram-project/scram/internal/truth"
	"github.com/scram-project/scram/preprocessor"
)

// preprocess parses src twice — once into an untouched reference graph,
// once into the graph that actually gets rewritten — so the equivalence
// check below always compares against the original formula, not against
// a graph ProcessFaultTree has already mutated in place.
func preprocess(t *testing.T, src string) (original, working *boolgraph.BooleanGraph, p *preprocessor.Preprocessor) {
	t.Helper()
	og := boolgraph.NewGraph()
	root, err := fixture.Parse(og, src)
	require.NoError(t, err)
	og.SetRoot(root)

	wg := boolgraph.NewGraph()
	root2, err := fixture.Parse(wg, src)
	require.NoError(t, err)
	wg.SetRoot(root2)

	p = preprocessor.New(wg)
	require.NoError(t, p.ProcessFaultTree())
	return og, wg, p
}

func assertEquivalent(t *testing.T, before, after *boolgraph.BooleanGraph) {
	t.Helper()
	ok, counterexample := truth.Equivalent(before, after)
	assert.True(t, ok, "preprocessing changed the function computed; counterexample: %v", counterexample)
}

func TestProcessFaultTreeSimpleAndSurvives(t *testing.T) {
	before, after, _ := preprocess(t, "a & b")
	assertEquivalent(t, before, after)
	assert.NotNil(t, after.Root)
}

func TestProcessFaultTreeConstantCollapses(t *testing.T) {
	before, after, p := preprocess(t, "a & 0")
	assertEquivalent(t, before, after)
	_, ok := p.TerminalVariable()
	assert.False(t, ok)
	assert.Equal(t, boolgraph.StateNull, after.Root.State)
}

func TestProcessFaultTreeUnityCollapsesToConstant(t *testing.T) {
	before, after, p := preprocess(t, "a | 1")
	assertEquivalent(t, before, after)
	_, ok := p.TerminalVariable()
	assert.False(t, ok, "root collapsing to the constant 1 itself is not the single-variable case")
	assert.Equal(t, boolgraph.StateUnity, after.Root.State)
}

func TestProcessFaultTreeRedundantNestingCollapsesToTerminalVariable(t *testing.T) {
	before, after, p := preprocess(t, "a | (a & a)")
	assertEquivalent(t, before, after)
	v, ok := p.TerminalVariable()
	require.True(t, ok, "a | (a & a) is just a")
	assert.Equal(t, "a", v.Name)
}

func TestProcessFaultTreeNegatedFormIsNormalized(t *testing.T) {
	before, after, _ := preprocess(t, "!(a & b)")
	assertEquivalent(t, before, after)
	assert.False(t, after.Root.Type.Negated())
}

// TestProcessFaultTreeXorExpandsForNonNormalTree checks that XOR(a, b)
// is not merely equivalent after preprocessing but is actually expanded
// into OR(AND(a,-b), AND(-a,b)) — full normalization must eliminate the
// XOR operator itself, not just preserve the function it computes.
func TestProcessFaultTreeXorExpandsForNonNormalTree(t *testing.T) {
	before, after, _ := preprocess(t, "a ^ b")
	assertEquivalent(t, before, after)
	assert.True(t, after.Normal)

	or := requireOrOfTwoAnds(t, after.Root)
	for _, and := range or {
		require.Equal(t, 2, and.ArgCount())
		vars := and.VariableArgs()
		require.Len(t, vars, 2)
		var sawA, sawB bool
		for signed, v := range vars {
			switch v.Name {
			case "a":
				sawA = boolgraph.Polarity(signed)
			case "b":
				sawB = boolgraph.Polarity(signed)
			}
		}
		assert.NotEqual(t, sawA, sawB, "each AND branch must carry a and b with opposite polarity")
	}
}

// TestProcessFaultTreeAtLeastVoteGate checks the literal expansion of
// ATLEAST(2; a, b, c) via the recursive Shannon expansion:
// OR(AND(a, OR(b,c)), AND(b,c)).
func TestProcessFaultTreeAtLeastVoteGate(t *testing.T) {
	before, after, _ := preprocess(t, "atleast(2; a, b, c)")
	assertEquivalent(t, before, after)
	assert.True(t, after.Normal)

	root := after.Root
	require.Equal(t, boolgraph.OR, root.Type)
	require.Equal(t, 2, root.ArgCount())

	var withA, plain *boolgraph.Gate
	for _, and := range root.GateArgs() {
		require.Equal(t, boolgraph.AND, and.Type)
		if len(and.VariableArgs()) == 1 {
			withA = and
			continue
		}
		plain = and
	}
	require.NotNil(t, withA, "one branch must be AND(a, OR(b,c))")
	require.NotNil(t, plain, "the other branch must be AND(b,c)")

	var sawA bool
	for _, v := range withA.VariableArgs() {
		sawA = sawA || v.Name == "a"
	}
	assert.True(t, sawA, "the single-variable branch must carry a")
	require.Equal(t, 1, len(withA.GateArgs()))
	for _, inner := range withA.GateArgs() {
		assert.Equal(t, boolgraph.OR, inner.Type)
		names := variableNames(inner)
		assert.ElementsMatch(t, []string{"b", "c"}, names)
	}

	assert.ElementsMatch(t, []string{"b", "c"}, variableNames(plain))
}

// requireOrOfTwoAnds asserts root is an OR gate with exactly two AND
// children and returns them.
func requireOrOfTwoAnds(t *testing.T, root *boolgraph.Gate) []*boolgraph.Gate {
	t.Helper()
	require.Equal(t, boolgraph.OR, root.Type)
	require.Equal(t, 2, root.ArgCount())
	ands := make([]*boolgraph.Gate, 0, 2)
	for _, g := range root.GateArgs() {
		require.Equal(t, boolgraph.AND, g.Type)
		ands = append(ands, g)
	}
	require.Len(t, ands, 2)
	return ands
}

func variableNames(gate *boolgraph.Gate) []string {
	names := make([]string, 0, len(gate.VariableArgs()))
	for _, v := range gate.VariableArgs() {
		names = append(names, v.Name)
	}
	return names
}

func TestProcessFaultTreeDistributesSharedFactor(t *testing.T) {
	before, after, _ := preprocess(t, "(a & b) | (a & c)")
	assertEquivalent(t, before, after)
}

func TestProcessFaultTreeDeepNestingStaysEquivalent(t *testing.T) {
	before, after, _ := preprocess(t, "((a & b) | (c & d)) & (!(a & b) | (e & f))")
	assertEquivalent(t, before, after)
}

func TestProcessFaultTreeCommonArgumentMerging(t *testing.T) {
	before, after, _ := preprocess(t, "(a & b & c) | (a & b & d)")
	assertEquivalent(t, before, after)
}

func TestProcessFaultTreeMixedCoherentAndNegated(t *testing.T) {
	before, after, _ := preprocess(t, "(a & !b) | (!a & b)")
	assertEquivalent(t, before, after)
}

func TestProcessFaultTreeRejectsMissingRoot(t *testing.T) {
	g := boolgraph.NewGraph()
	p := preprocessor.New(g)
	assert.Error(t, p.ProcessFaultTree())
}
