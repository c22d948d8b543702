package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scram-project/scram/boolgraph"
)

func buildMixedPolarityGraph(t *testing.T) (*boolgraph.BooleanGraph, *boolgraph.Variable) {
	t.Helper()
	g := boolgraph.NewGraph()
	x := g.NewVariable("x")
	b := g.NewVariable("b")
	c := g.NewVariable("c")
	d := g.NewVariable("d")
	g1 := g.NewGate(boolgraph.AND)
	require.NoError(t, g1.AddArg(x.Index(), x))
	require.NoError(t, g1.AddArg(b.Index(), b))
	g2 := g.NewGate(boolgraph.AND)
	require.NoError(t, g2.AddArg(-x.Index(), x))
	require.NoError(t, g2.AddArg(c.Index(), c))
	g3 := g.NewGate(boolgraph.AND)
	require.NoError(t, g3.AddArg(-x.Index(), x))
	require.NoError(t, g3.AddArg(d.Index(), d))
	root := g.NewGate(boolgraph.OR)
	require.NoError(t, root.AddArg(g1.Index(), g1))
	require.NoError(t, root.AddArg(g2.Index(), g2))
	require.NoError(t, root.AddArg(g3.Index(), g3))
	g.SetRoot(root)
	return g, x
}

func TestMostCommonMixedPolarityVariableFindsThreshold(t *testing.T) {
	g, x := buildMixedPolarityGraph(t)
	p := New(g)

	best := p.mostCommonMixedPolarityVariable()
	require.NotNil(t, best)
	assert.Same(t, x, best)
}

func TestMostCommonMixedPolarityVariableIgnoresSinglePolarity(t *testing.T) {
	g := boolgraph.NewGraph()
	a := g.NewVariable("a")
	b := g.NewVariable("b")
	c := g.NewVariable("c")
	g1 := g.NewGate(boolgraph.AND)
	require.NoError(t, g1.AddArg(a.Index(), a))
	require.NoError(t, g1.AddArg(b.Index(), b))
	g2 := g.NewGate(boolgraph.AND)
	require.NoError(t, g2.AddArg(a.Index(), a))
	require.NoError(t, g2.AddArg(c.Index(), c))
	root := g.NewGate(boolgraph.OR)
	require.NoError(t, root.AddArg(g1.Index(), g1))
	require.NoError(t, root.AddArg(g2.Index(), g2))
	g.SetRoot(root)

	p := New(g)
	assert.Nil(t, p.mostCommonMixedPolarityVariable(), "a only ever occurs positively, it is not a decomposition candidate")
}

func TestShannonDecomposeRootBuildsBothCofactors(t *testing.T) {
	g, x := buildMixedPolarityGraph(t)
	p := New(g)

	require.NoError(t, p.shannonDecomposeRoot(x))

	root := g.Root
	require.Equal(t, boolgraph.OR, root.Type)
	require.Equal(t, 2, root.ArgCount())

	var positive, negative *boolgraph.Gate
	for signed, child := range root.GateArgs() {
		assert.True(t, boolgraph.Polarity(signed), "both cofactor branches hang off the new root by positive edges")
		if child.Contains(x.Index()) {
			positive = child
		} else {
			negative = child
		}
	}
	require.NotNil(t, positive)
	assert.Equal(t, boolgraph.AND, positive.Type)
	assert.True(t, positive.Contains(x.Index()), "the positive branch gates on +x")

	require.NotNil(t, negative)
	assert.True(t, negative.Contains(-x.Index()), "the negative branch gates on -x")
}

func TestCloneSubgraphSubstitutingReplacesEveryOccurrence(t *testing.T) {
	g := boolgraph.NewGraph()
	x := g.NewVariable("x")
	a := g.NewVariable("a")
	left := g.NewGate(boolgraph.AND)
	require.NoError(t, left.AddArg(x.Index(), x))
	require.NoError(t, left.AddArg(a.Index(), a))
	right := g.NewGate(boolgraph.AND)
	require.NoError(t, right.AddArg(-x.Index(), x))
	require.NoError(t, right.AddArg(a.Index(), a))
	root := g.NewGate(boolgraph.OR)
	require.NoError(t, root.AddArg(left.Index(), left))
	require.NoError(t, root.AddArg(right.Index(), right))
	g.SetRoot(root)

	p := New(g)
	clone := p.cloneSubgraphSubstituting(root, x, true, make(map[int]*boolgraph.Gate))

	require.NotSame(t, root, clone)
	var sawTrue, sawFalse bool
	for _, child := range clone.GateArgs() {
		assert.True(t, child.Contains(a.Index()), "a is untouched by the substitution")
		for _, s := range child.SortedArgs() {
			node, _ := nodeFor(child, s)
			if v, isVar := node.(*boolgraph.Variable); isVar {
				assert.NotSame(t, x, v, "every occurrence of x must be replaced by a constant, leaving only other variables behind")
			}
			if c, ok := node.(*boolgraph.Constant); ok {
				if c.Value {
					sawTrue = true
				} else {
					sawFalse = true
				}
			}
		}
	}
	assert.True(t, sawTrue, "the +x occurrence substitutes to true under value=true")
	assert.True(t, sawFalse, "the -x occurrence substitutes to false under value=true")
}

func TestCloneSubgraphSubstitutingSharesStructureViaMemo(t *testing.T) {
	g := boolgraph.NewGraph()
	x := g.NewVariable("x")
	a := g.NewVariable("a")
	shared := g.NewGate(boolgraph.AND)
	require.NoError(t, shared.AddArg(x.Index(), x))
	require.NoError(t, shared.AddArg(a.Index(), a))
	left := g.NewGate(boolgraph.OR)
	require.NoError(t, left.AddArg(shared.Index(), shared))
	right := g.NewGate(boolgraph.OR)
	require.NoError(t, right.AddArg(shared.Index(), shared))
	root := g.NewGate(boolgraph.AND)
	require.NoError(t, root.AddArg(left.Index(), left))
	require.NoError(t, root.AddArg(right.Index(), right))
	g.SetRoot(root)

	p := New(g)
	memo := make(map[int]*boolgraph.Gate)
	clone := p.cloneSubgraphSubstituting(root, x, false, memo)

	require.Equal(t, 2, clone.ArgCount())
	var sharedInLeft, sharedInRight *boolgraph.Gate
	for _, wrapper := range clone.GateArgs() {
		for _, child := range wrapper.GateArgs() {
			if sharedInLeft == nil {
				sharedInLeft = child
			} else {
				sharedInRight = child
			}
		}
	}
	require.NotNil(t, sharedInLeft)
	require.NotNil(t, sharedInRight)
	assert.Same(t, sharedInLeft, sharedInRight, "shared was referenced from both branches and must be cloned once, not twice")
	assert.Len(t, memo, 4, "root, its two OR wrappers, and the shared gate are each cloned exactly once")
}
