package boolgraph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraphDefaults(t *testing.T) {
	g := NewGraph()
	assert.True(t, g.Coherent)
	assert.True(t, g.Normal)
	assert.NotEqual(t, uuid.Nil, g.BuildID)
	assert.Nil(t, g.Root)
}

func TestNewVariableUniqueIndices(t *testing.T) {
	g := NewGraph()
	a := g.NewVariable("a")
	b := g.NewVariable("b")
	assert.NotEqual(t, a.Index(), b.Index())
	assert.Equal(t, "a", a.Name)

	node, ok := g.Node(a.Index())
	require.True(t, ok)
	assert.Same(t, a, node)
}

func TestNewGateWiring(t *testing.T) {
	g := NewGraph()
	a := g.NewVariable("a")
	b := g.NewVariable("b")
	and := g.NewGate(AND)
	require.NoError(t, and.AddArg(a.Index(), a))
	require.NoError(t, and.AddArg(b.Index(), b))

	assert.Equal(t, 2, and.ArgCount())
	assert.Len(t, and.VariableArgs(), 2)
	assert.Contains(t, a.Parents(), and.Index())
	assert.Contains(t, b.Parents(), and.Index())
}

func TestCloneGateSharesChildren(t *testing.T) {
	g := NewGraph()
	a := g.NewVariable("a")
	b := g.NewVariable("b")
	and := g.NewGate(AND)
	require.NoError(t, and.AddArg(a.Index(), a))
	require.NoError(t, and.AddArg(-b.Index(), b))
	and.VoteNumber = 3
	and.Module = true

	clone := g.CloneGate(and)
	assert.NotEqual(t, and.Index(), clone.Index())
	assert.Equal(t, and.Type, clone.Type)
	assert.Equal(t, and.VoteNumber, clone.VoteNumber)
	assert.False(t, clone.Module, "cloning must not carry over module status")

	assert.Contains(t, a.Parents(), clone.Index())
	assert.Contains(t, b.Parents(), clone.Index())
	assert.Contains(t, a.Parents(), and.Index(), "the original must keep its own parent edge")
}

func TestSetRootReplacesRoot(t *testing.T) {
	g := NewGraph()
	first := g.NewGate(AND)
	second := g.NewGate(OR)
	g.SetRoot(first)
	assert.Same(t, first, g.Root)
	g.SetRoot(second)
	assert.Same(t, second, g.Root)
}

func TestConstGateWorklistDrainsAndFiltersExpired(t *testing.T) {
	g := NewGraph()
	root := g.NewGate(AND)
	g.SetRoot(root)

	stillReferenced := g.NewGate(OR)
	require.NoError(t, root.AddArg(stillReferenced.Index(), stillReferenced))
	orphaned := g.NewGate(OR)

	g.PushConstGate(stillReferenced)
	g.PushConstGate(orphaned)
	g.PushConstGate(root)

	assert.Equal(t, 3, g.ConstGatesPending())
	drained := g.DrainConstGates()
	assert.Equal(t, 0, g.ConstGatesPending())

	var indices []int
	for _, gate := range drained {
		indices = append(indices, gate.Index())
	}
	assert.Contains(t, indices, stillReferenced.Index())
	assert.Contains(t, indices, root.Index(), "the root always survives filtering, even with no parents")
	assert.NotContains(t, indices, orphaned.Index(), "a gate with no parents left is no longer live")
}

func TestConstantsReturnsEveryRegisteredConstant(t *testing.T) {
	g := NewGraph()
	c1 := g.NewConstant(true)
	c2 := g.NewConstant(false)
	g.NewVariable("a") // not a constant, must not appear below

	constants := g.Constants()
	assert.Len(t, constants, 2)
	assert.Contains(t, constants, c1)
	assert.Contains(t, constants, c2)
}
