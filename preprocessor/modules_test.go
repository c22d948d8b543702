package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scram-project/scram/boolgraph"
)

func TestAssignTimingStampsNestedIntervals(t *testing.T) {
	g := boolgraph.NewGraph()
	a := g.NewVariable("a")
	b := g.NewVariable("b")
	c := g.NewVariable("c")
	inner := g.NewGate(boolgraph.AND)
	require.NoError(t, inner.AddArg(a.Index(), a))
	require.NoError(t, inner.AddArg(b.Index(), b))
	root := g.NewGate(boolgraph.AND)
	require.NoError(t, root.AddArg(inner.Index(), inner))
	require.NoError(t, root.AddArg(c.Index(), c))
	g.SetRoot(root)

	p := New(g)
	counter := 0
	p.assignTiming(root, p.nextGen(), &counter)

	assert.True(t, root.EnterTime() < inner.EnterTime())
	assert.True(t, inner.ExitTime() < root.ExitTime(), "inner's whole interval must nest inside root's")
	assert.True(t, inner.EnterTime() < a.EnterTime())
	assert.True(t, a.ExitTime() < inner.ExitTime())
}

func TestAssignTimingVisitsSharedNodeOnce(t *testing.T) {
	g := boolgraph.NewGraph()
	a := g.NewVariable("a")
	left := g.NewGate(boolgraph.AND)
	require.NoError(t, left.AddArg(a.Index(), a))
	right := g.NewGate(boolgraph.OR)
	require.NoError(t, right.AddArg(a.Index(), a))
	root := g.NewGate(boolgraph.AND)
	require.NoError(t, root.AddArg(left.Index(), left))
	require.NoError(t, root.AddArg(right.Index(), right))
	g.SetRoot(root)

	p := New(g)
	counter := 0
	gen := p.nextGen()
	p.assignTiming(root, gen, &counter)

	enterBefore := a.EnterTime()
	p.assignTiming(right, gen, &counter)
	assert.Equal(t, enterBefore, a.EnterTime(), "a already carries this generation's stamp, a second visit must not re-stamp it")
}

func TestIsModuleTrueForExclusiveSubtree(t *testing.T) {
	g := boolgraph.NewGraph()
	a := g.NewVariable("a")
	b := g.NewVariable("b")
	c := g.NewVariable("c")
	inner := g.NewGate(boolgraph.AND)
	require.NoError(t, inner.AddArg(a.Index(), a))
	require.NoError(t, inner.AddArg(b.Index(), b))
	root := g.NewGate(boolgraph.AND)
	require.NoError(t, root.AddArg(inner.Index(), inner))
	require.NoError(t, root.AddArg(c.Index(), c))
	g.SetRoot(root)

	p := New(g)
	p.detectModules()

	assert.True(t, inner.Module, "inner's only references to a and b come from inside its own subtree")
}

func TestIsModuleFalseForSharedVariable(t *testing.T) {
	g := boolgraph.NewGraph()
	a := g.NewVariable("a")
	b := g.NewVariable("b")
	inner := g.NewGate(boolgraph.AND)
	require.NoError(t, inner.AddArg(a.Index(), a))
	require.NoError(t, inner.AddArg(b.Index(), b))
	root := g.NewGate(boolgraph.AND)
	require.NoError(t, root.AddArg(inner.Index(), inner))
	require.NoError(t, root.AddArg(b.Index(), b))
	g.SetRoot(root)

	p := New(g)
	p.detectModules()

	assert.False(t, inner.Module, "b is also referenced directly from outside inner's subtree")
}

func TestDetectModulesNeverFlagsTheRootItself(t *testing.T) {
	g := boolgraph.NewGraph()
	a := g.NewVariable("a")
	b := g.NewVariable("b")
	root := g.NewGate(boolgraph.AND)
	require.NoError(t, root.AddArg(a.Index(), a))
	require.NoError(t, root.AddArg(b.Index(), b))
	g.SetRoot(root)
	root.Module = true

	p := New(g)
	p.detectModules()

	assert.True(t, root.Module, "detectModules skips the root, it must not clear a flag set beforehand")
}
