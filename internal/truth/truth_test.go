package truth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scram-project/scram/boolgraph"
	"github.com/scram-project/scram/fixture"
)

func TestEvalBasicAnd(t *testing.T) {
	graph := boolgraph.NewGraph()
	root, err := fixture.Parse(graph, "a & b")
	require.NoError(t, err)
	graph.SetRoot(root)

	assert.True(t, Eval(graph, Assignment{"a": true, "b": true}))
	assert.False(t, Eval(graph, Assignment{"a": true, "b": false}))
	assert.False(t, Eval(graph, Assignment{"a": false, "b": false}))
}

func TestEvalNegation(t *testing.T) {
	graph := boolgraph.NewGraph()
	root, err := fixture.Parse(graph, "!a & b")
	require.NoError(t, err)
	graph.SetRoot(root)

	assert.True(t, Eval(graph, Assignment{"a": false, "b": true}))
	assert.False(t, Eval(graph, Assignment{"a": true, "b": true}))
}

func TestEvalAtLeast(t *testing.T) {
	graph := boolgraph.NewGraph()
	root, err := fixture.Parse(graph, "atleast(2; a, b, c)")
	require.NoError(t, err)
	graph.SetRoot(root)

	assert.False(t, Eval(graph, Assignment{"a": true}))
	assert.True(t, Eval(graph, Assignment{"a": true, "b": true}))
	assert.True(t, Eval(graph, Assignment{"a": true, "b": true, "c": true}))
}

func TestVariableNames(t *testing.T) {
	graph := boolgraph.NewGraph()
	root, err := fixture.Parse(graph, "a & (b | a)")
	require.NoError(t, err)
	graph.SetRoot(root)

	assert.Equal(t, []string{"a", "b"}, VariableNames(graph))
}

func TestEquivalentDetectsMismatch(t *testing.T) {
	left := boolgraph.NewGraph()
	leftRoot, err := fixture.Parse(left, "a & b")
	require.NoError(t, err)
	left.SetRoot(leftRoot)

	right := boolgraph.NewGraph()
	rightRoot, err := fixture.Parse(right, "a | b")
	require.NoError(t, err)
	right.SetRoot(rightRoot)

	equivalent, counterexample := Equivalent(left, right)
	assert.False(t, equivalent)
	assert.NotNil(t, counterexample)
}

func TestEquivalentAcceptsRewrittenForm(t *testing.T) {
	left := boolgraph.NewGraph()
	leftRoot, err := fixture.Parse(left, "a & (b | c)")
	require.NoError(t, err)
	left.SetRoot(leftRoot)

	// Distributed form: (a & b) | (a & c)
	right := boolgraph.NewGraph()
	rightRoot, err := fixture.Parse(right, "(a & b) | (a & c)")
	require.NoError(t, err)
	right.SetRoot(rightRoot)

	equivalent, counterexample := Equivalent(left, right)
	assert.True(t, equivalent, "unexpected counterexample: %v", counterexample)
}
