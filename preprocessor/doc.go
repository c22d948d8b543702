/*
Package preprocessor rewrites a boolgraph.BooleanGraph built from a fault
tree into a semantically equivalent, simpler, more uniform graph, ready
for downstream cut-set enumeration.

Solving a problem

Building a Preprocessor and running it to completion is a single call:

    p := preprocessor.New(graph)
    if err := p.ProcessFaultTree(); err != nil {
        // broken invariant: a programmer error, not a user mistake.
    }

ProcessFaultTree mutates graph in place and runs a fixed sequence of
phases: constant/null removal with negation normalization; a
simplification pass (multiple-definition merging, module detection,
common-argument merging, Boolean optimization, Shannon decomposition,
distributivity, gate coalescing); full normalization and complement
propagation where the graph needs them, each followed by the
simplification pass again; and a final layered gate coalescing. The
root is checked for degeneracy after every phase.

The preprocessor is strictly single-threaded: the graph is a densely
aliased, shared-ownership DAG, and no operation may run concurrently
with another.
*/
package preprocessor
