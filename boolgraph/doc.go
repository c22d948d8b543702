/*
Package boolgraph gives access to the Boolean graph representation that
backs SCRAM's fault tree preprocessor.

A Boolean graph is a rooted DAG whose internal nodes are gates (AND, OR,
NAND, NOR, XOR, NOT, NULL, ATLEAST) and whose leaves are variables
(basic events) and, transiently before construction finishes, constants.
Edges carry polarity: a child reference is a signed int whose magnitude is
the child's index and whose sign encodes whether the edge is negated.

Building a graph

A graph is assembled bottom-up. Leaves are created first, then gates are
built referencing them by signed index:

    g := boolgraph.NewGraph()
    a := g.NewVariable("a")
    b := g.NewVariable("b")
    and := g.NewGate(boolgraph.AND)
    and.AddArg(a.Index(), a)
    and.AddArg(b.Index(), b)
    g.SetRoot(and)

Gate operations (AddArg, EraseArg, InvertArg, JoinGate, ...) are the only
way to mutate a gate; they keep parent back-references, argument-count
invariants, and constant-state transitions consistent. See package
preprocessor for the rewrite passes that simplify a constructed graph.
*/
package boolgraph
