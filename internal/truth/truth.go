// Package truth brute-force evaluates a BooleanGraph under a complete
// variable assignment, and compares two graphs for semantic equivalence
// by enumerating every assignment over their combined variable set. It
// exists for exactly one purpose: proving that preprocessing changes a
// fault tree's shape without changing the Boolean function it computes.
package truth

import (
	"fmt"
	"sort"

	"github.com/scram-project/scram/boolgraph"
)

// maxVariables bounds brute-force enumeration: 2^24 assignments is
// already the edge of what a test should spend wall-clock time on, and
// anything larger is very likely a fixture that grew unintentionally.
const maxVariables = 24

// Assignment maps a Variable's Name to the boolean value it should take
// for one evaluation.
type Assignment map[string]bool

// Eval evaluates graph's current root under assignment. Every Variable
// reachable from the root must have an entry in assignment; a missing
// entry evaluates as false, the zero value of bool, matching an
// explicit "false" assignment rather than failing.
func Eval(graph *boolgraph.BooleanGraph, assignment Assignment) bool {
	value := evalNode(graph.Root, assignment, make(map[int]bool))
	if graph.RootSign < 0 {
		return !value
	}
	return value
}

func evalNode(n boolgraph.Node, assignment Assignment, memo map[int]bool) bool {
	if v, ok := memo[n.Index()]; ok {
		return v
	}
	var result bool
	switch node := n.(type) {
	case *boolgraph.Variable:
		result = assignment[node.Name]
	case *boolgraph.Constant:
		result = node.Value
	case *boolgraph.Gate:
		result = evalGate(node, assignment, memo)
	default:
		panic(fmt.Sprintf("truth: unsupported node type %T", n))
	}
	memo[n.Index()] = result
	return result
}

func evalGate(gate *boolgraph.Gate, assignment Assignment, memo map[int]bool) bool {
	switch gate.State {
	case boolgraph.StateNull:
		return false
	case boolgraph.StateUnity:
		return true
	}

	values := make([]bool, 0, gate.ArgCount())
	for _, signed := range gate.SortedArgs() {
		node := childAt(gate, signed)
		v := evalNode(node, assignment, memo)
		if !boolgraph.Polarity(signed) {
			v = !v
		}
		values = append(values, v)
	}

	switch gate.Type {
	case boolgraph.AND:
		return allTrue(values)
	case boolgraph.NAND:
		return !allTrue(values)
	case boolgraph.OR:
		return anyTrue(values)
	case boolgraph.NOR:
		return !anyTrue(values)
	case boolgraph.XOR:
		return oddTrue(values)
	case boolgraph.NOT:
		return !values[0]
	case boolgraph.NULL:
		return values[0]
	case boolgraph.ATLEAST:
		return countTrue(values) >= gate.VoteNumber
	default:
		panic(fmt.Sprintf("truth: unsupported operator %s", gate.Type))
	}
}

func childAt(gate *boolgraph.Gate, signed int) boolgraph.Node {
	if n, ok := gate.GateArgs()[signed]; ok {
		return n
	}
	if n, ok := gate.VariableArgs()[signed]; ok {
		return n
	}
	if n, ok := gate.ConstantArgs()[signed]; ok {
		return n
	}
	panic(fmt.Sprintf("truth: %d is not an arg of gate %d", signed, gate.Index()))
}

func allTrue(vs []bool) bool {
	for _, v := range vs {
		if !v {
			return false
		}
	}
	return true
}

func anyTrue(vs []bool) bool {
	for _, v := range vs {
		if v {
			return true
		}
	}
	return false
}

func countTrue(vs []bool) int {
	n := 0
	for _, v := range vs {
		if v {
			n++
		}
	}
	return n
}

func oddTrue(vs []bool) bool {
	return countTrue(vs)%2 == 1
}

// VariableNames returns the sorted, de-duplicated names of every
// Variable reachable from graph's root.
func VariableNames(graph *boolgraph.BooleanGraph) []string {
	visited := make(map[int]bool)
	names := make(map[string]bool)

	var walk func(n boolgraph.Node)
	walk = func(n boolgraph.Node) {
		if visited[n.Index()] {
			return
		}
		visited[n.Index()] = true
		gate, ok := n.(*boolgraph.Gate)
		if !ok {
			if v, ok := n.(*boolgraph.Variable); ok {
				names[v.Name] = true
			}
			return
		}
		for _, c := range gate.GateArgs() {
			walk(c)
		}
		for _, v := range gate.VariableArgs() {
			names[v.Name] = true
		}
		for _, c := range gate.ConstantArgs() {
			walk(c)
		}
	}
	walk(graph.Root)

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ForEachAssignment calls fn once per assignment of the given variable
// names to every combination of true/false, stopping early if fn
// returns false. It panics if names is longer than maxVariables.
func ForEachAssignment(names []string, fn func(Assignment) bool) {
	if len(names) > maxVariables {
		panic(fmt.Sprintf("truth: %d variables exceeds the brute-force enumeration limit of %d", len(names), maxVariables))
	}
	total := 1 << uint(len(names))
	for mask := 0; mask < total; mask++ {
		assignment := make(Assignment, len(names))
		for i, name := range names {
			assignment[name] = mask&(1<<uint(i)) != 0
		}
		if !fn(assignment) {
			return
		}
	}
}

// Equivalent reports whether a and b compute the same Boolean function,
// by enumerating every assignment over the union of their variable
// names. On the first disagreement it returns false and the
// disagreeing assignment; callers use it to turn a preprocessing
// transform into a property test ("preprocessing must not change the
// function a fault tree computes") rather than a fixed table of cases.
func Equivalent(a, b *boolgraph.BooleanGraph) (equivalent bool, counterexample Assignment) {
	names := mergeNames(VariableNames(a), VariableNames(b))
	equivalent = true
	ForEachAssignment(names, func(assignment Assignment) bool {
		if Eval(a, assignment) != Eval(b, assignment) {
			equivalent = false
			counterexample = assignment
			return false
		}
		return true
	})
	return equivalent, counterexample
}

func mergeNames(a, b []string) []string {
	set := make(map[string]bool, len(a)+len(b))
	for _, n := range a {
		set[n] = true
	}
	for _, n := range b {
		set[n] = true
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
