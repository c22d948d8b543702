package main

import "github.com/scram-project/scram/boolgraph"

// graphStats summarizes a graph's shape for the before/after report.
type graphStats struct {
	gates      int
	variables  int
	constants  int
	byOperator map[boolgraph.Operator]int
	coherent   bool
	normal     bool
}

func collectStats(graph *boolgraph.BooleanGraph) graphStats {
	stats := graphStats{
		byOperator: make(map[boolgraph.Operator]int),
		coherent:   graph.Coherent,
		normal:     graph.Normal,
	}
	visited := make(map[int]bool)

	var walk func(n boolgraph.Node)
	walk = func(n boolgraph.Node) {
		if visited[n.Index()] {
			return
		}
		visited[n.Index()] = true
		switch node := n.(type) {
		case *boolgraph.Variable:
			stats.variables++
		case *boolgraph.Constant:
			stats.constants++
		case *boolgraph.Gate:
			stats.gates++
			stats.byOperator[node.Type]++
			for _, c := range node.GateArgs() {
				walk(c)
			}
			for _, v := range node.VariableArgs() {
				walk(v)
			}
			for _, c := range node.ConstantArgs() {
				walk(c)
			}
		}
	}
	walk(graph.Root)
	return stats
}
