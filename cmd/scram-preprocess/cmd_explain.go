package main

import (
	"fmt"
	"os"

	"github.com/markkurossi/tabulate"
	"github.com/spf13/cobra"

	"github.com/scram-project/scram/boolgraph"
	"github.com/scram-project/scram/fixture"
)

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain FILE",
		Short: "Print the gate/variable shape of a fault tree without preprocessing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			graph := boolgraph.NewGraph()
			root, err := fixture.Parse(graph, string(src))
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			graph.SetRoot(root)

			printStats(collectStats(graph))
			return nil
		},
	}
}

func printStats(stats graphStats) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Metric").SetAlign(tabulate.ML)
	tab.Header("Value").SetAlign(tabulate.MR)

	row := tab.Row()
	row.Column("gates")
	row.Column(fmt.Sprintf("%d", stats.gates))
	row = tab.Row()
	row.Column("variables")
	row.Column(fmt.Sprintf("%d", stats.variables))
	row = tab.Row()
	row.Column("constants")
	row.Column(fmt.Sprintf("%d", stats.constants))
	row = tab.Row()
	row.Column("coherent")
	row.Column(fmt.Sprintf("%t", stats.coherent))
	row = tab.Row()
	row.Column("normal")
	row.Column(fmt.Sprintf("%t", stats.normal))

	for _, op := range []boolgraph.Operator{
		boolgraph.AND, boolgraph.OR, boolgraph.NAND, boolgraph.NOR,
		boolgraph.XOR, boolgraph.NOT, boolgraph.NULL, boolgraph.ATLEAST,
	} {
		if n := stats.byOperator[op]; n > 0 {
			row = tab.Row()
			row.Column("  " + op.String())
			row.Column(fmt.Sprintf("%d", n))
		}
	}

	tab.Print(os.Stdout)
}
