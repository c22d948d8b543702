package main

import (
	"fmt"
	"os"

	"github.com/markkurossi/tabulate"
	"github.com/spf13/cobra"

	"github.com/scram-project/scram/boolgraph"
	"github.com/scram-project/scram/fixture"
	"github.com/scram-project/scram/internal/truth"
	"github.com/scram-project/scram/preprocessor"
)

func newRunCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run the preprocessor over a fault tree and report the before/after shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreprocess(args[0], check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "brute-force verify the preprocessed graph computes the same function as the original")
	return cmd
}

func runPreprocess(path string, check bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	original := boolgraph.NewGraph()
	originalRoot, err := fixture.Parse(original, string(src))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	original.SetRoot(originalRoot)
	before := collectStats(original)

	working := boolgraph.NewGraph()
	workingRoot, err := fixture.Parse(working, string(src))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	working.SetRoot(workingRoot)

	p := preprocessor.New(working, preprocessor.WithLogger(newLogger()))
	if err := p.ProcessFaultTree(); err != nil {
		return fmt.Errorf("preprocess %s: %w", path, err)
	}
	after := collectStats(working)

	printComparison(before, after, p)

	if check {
		names := truth.VariableNames(original)
		if len(names) > 20 {
			fmt.Fprintf(os.Stderr, "skipping equivalence check: %d variables is too many to brute-force\n", len(names))
			return nil
		}
		equivalent, counterexample := truth.Equivalent(original, working)
		if !equivalent {
			return fmt.Errorf("preprocessing changed the function computed by %s: disagreement at %v", path, counterexample)
		}
		fmt.Println("equivalence check: passed")
	}
	return nil
}

func printComparison(before, after graphStats, p *preprocessor.Preprocessor) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Metric").SetAlign(tabulate.ML)
	tab.Header("Before").SetAlign(tabulate.MR)
	tab.Header("After").SetAlign(tabulate.MR)

	row := tab.Row()
	row.Column("gates")
	row.Column(fmt.Sprintf("%d", before.gates))
	row.Column(fmt.Sprintf("%d", after.gates))

	row = tab.Row()
	row.Column("variables")
	row.Column(fmt.Sprintf("%d", before.variables))
	row.Column(fmt.Sprintf("%d", after.variables))

	row = tab.Row()
	row.Column("constants")
	row.Column(fmt.Sprintf("%d", before.constants))
	row.Column(fmt.Sprintf("%d", after.constants))

	row = tab.Row()
	row.Column("coherent")
	row.Column(fmt.Sprintf("%t", before.coherent))
	row.Column(fmt.Sprintf("%t", after.coherent))

	row = tab.Row()
	row.Column("normal").SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%t", before.normal))
	row.Column(fmt.Sprintf("%t", after.normal))

	tab.Print(os.Stdout)

	if v, ok := p.TerminalVariable(); ok {
		fmt.Printf("terminal variable: %s\n", v.Name)
	}
}
