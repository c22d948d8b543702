// Command scram-preprocess parses a fault tree written in the fixture
// formula language and runs it through the preprocessor, reporting the
// resulting graph shape.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "scram-preprocess",
	Short:         "Preprocess a Boolean fault tree graph",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each preprocessing phase as it runs")
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newExplainCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "scram-preprocess:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
