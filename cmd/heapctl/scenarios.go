package main

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/trace"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List built-in scenarios",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScenarios()
	},
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios() error {
	all, err := trace.Scenarios()
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(func(w *jwriter.Writer) {
			arr := w.Array()
			for _, tr := range all {
				obj := arr.Object()
				obj.Name("name").String(tr.Name)
				obj.Name("strategy").String(tr.Strategy)
				obj.Name("ops").Int(len(tr.Ops))
				obj.Name("description").String(tr.Description)
				obj.End()
			}
			arr.End()
		})
	}
	for _, tr := range all {
		strategy := tr.Strategy
		if strategy == "" {
			strategy = "-"
		}
		printInfo("%-12s %-12s %s\n", tr.Name, strategy, tr.Description)
	}
	return nil
}
