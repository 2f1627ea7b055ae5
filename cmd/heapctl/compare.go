package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/alloc"
	"github.com/joshuapare/heapkit/internal/config"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/internal/trace"
	"github.com/joshuapare/heapkit/region"
)

var compareScenario string

func init() {
	cmd := newCompareCmd()
	cmd.Flags().StringVar(&compareScenario, "scenario", "", "Compare on a built-in scenario instead of a file")
	rootCmd.AddCommand(cmd)
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [trace.yaml]",
		Short: "Replay a workload under every strategy and compare memory use",
		Long: `The compare command replays one workload against a fresh in-memory
heap per placement strategy, ignoring the trace's expectations, and prints
region size, block counts and fragmentation side by side.

Example:
  heapctl compare --scenario first-fit
  heapctl compare workload.yaml --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(args)
		},
	}
	return cmd
}

// comparison is one strategy's outcome.
type comparison struct {
	Strategy alloc.Strategy
	Usage    alloc.Usage
	Stats    alloc.Stats
	Errors   int
}

func runCompare(args []string) error {
	tr, err := selectTrace(args, compareScenario)
	if err != nil {
		return err
	}
	c := currentConfig()
	bare := tr.WithoutExpectations()

	// An in-memory region per strategy; only a slice region's limit carries
	// over from the config.
	limit := 0
	if c.Region == config.RegionSlice {
		limit = c.Capacity
	}

	rows := make([]comparison, 0, len(alloc.Strategies))
	for _, s := range alloc.Strategies {
		hc := c.HeapConfig(logger.L)
		hc.Strategy = s
		h, err := alloc.New(region.NewSlice(limit), hc)
		if err != nil {
			return err
		}
		res, err := trace.Replay(h, bare, nil)
		if err != nil {
			return errors.Wrapf(err, "replay under %s", s)
		}
		printVerbose("%s: %s\n", s, h)
		rows = append(rows, comparison{Strategy: s, Usage: h.Usage(), Stats: h.Stats(), Errors: res.Failed()})
	}

	if jsonOut {
		return printJSON(func(w *jwriter.Writer) { writeComparisons(w, tr.Name, rows) })
	}
	printComparisons(tr.Name, len(tr.Ops), rows)
	return nil
}

func printComparisons(name string, ops int, rows []comparison) {
	if quiet {
		return
	}
	p := message.NewPrinter(language.English)
	p.Fprintf(os.Stdout, "%s (%d ops)\n", name, ops)
	p.Fprintf(os.Stdout, "%-12s %12s %8s %8s %12s %12s %10s %8s\n",
		"STRATEGY", "REGION", "BLOCKS", "FREE", "FREE BYTES", "LARGEST", "PROVIDER", "ERRORS")
	for _, r := range rows {
		p.Fprintf(os.Stdout, "%-12s %12d %8d %8d %12d %12d %10d %8d\n",
			r.Strategy.String(),
			r.Usage.RegionBytes,
			r.Usage.Blocks,
			r.Usage.FreeBlocks,
			r.Usage.FreeBytes,
			r.Usage.LargestFree,
			r.Stats.GrowCalls,
			r.Errors,
		)
	}
}

func writeComparisons(w *jwriter.Writer, name string, rows []comparison) {
	obj := w.Object()
	obj.Name("trace").String(name)
	arr := obj.Name("strategies").Array()
	for _, r := range rows {
		ro := arr.Object()
		ro.Name("strategy").String(r.Strategy.String())
		ro.Name("regionBytes").Int(r.Usage.RegionBytes)
		ro.Name("blocks").Int(r.Usage.Blocks)
		ro.Name("freeBlocks").Int(r.Usage.FreeBlocks)
		ro.Name("freeBytes").Int(r.Usage.FreeBytes)
		ro.Name("largestFree").Int(r.Usage.LargestFree)
		ro.Name("slack").Int(r.Usage.Slack)
		ro.Name("providerCalls").Int(r.Stats.GrowCalls)
		ro.Name("splits").Int(r.Stats.Splits)
		ro.Name("coalesces").Int(r.Stats.Coalesces)
		ro.Name("errors").Int(r.Errors)
		ro.End()
	}
	arr.End()
	obj.End()
}
