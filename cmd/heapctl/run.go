package main

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/alloc"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	runScenario string
	runStrategy string
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&runScenario, "scenario", "", "Replay a built-in scenario instead of a file")
	cmd.Flags().StringVar(&runStrategy, "strategy", "", "Override the placement strategy")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [trace.yaml]",
		Short: "Replay a workload and print the heap after each step",
		Long: `The run command replays a YAML trace or built-in scenario against a
heap and prints the block chain after every step as [size, used] pairs.
Expectations in the trace are checked; the first failure stops the run.

The strategy is taken from --strategy, then the trace, then the config.

Example:
  heapctl run --scenario best-fit
  heapctl run workload.yaml --strategy segregated
  heapctl run workload.yaml --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args)
		},
	}
	return cmd
}

func runRun(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tr, err := selectTrace(args, runScenario)
	if err != nil {
		return err
	}
	c := currentConfig()

	strategy := tr.StrategyOr(c.HeapStrategy())
	if runStrategy != "" {
		if strategy, err = alloc.ParseStrategy(runStrategy); err != nil {
			return err
		}
	}

	sess, err := openSession(c, strategy)
	if err != nil {
		return err
	}
	h := sess.heap

	if !jsonOut {
		printInfo("%s (%s)\n", tr.Name, strategy)
	}
	res, replayErr := trace.Replay(h, tr, func(st trace.Step) {
		if jsonOut {
			return
		}
		line := st.Blocks
		if st.Err != nil {
			line = "error: " + st.Err.Error()
		}
		printInfo("%3d  %-22s %s\n", st.Index, st.Op, line)
		if st.Ptr != alloc.Nil {
			printVerbose("     ptr=%d header=%d size=%d extent=%d\n",
				st.Ptr, st.Block.Offset, st.Block.Size, st.Block.Extent)
		}
	})

	if replayErr == nil {
		replayErr = h.Validate()
	}
	if jsonOut {
		if err := h.WriteJSON(os.Stdout); err != nil {
			replayErr = errors.CombineErrors(replayErr, err)
		}
	} else if res != nil {
		st := h.Stats()
		printVerbose("stats: reused=%d grown=%d splits=%d coalesces=%d grow-bytes=%d\n",
			st.AllocReused, st.AllocGrown, st.Splits, st.Coalesces, st.GrowBytes)
		printInfo("%d steps, %d errors\n", len(res.Steps), res.Failed())
	}
	return errors.CombineErrors(replayErr, sess.Close(ctx))
}

// selectTrace loads the file argument or the named scenario; exactly one
// must be given.
func selectTrace(args []string, scenario string) (*trace.Trace, error) {
	switch {
	case len(args) == 1 && scenario != "":
		return nil, errors.New("give a trace file or --scenario, not both")
	case len(args) == 1:
		return trace.Load(args[0])
	case scenario != "":
		return trace.Scenario(scenario)
	}
	return nil, errors.New("a trace file or --scenario is required")
}
