package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/internal/config"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// Global flags
	configPath string
	verbose    bool
	quiet      bool
	jsonOut    bool

	// settings is loaded before any subcommand runs.
	settings *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Replay allocation workloads against the heapkit allocator",
	Long: `heapctl drives the heapkit block allocator with YAML workload traces
or built-in scenarios, prints the block chain as it evolves, and compares
the five placement strategies on the same workload.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		settings = c
		return logger.Init(logger.Options{
			Enabled: verbose || c.LogPath != "",
			Level:   c.LogLevel,
			Format:  c.LogFormat,
			Path:    c.LogPath,
		})
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $"+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and allocator logs")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("command failed", zap.Error(err))
	}
	if cerr := logger.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// currentConfig returns the loaded settings, or the defaults when a command
// runs without the root pre-run (as in tests).
func currentConfig() *config.Config {
	if settings == nil {
		return config.Default()
	}
	return settings
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON streams a JSON document built by fn to stdout.
func printJSON(fn func(w *jwriter.Writer)) error {
	w := jwriter.NewWriter()
	fn(&w)
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "encode json")
	}
	_, err := fmt.Fprintln(os.Stdout, string(w.Bytes()))
	return err
}
