package main

import (
	"runtime/debug"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/alloc"
	"github.com/joshuapare/heapkit/internal/format"
)

// Set with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// buildInfo describes this binary.
type buildInfo struct {
	Version    string
	Module     string
	Commit     string
	Date       string
	GoVersion  string
	WordSize   int
	Strategies []string
}

func currentBuild() buildInfo {
	b := buildInfo{
		Version:  version,
		Commit:   commit,
		Date:     date,
		WordSize: format.WordSize,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		b.Module = bi.Main.Path
		b.GoVersion = bi.GoVersion
		if b.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			b.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && b.Commit == "none" {
				b.Commit = s.Value
			}
		}
	}
	for _, s := range alloc.Strategies {
		b.Strategies = append(b.Strategies, s.String())
	}
	return b
}

func runVersion() error {
	b := currentBuild()
	if jsonOut {
		return printJSON(func(w *jwriter.Writer) {
			obj := w.Object()
			obj.Name("version").String(b.Version)
			obj.Name("module").String(b.Module)
			obj.Name("commit").String(b.Commit)
			obj.Name("date").String(b.Date)
			obj.Name("go").String(b.GoVersion)
			obj.Name("wordSize").Int(b.WordSize)
			arr := obj.Name("strategies").Array()
			for _, s := range b.Strategies {
				arr.String(s)
			}
			arr.End()
			obj.End()
		})
	}
	printInfo("heapctl %s\n", b.Version)
	printInfo("  commit: %s\n", b.Commit)
	printInfo("  built: %s (%s, %d-byte words)\n", b.Date, b.GoVersion, b.WordSize)
	printVerbose("  strategies: %v\n", b.Strategies)
	return nil
}
