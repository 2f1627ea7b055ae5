package main

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/config"
	"github.com/joshuapare/heapkit/internal/logger"
)

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		scenario    string
		strategy    string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "best-fit scenario",
			scenario:    "best-fit",
			wantContain: []string{"best-fit (best-fit)", "[[8, 1], [16, 1], [24, 0], [8, 1], [16, 1]]", "8 steps, 0 errors"},
		},
		{
			name:        "errors scenario counts rejected release",
			scenario:    "errors",
			wantContain: []string{"error: ", "5 steps, 1 errors"},
		},
		{
			name:        "strategy override",
			scenario:    "errors",
			strategy:    "segregated",
			wantContain: []string{"errors (segregated)"},
		},
		{
			name:     "override breaks scenario expectations",
			scenario: "best-fit",
			strategy: "first-fit",
			wantErr:  true,
		},
		{
			name:     "bad strategy",
			scenario: "errors",
			strategy: "worst-fit",
			wantErr:  true,
		},
		{
			name:     "unknown scenario",
			scenario: "nope",
			wantErr:  true,
		},
		{
			name:    "no input",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			runScenario = tt.scenario
			runStrategy = tt.strategy

			output, err := captureOutput(t, func() error {
				return runRun(context.Background(), tt.args)
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestRunCommand_TraceFile(t *testing.T) {
	resetFlags(t)
	path := writeTrace(t, `
name: file
strategy: free-list
ops:
  - alloc: 16
    label: a
  - alloc: 16
  - free: a
  - alloc: 8
    same_as: a
`)

	output, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{path})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "file (free-list)")
	assert.Contains(t, output, "4 steps, 0 errors")

	runScenario = "errors"
	_, err = captureOutput(t, func() error {
		return runRun(context.Background(), []string{path})
	})
	assert.Error(t, err, "file and scenario are exclusive")
}

func TestRunCommand_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	runScenario = "segregated"

	output, err := captureOutput(t, func() error {
		return runRun(context.Background(), nil)
	})
	require.NoError(t, err)

	var doc struct {
		Strategy string `json:"strategy"`
		Blocks   []struct {
			Size  int  `json:"size"`
			Used  bool `json:"used"`
			Class int  `json:"class"`
		} `json:"blocks"`
	}
	decodeJSON(t, output, &doc)
	assert.Equal(t, "segregated", doc.Strategy)
	require.Len(t, doc.Blocks, 5)
	assert.Equal(t, 3, doc.Blocks[4].Class)
}

func TestRunCommand_FileRegionPersists(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("file regions need mmap")
	}
	resetFlags(t)
	settings.Region = config.RegionFile
	settings.Path = filepath.Join(t.TempDir(), "heap.bin")
	settings.Capacity = 1 << 20

	path := writeTrace(t, "name: grow\nops:\n  - alloc: 8\n  - alloc: 16\n")
	_, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{path})
	})
	require.NoError(t, err)

	// A second run adopts the blocks left by the first.
	output, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{path})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "[[8, 1], [16, 1], [8, 1], [16, 1]]")
}

func TestRunCommand_LogPathFromEnvironment(t *testing.T) {
	resetFlags(t)
	logPath := filepath.Join(t.TempDir(), "heapctl.log")
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv("HEAPKIT_LOG_PATH", logPath)
	t.Setenv("HEAPKIT_LOG_LEVEL", "debug")
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(t)
	})

	rootCmd.SetArgs([]string{"run", "--scenario", "errors", "--quiet"})
	_, err := captureOutput(t, rootCmd.Execute)
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "opened heap")
	assert.Contains(t, string(data), "invalid release", "allocator warnings reach the file")
}
