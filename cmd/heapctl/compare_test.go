package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareCommand_Table(t *testing.T) {
	resetFlags(t)
	compareScenario = "first-fit"

	output, err := captureOutput(t, func() error { return runCompare(nil) })
	require.NoError(t, err)

	assert.Contains(t, output, "first-fit (12 ops)")
	assert.Contains(t, output, "STRATEGY")
	for _, name := range []string{"first-fit", "next-fit", "best-fit", "free-list", "segregated"} {
		assert.Contains(t, output, name)
	}
}

func TestCompareCommand_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	compareScenario = "best-fit"

	output, err := captureOutput(t, func() error { return runCompare(nil) })
	require.NoError(t, err)

	var doc struct {
		Trace      string `json:"trace"`
		Strategies []struct {
			Strategy      string `json:"strategy"`
			RegionBytes   int    `json:"regionBytes"`
			Blocks        int    `json:"blocks"`
			ProviderCalls int    `json:"providerCalls"`
			Splits        int    `json:"splits"`
			Errors        int    `json:"errors"`
		} `json:"strategies"`
	}
	decodeJSON(t, output, &doc)
	assert.Equal(t, "best-fit", doc.Trace)
	require.Len(t, doc.Strategies, 5)

	byName := make(map[string]int)
	for i, s := range doc.Strategies {
		byName[s.Strategy] = i
		assert.Zero(t, s.Errors)
		assert.Positive(t, s.RegionBytes)
	}
	best := doc.Strategies[byName["best-fit"]]
	seg := doc.Strategies[byName["segregated"]]
	assert.Equal(t, 1, best.Splits)
	assert.Zero(t, seg.Splits, "segregated never splits")
	assert.Greater(t, seg.ProviderCalls, best.ProviderCalls, "segregated cannot reuse across classes")
}

func TestCompareCommand_RequiresInput(t *testing.T) {
	resetFlags(t)
	_, err := captureOutput(t, func() error { return runCompare(nil) })
	assert.Error(t, err)
}
