package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/stepgen/sim/history"
)

func TestWriteRunTable(t *testing.T) {
	// GIVEN two stored runs
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	runs := []history.Run{
		{ID: "b", CreatedAt: created, Protocol: "mix.yaml", Commands: 4, Frames: 4},
		{ID: "a", CreatedAt: created.Add(-time.Hour), Protocol: "transfer.yaml", Commands: 6, Frames: 5, Warnings: 1, Halted: true},
	}

	// WHEN they are printed
	var buf bytes.Buffer
	require.NoError(t, writeRunTable(&buf, runs))

	// THEN there is a header and one row per run, in the given order
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Equal(t, []string{"b", "2024-05-01T12:00:00Z", "mix.yaml", "4", "4", "0", "false"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"a", "2024-05-01T11:00:00Z", "transfer.yaml", "6", "5", "1", "true"}, strings.Fields(lines[2]))
}

func TestRequireDB(t *testing.T) {
	old := settings.DBPath
	t.Cleanup(func() { settings.DBPath = old })

	settings.DBPath = ""
	assert.Error(t, requireDB())
	settings.DBPath = "runs.db"
	assert.NoError(t, requireDB())
}
