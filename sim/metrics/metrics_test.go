package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/stepgen/sim"
)

func sampleTimeline() sim.Timeline {
	pick := sim.PickUpTip{P: sim.TipParams{Pipette: "p", Labware: "tips", Well: "A1"}}
	asp := sim.Aspirate{P: sim.PipettingParams{Pipette: "p", Labware: "plate", Well: "A1", Volume: 10}}
	return sim.Timeline{
		Frames: []sim.Frame{
			{CommandIndex: 0, Commands: []sim.Command{pick}},
			{CommandIndex: 1, Commands: []sim.Command{asp, asp}, Warnings: []sim.Warning{
				{Kind: sim.AspirateFromPristineWell, CommandIndex: 1},
			}},
		},
		Error: &sim.TimelineError{CommandIndex: 2, Errors: []sim.CommandCreatorError{{Kind: sim.NoTipOnPipette}}},
	}
}

func TestCollector_Observe_CountsByKind(t *testing.T) {
	// GIVEN a collector on a fresh registry
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	// WHEN a halted timeline is observed twice
	c.Observe(sampleTimeline())
	c.Observe(sampleTimeline())

	// THEN every counter reflects both runs
	assert.Equal(t, 4.0, testutil.ToFloat64(c.frames))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.commands.WithLabelValues(string(sim.KindPickUpTip))))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.commands.WithLabelValues(string(sim.KindAspirate))))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.warnings.WithLabelValues(string(sim.AspirateFromPristineWell))))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.errors.WithLabelValues(string(sim.NoTipOnPipette))))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.runs.WithLabelValues("halted")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.runs.WithLabelValues("ok")))
}

func TestNew_DoubleRegistration_Fails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)
	c.Observe(sim.Timeline{})

	path := filepath.Join(t.TempDir(), "stepgen.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `stepgen_runs_total{outcome="ok"} 1`)
}
