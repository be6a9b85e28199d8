package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/stepgen/sim"
	"github.com/inference-sim/stepgen/sim/history"
	"github.com/inference-sim/stepgen/sim/metrics"
	"github.com/inference-sim/stepgen/sim/trace"
)

// SimulateProtocol runs p either as a validated timeline (s.Validate) or as
// a raw replay. StripNoOps only applies to replays: validation must see
// every command, since a state-inert command can still be rejected.
func SimulateProtocol(p *Protocol, s Settings) (sim.Timeline, *trace.SimulationTrace, error) {
	if !trace.IsValidTraceLevel(s.Trace) {
		return sim.Timeline{}, nil, fmt.Errorf("unknown trace level %q", s.Trace)
	}
	var tr *trace.SimulationTrace
	if trace.TraceLevel(s.Trace) == trace.TraceLevelDecisions {
		tr = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	}

	if s.Validate {
		tl, err := sim.ValidateCommands(p.Commands, sim.NewCreators(nil), p.Context, p.Initial, tr)
		return tl, tr, err
	}
	tl, err := sim.Simulate(p.Commands, p.Context, p.Initial, sim.SimulateOptions{StripNoOps: s.StripNoOps, Trace: tr})
	return tl, tr, err
}

// WriteTimeline writes tl to w as indented JSON.
func WriteTimeline(w io.Writer, tl sim.Timeline) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tl)
}

// RecordRun stores tl in the history database and writes the metrics
// textfile, each only when configured.
func RecordRun(ctx context.Context, s Settings, protocolPath string, p *Protocol, tl sim.Timeline) error {
	if s.DBPath != "" {
		store, err := history.Open(s.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		run, err := store.Save(ctx, protocolPath, len(p.Commands), tl)
		if err != nil {
			return err
		}
		logrus.Infof("Saved run %s to %s", run.ID, s.DBPath)
	}
	if s.MetricsFile != "" {
		reg := prometheus.NewRegistry()
		collector, err := metrics.New(reg)
		if err != nil {
			return err
		}
		collector.Observe(tl)
		if err := metrics.WriteTextfile(s.MetricsFile, reg); err != nil {
			return err
		}
		logrus.Infof("Wrote metrics to %s", s.MetricsFile)
	}
	return nil
}

// logTraceSummary prints the decision summary at info level.
func logTraceSummary(tr *trace.SimulationTrace) {
	if !tr.Enabled() {
		return
	}
	summary := trace.Summarize(tr)
	logrus.Infof("=== Trace Summary ===")
	logrus.Infof("Decisions: %d (accepted %d, rejected %d)", summary.TotalDecisions, summary.AcceptedCount, summary.RejectedCount)
	logrus.Infof("Commands emitted: %d, warnings: %d", summary.EmittedCommands, summary.WarningCount)
	for _, kind := range sortedKeys(summary.KindDistribution) {
		logrus.Infof("  %s: %d", kind, summary.KindDistribution[kind])
	}
	for _, kind := range sortedKeys(summary.ErrorDistribution) {
		logrus.Infof("  error %s: %d", kind, summary.ErrorDistribution[kind])
	}
	for _, kind := range sortedKeys(summary.WarningDistribution) {
		logrus.Infof("  warning %s: %d", kind, summary.WarningDistribution[kind])
	}
}

// runOnce loads, simulates and records the protocol at path.
func runOnce(ctx context.Context, path string, s Settings) (sim.Timeline, error) {
	pf, err := LoadProtocolFile(path)
	if err != nil {
		return sim.Timeline{}, err
	}
	p, err := pf.Build()
	if err != nil {
		return sim.Timeline{}, fmt.Errorf("building protocol: %w", err)
	}
	logrus.Infof("Simulating %d command(s) from %s (validate=%v)", len(p.Commands), path, s.Validate)

	tl, tr, err := SimulateProtocol(p, s)
	if err != nil {
		return tl, err
	}
	if tl.Error != nil {
		logrus.Warnf("Timeline halted: %v", tl.Error)
	}
	logrus.Infof("%d frame(s), %d warning(s)", len(tl.Frames), len(tl.Warnings()))
	logTraceSummary(tr)

	return tl, RecordRun(ctx, s, path, p, tl)
}

// StatusLine is a one-line summary of a timeline: frame count, warnings by
// kind and where it halted.
func StatusLine(tl sim.Timeline) string {
	counts := make(map[string]int)
	for _, w := range tl.Warnings() {
		counts[string(w.Kind)]++
	}
	parts := make([]string, 0, len(counts))
	for _, k := range sortedKeys(counts) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	line := fmt.Sprintf("frames=%d warnings=[%s]", len(tl.Frames), strings.Join(parts, " "))
	if tl.Error != nil && len(tl.Error.Errors) > 0 {
		line += fmt.Sprintf(" halted at command %d (%s)", tl.Error.CommandIndex, tl.Error.Errors[0].Kind)
	}
	return line
}
