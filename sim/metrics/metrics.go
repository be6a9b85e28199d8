// Package metrics exposes Prometheus counters for finished simulation
// timelines.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/stepgen/sim"
)

const namespace = "stepgen"

// Collector counts commands, warnings and errors across observed timelines.
type Collector struct {
	commands *prometheus.CounterVec
	warnings *prometheus.CounterVec
	errors   *prometheus.CounterVec
	frames   prometheus.Counter
	runs     *prometheus.CounterVec
}

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Primitive commands applied, by command kind.",
		}, []string{"kind"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Warnings raised by reducers, by warning type.",
		}, []string{"type"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "creator_errors_total",
			Help:      "Errors that halted a timeline, by error type.",
		}, []string{"type"}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Timeline frames produced.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Timelines observed, by outcome.",
		}, []string{"outcome"}),
	}
	for _, col := range []prometheus.Collector{c.commands, c.warnings, c.errors, c.frames, c.runs} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}
	return c, nil
}

// Observe adds the contents of a finished timeline to the counters.
func (c *Collector) Observe(tl sim.Timeline) {
	for _, f := range tl.Frames {
		c.frames.Inc()
		for _, cmd := range f.Commands {
			c.commands.WithLabelValues(string(cmd.Kind())).Inc()
		}
		for _, w := range f.Warnings {
			c.warnings.WithLabelValues(string(w.Kind)).Inc()
		}
	}
	outcome := "ok"
	if tl.Error != nil {
		outcome = "halted"
		for _, e := range tl.Error.Errors {
			c.errors.WithLabelValues(string(e.Kind)).Inc()
		}
	}
	c.runs.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes everything gathered by g to path in the Prometheus
// text format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
