package sim

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/stepgen/sim/trace"
)

// Frame is the robot state after one accepted command creator (or one raw
// command, for Simulate) along with the primitives applied and the warnings
// they raised.
type Frame struct {
	CommandIndex int
	Commands     []Command
	RobotState   *RobotState
	Warnings     []Warning
}

// MarshalJSON encodes Commands in their wire envelopes.
func (f Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CommandIndex int         `json:"commandIndex"`
		Commands     Commands    `json:"commands"`
		RobotState   *RobotState `json:"robotState"`
		Warnings     []Warning   `json:"warnings"`
	}{f.CommandIndex, Commands(f.Commands), f.RobotState, f.Warnings})
}

// TimelineError records the creator that halted a timeline.
type TimelineError struct {
	CommandIndex int                   `json:"commandIndex"`
	Errors       []CommandCreatorError `json:"errors"`
}

func (e *TimelineError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("command %d rejected: %s", e.CommandIndex, strings.Join(msgs, "; "))
}

// Timeline is the ordered sequence of frames of a run. When a creator is
// rejected the timeline stops before it and Error describes why.
type Timeline struct {
	Frames []Frame        `json:"timeline"`
	Error  *TimelineError `json:"error,omitempty"`
}

// FinalState returns the state after the last frame, or initial when the
// timeline is empty.
func (t Timeline) FinalState(initial *RobotState) *RobotState {
	if len(t.Frames) == 0 {
		return initial
	}
	return t.Frames[len(t.Frames)-1].RobotState
}

// Warnings returns every warning of every frame, in order.
func (t Timeline) Warnings() []Warning {
	var out []Warning
	for _, f := range t.Frames {
		out = append(out, f.Warnings...)
	}
	return out
}

// SimulateOptions control Simulate.
type SimulateOptions struct {
	// StripNoOps skips no-op commands before they reach the reducers.
	StripNoOps bool
	// Trace, when enabled, receives one record per applied command.
	Trace *trace.SimulationTrace
}

// applyCommands applies commands in order to one draft on top of prev.
func applyCommands(commands []Command, ctx *InvariantContext, prev *RobotState) (*RobotState, []Warning, error) {
	d := NewDraft(prev)
	for _, c := range commands {
		if err := applyCommand(c, ctx, d); err != nil {
			return nil, nil, err
		}
	}
	next, warnings := d.Finish()
	return next, warnings, nil
}

func stampWarnings(warnings []Warning, index int) []Warning {
	for i := range warnings {
		warnings[i].CommandIndex = index
	}
	return warnings
}

func warningKinds(warnings []Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = string(w.Kind)
	}
	return out
}

// SimulateOne applies one command to prev without validating it. prev is
// not modified.
func SimulateOne(cmd Command, ctx *InvariantContext, prev *RobotState) (RobotStateAndWarnings, error) {
	next, warnings, err := applyCommands([]Command{cmd}, ctx, prev)
	if err != nil {
		return RobotStateAndWarnings{}, err
	}
	return RobotStateAndWarnings{RobotState: next, Warnings: warnings}, nil
}

// Simulate replays commands without validation, producing one frame per
// applied command. A Go error means a command outside the closed set was
// met; the frames before it are returned.
func Simulate(commands []Command, ctx *InvariantContext, initial *RobotState, opts SimulateOptions) (Timeline, error) {
	tl := Timeline{Frames: make([]Frame, 0, len(commands))}
	prev := initial
	for i, cmd := range commands {
		if opts.StripNoOps && IsNoOpCommand(cmd) {
			logrus.Debugf("[cmd %04d] %s skipped as no-op", i, cmd.Kind())
			continue
		}
		res, err := SimulateOne(cmd, ctx, prev)
		if err != nil {
			return tl, fmt.Errorf("command %d: %w", i, err)
		}
		warnings := stampWarnings(res.Warnings, i)
		logrus.Debugf("[cmd %04d] %s applied, %d warning(s)", i, cmd.Kind(), len(warnings))
		if opts.Trace.Enabled() {
			opts.Trace.RecordDecision(trace.DecisionRecord{
				CommandIndex: i,
				Kind:         string(cmd.Kind()),
				Accepted:     true,
				CommandCount: 1,
				WarningKinds: warningKinds(warnings),
			})
		}
		tl.Frames = append(tl.Frames, Frame{
			CommandIndex: i,
			Commands:     []Command{cmd},
			RobotState:   res.RobotState,
			Warnings:     warnings,
		})
		prev = res.RobotState
	}
	return tl, nil
}

// NextRobotStateAndWarnings folds a whole command list into one resulting
// state. No-op commands are skipped; the result is the same either way. Each
// warning carries the index of its command in commands.
func NextRobotStateAndWarnings(commands []Command, ctx *InvariantContext, initial *RobotState) (RobotStateAndWarnings, error) {
	res := RobotStateAndWarnings{RobotState: initial}
	for i, cmd := range commands {
		if IsNoOpCommand(cmd) {
			continue
		}
		next, warnings, err := applyCommands([]Command{cmd}, ctx, res.RobotState)
		if err != nil {
			return RobotStateAndWarnings{}, fmt.Errorf("command %d: %w", i, err)
		}
		res.RobotState = next
		res.Warnings = append(res.Warnings, stampWarnings(warnings, i)...)
	}
	return res, nil
}

type timelineStep struct {
	creator CurriedCommandCreator
	kind    CommandKind
}

// CommandCreatorTimeline runs each creator against the state left by the
// previous one. Accepted commands are applied; the first rejection halts the
// timeline and is recorded in Timeline.Error. tr may be nil.
func CommandCreatorTimeline(creators []CurriedCommandCreator, ctx *InvariantContext, initial *RobotState, tr *trace.SimulationTrace) (Timeline, error) {
	steps := make([]timelineStep, len(creators))
	for i, c := range creators {
		steps[i] = timelineStep{creator: c}
	}
	return runTimeline(steps, ctx, initial, tr)
}

// ValidateCommands checks a raw command list by running each command
// through its atomic creator.
func ValidateCommands(commands []Command, creators *Creators, ctx *InvariantContext, initial *RobotState, tr *trace.SimulationTrace) (Timeline, error) {
	steps := make([]timelineStep, len(commands))
	for i, cmd := range commands {
		cc, err := creators.CreatorFor(cmd)
		if err != nil {
			return Timeline{}, fmt.Errorf("command %d: %w", i, err)
		}
		steps[i] = timelineStep{creator: cc, kind: cmd.Kind()}
	}
	return runTimeline(steps, ctx, initial, tr)
}

func runTimeline(steps []timelineStep, ctx *InvariantContext, initial *RobotState, tr *trace.SimulationTrace) (Timeline, error) {
	tl := Timeline{Frames: make([]Frame, 0, len(steps))}
	prev := initial
	for i, step := range steps {
		res := step.creator(ctx, prev)
		kind := step.kind
		if kind == "" && len(res.Commands) > 0 {
			kind = res.Commands[0].Kind()
		}
		if !res.OK() {
			logrus.Infof("[cmd %04d] %s rejected: %s", i, kind, res.Errors[0].Kind)
			if tr.Enabled() {
				errKinds := make([]string, len(res.Errors))
				for j, e := range res.Errors {
					errKinds[j] = string(e.Kind)
				}
				tr.RecordDecision(trace.DecisionRecord{CommandIndex: i, Kind: string(kind), ErrorKinds: errKinds})
			}
			tl.Error = &TimelineError{CommandIndex: i, Errors: res.Errors}
			return tl, nil
		}
		next, reduced, err := applyCommands(res.Commands, ctx, prev)
		if err != nil {
			return tl, fmt.Errorf("command %d: %w", i, err)
		}
		warnings := stampWarnings(append(append([]Warning(nil), res.Warnings...), reduced...), i)
		logrus.Debugf("[cmd %04d] %s accepted, %d primitive(s), %d warning(s)", i, kind, len(res.Commands), len(warnings))
		if tr.Enabled() {
			tr.RecordDecision(trace.DecisionRecord{
				CommandIndex: i,
				Kind:         string(kind),
				Accepted:     true,
				CommandCount: len(res.Commands),
				WarningKinds: warningKinds(warnings),
			})
		}
		tl.Frames = append(tl.Frames, Frame{
			CommandIndex: i,
			Commands:     res.Commands,
			RobotState:   next,
			Warnings:     warnings,
		})
		prev = next
	}
	return tl, nil
}
