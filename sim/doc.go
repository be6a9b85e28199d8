// Package sim provides the protocol step-generation simulation engine for stepgen.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - command.go: the closed set of primitive commands and their params
//   - state.go: RobotState snapshots (tips, liquids, module states)
//   - timeline.go: the orchestrator that validates, applies and records frames
//
// # Architecture
//
// A run flows through four stages, each in its own files:
//   - creators_*.go: command creators validate a request against the
//     InvariantContext and the previous RobotState, and either accept it
//     (emitting primitive commands) or reject it with CommandCreatorErrors
//   - reducers*.go: reducers apply one accepted command to a Draft,
//     producing the next immutable snapshot plus non-fatal Warnings
//   - noop.go: the no-op filter drops commands that cannot affect state
//   - timeline.go: Simulate replays raw commands; CommandCreatorTimeline and
//     ValidateCommands validate and halt at the first rejection
//
// Supporting packages consume finished timelines:
//   - sim/trace/: decision trace of creator verdicts
//   - sim/metrics/: Prometheus counters
//   - sim/history/: SQLite run history
//
// # Key Interfaces
//
//   - Command: sealed primitive command; dispatch is a type switch
//   - ModuleState: sealed per-module-type operating state
//   - CollisionDetector: thermocycler-lid and module-adjacency predicates,
//     injected into Creators so tests can substitute them
//
// The core does no I/O and is deterministic: the same context, initial
// state and commands always produce the same timeline.
package sim
