// Package trace records command-creator verdicts for protocol analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DecisionRecord captures the verdict of one command creator.
type DecisionRecord struct {
	CommandIndex int
	Kind         string // command kind, or "" when a rejected compound creator emitted nothing
	Accepted     bool
	ErrorKinds   []string // nil when accepted
	CommandCount int      // primitives emitted
	WarningKinds []string
}
