package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions      int
	AcceptedCount       int
	RejectedCount       int
	EmittedCommands     int
	WarningCount        int
	KindDistribution    map[string]int // command kind → decisions
	ErrorDistribution   map[string]int // error kind → occurrences
	WarningDistribution map[string]int // warning kind → occurrences
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KindDistribution:    make(map[string]int),
		ErrorDistribution:   make(map[string]int),
		WarningDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Decisions)
	for _, d := range st.Decisions {
		if d.Accepted {
			summary.AcceptedCount++
		} else {
			summary.RejectedCount++
		}
		if d.Kind != "" {
			summary.KindDistribution[d.Kind]++
		}
		summary.EmittedCommands += d.CommandCount
		for _, k := range d.ErrorKinds {
			summary.ErrorDistribution[k]++
		}
		for _, k := range d.WarningKinds {
			summary.WarningDistribution[k]++
		}
		summary.WarningCount += len(d.WarningKinds)
	}

	return summary
}
