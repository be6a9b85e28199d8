package sim

// IsNoOpCommand reports whether applying cmd can never change RobotState or
// raise a warning: every state-inert kind, and pipetting commands that move
// no volume.
func IsNoOpCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case Aspirate:
		return c.P.Volume <= 0
	case Dispense:
		return c.P.Volume <= 0
	case AirGap, DispenseAirGap:
		return true
	case nil:
		return false
	}
	return IsStateInert(cmd.Kind())
}

// StripNoOpCommands returns the commands that are not no-ops, in order. The
// input is not modified.
func StripNoOpCommands(commands []Command) []Command {
	out := make([]Command, 0, len(commands))
	for _, c := range commands {
		if !IsNoOpCommand(c) {
			out = append(out, c)
		}
	}
	return out
}
