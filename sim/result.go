package sim

// CommandCreatorResult is the verdict of a command creator: either the
// primitive commands to record, or the errors that rejected it. Warnings may
// accompany accepted commands from compound creators.
type CommandCreatorResult struct {
	Commands []Command             `json:"commands,omitempty"`
	Errors   []CommandCreatorError `json:"errors,omitempty"`
	Warnings []Warning             `json:"warnings,omitempty"`
}

// Accept returns a successful result emitting the given commands.
func Accept(commands ...Command) CommandCreatorResult {
	return CommandCreatorResult{Commands: append([]Command{}, commands...)}
}

// Reject returns a failed result carrying the given errors.
func Reject(errs ...CommandCreatorError) CommandCreatorResult {
	return CommandCreatorResult{Errors: append([]CommandCreatorError(nil), errs...)}
}

// OK reports whether the creator accepted the command.
func (r CommandCreatorResult) OK() bool {
	return len(r.Errors) == 0
}

// CommandCreator validates params against the context and previous state.
// It must not modify prev.
type CommandCreator[P any] func(params P, ctx *InvariantContext, prev *RobotState) CommandCreatorResult

// CurriedCommandCreator is a command creator with its params already bound.
type CurriedCommandCreator func(ctx *InvariantContext, prev *RobotState) CommandCreatorResult

// Curry binds params to a command creator.
func Curry[P any](creator CommandCreator[P], params P) CurriedCommandCreator {
	return func(ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
		return creator(params, ctx, prev)
	}
}

// RobotStateAndWarnings is the outcome of applying one or more commands.
type RobotStateAndWarnings struct {
	RobotState *RobotState `json:"robotState"`
	Warnings   []Warning   `json:"warnings"`
}
