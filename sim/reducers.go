package sim

import "fmt"

// stateInertKinds are the commands that never change RobotState. They are
// still validated by their creators.
var stateInertKinds = map[CommandKind]bool{
	KindBlowout:          true,
	KindTouchTip:         true,
	KindDelay:            true,
	KindAirGap:           true,
	KindDispenseAirGap:   true,
	KindMoveToSlot:       true,
	KindMoveToWell:       true,
	KindUpdateRobotState: true,
}

// IsStateInert reports whether commands of this kind leave RobotState as is.
func IsStateInert(kind CommandKind) bool {
	return stateInertKinds[kind]
}

// applyCommand applies one command's physical effect to the draft. The
// switch covers the closed command set; anything else is an internal error.
func applyCommand(cmd Command, ctx *InvariantContext, d *Draft) error {
	switch c := cmd.(type) {
	case Aspirate:
		forAspirate(c.P, ctx, d)
	case Dispense:
		forDispense(c.P, ctx, d)
	case PickUpTip:
		forPickUpTip(c.P, ctx, d)
	case DropTip:
		forDropTip(c.P, d)
	case Blowout, TouchTip, Delay, AirGap, DispenseAirGap, MoveToSlot, MoveToWell, UpdateRobotState:
		// no effect on state
	case EngageMagnet:
		forEngageMagnet(c.P, d)
	case DisengageMagnet:
		forDisengageMagnet(c.P, d)
	case SetTargetTemperature:
		forSetTemperature(c.P, d)
	case DeactivateTemperature:
		forDeactivateTemperature(c.P, d)
	case AwaitTemperature:
		forAwaitTemperature(c.P, d)
	case SetTargetBlockTemperature:
		forThermocyclerSetTargetBlockTemperature(c.P, d)
	case SetTargetLidTemperature:
		forThermocyclerSetTargetLidTemperature(c.P, d)
	case AwaitBlockTemperature:
		forThermocyclerAwaitBlockTemperature(c.P, d)
	case AwaitLidTemperature:
		forThermocyclerAwaitLidTemperature(c.P, d)
	case DeactivateBlock:
		forThermocyclerDeactivateBlock(c.P, d)
	case DeactivateLid:
		forThermocyclerDeactivateLid(c.P, d)
	case CloseLid:
		forThermocyclerSetLid(c.P, LidClosed, d)
	case OpenLid:
		forThermocyclerSetLid(c.P, LidOpen, d)
	case RunProfile:
		forThermocyclerRunProfile(c.P, d)
	case AwaitProfileComplete:
		forThermocyclerAwaitProfileComplete(c.P, d)
	default:
		return fmt.Errorf("%w: %T passed to the reducer", ErrUnknownCommand, cmd)
	}
	return nil
}
