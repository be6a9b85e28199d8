package sim

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned when a command outside the closed command
// set reaches the reducer layer. It signals an internal inconsistency, not a
// user error, and aborts the run.
var ErrUnknownCommand = errors.New("unknown command")

// ErrorKind enumerates fatal command-creator errors.
type ErrorKind string

const (
	PipetteDoesNotExist          ErrorKind = "PIPETTE_DOES_NOT_EXIST"
	LabwareDoesNotExist          ErrorKind = "LABWARE_DOES_NOT_EXIST"
	NoTipOnPipette               ErrorKind = "NO_TIP_ON_PIPETTE"
	TipVolumeExceeded            ErrorKind = "TIP_VOLUME_EXCEEDED"
	PipetteVolumeExceeded        ErrorKind = "PIPETTE_VOLUME_EXCEEDED"
	ThermocyclerLidClosed        ErrorKind = "THERMOCYCLER_LID_CLOSED"
	ModulePipetteCollisionDanger ErrorKind = "MODULE_PIPETTE_COLLISION_DANGER"
	MissingModule                ErrorKind = "MISSING_MODULE"
	ModuleTypeMismatch           ErrorKind = "MODULE_TYPE_MISMATCH"
	TemperatureOutOfRange        ErrorKind = "TEMPERATURE_OUT_OF_RANGE"
	EngageHeightOutOfRange       ErrorKind = "ENGAGE_HEIGHT_OUT_OF_RANGE"
	MissingTemperatureStep       ErrorKind = "MISSING_TEMPERATURE_STEP"
	ThermocyclerProfileEmpty     ErrorKind = "THERMOCYCLER_PROFILE_EMPTY"
	InsufficientTips             ErrorKind = "INSUFFICIENT_TIPS"
	InvalidSlot                  ErrorKind = "INVALID_SLOT"
	MissingTrash                 ErrorKind = "MISSING_TRASH"
)

// CommandCreatorError is a fatal validation error: the command it belongs to
// is not accepted and state does not advance for it.
type CommandCreatorError struct {
	Kind    ErrorKind `json:"type"`
	Message string    `json:"message"`
}

func (e CommandCreatorError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...any) CommandCreatorError {
	return CommandCreatorError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WarningKind enumerates non-fatal conditions raised by reducers.
type WarningKind string

const (
	AspirateFromPristineWell     WarningKind = "ASPIRATE_FROM_PRISTINE_WELL"
	AspirateMoreThanWellContents WarningKind = "ASPIRATE_MORE_THAN_WELL_CONTENTS"
	DispenseMoreThanTipContents  WarningKind = "DISPENSE_MORE_THAN_TIP_CONTENTS"
	WellOverflow                 WarningKind = "WELL_OVERFLOW"
	MultichannelTargetUnresolved WarningKind = "MULTICHANNEL_TARGET_UNRESOLVED"
	AwaitTemperatureMismatch     WarningKind = "AWAIT_TEMPERATURE_MISMATCH"
)

// Warning is a non-fatal condition attached to the frame of the command that
// raised it. CommandIndex is the position of that command in the input list.
type Warning struct {
	Kind         WarningKind `json:"type"`
	Message      string      `json:"message"`
	CommandIndex int         `json:"commandIndex"`
}

func newWarning(kind WarningKind, format string, args ...any) Warning {
	return Warning{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
