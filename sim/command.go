package sim

// CommandKind is the wire tag of a primitive command.
type CommandKind string

const (
	KindAspirate                  CommandKind = "aspirate"
	KindDispense                  CommandKind = "dispense"
	KindBlowout                   CommandKind = "blowout"
	KindDropTip                   CommandKind = "dropTip"
	KindPickUpTip                 CommandKind = "pickUpTip"
	KindTouchTip                  CommandKind = "touchTip"
	KindDelay                     CommandKind = "delay"
	KindAirGap                    CommandKind = "airGap"
	KindDispenseAirGap            CommandKind = "dispenseAirGap"
	KindMoveToSlot                CommandKind = "moveToSlot"
	KindMoveToWell                CommandKind = "moveToWell"
	KindUpdateRobotState          CommandKind = "updateRobotState"
	KindEngageMagnet              CommandKind = "magneticModule/engageMagnet"
	KindDisengageMagnet           CommandKind = "magneticModule/disengageMagnet"
	KindSetTargetTemperature      CommandKind = "temperatureModule/setTargetTemperature"
	KindDeactivateTemperature     CommandKind = "temperatureModule/deactivate"
	KindAwaitTemperature          CommandKind = "temperatureModule/awaitTemperature"
	KindSetTargetBlockTemperature CommandKind = "thermocycler/setTargetBlockTemperature"
	KindSetTargetLidTemperature   CommandKind = "thermocycler/setTargetLidTemperature"
	KindAwaitBlockTemperature     CommandKind = "thermocycler/awaitBlockTemperature"
	KindAwaitLidTemperature       CommandKind = "thermocycler/awaitLidTemperature"
	KindDeactivateBlock           CommandKind = "thermocycler/deactivateBlock"
	KindDeactivateLid             CommandKind = "thermocycler/deactivateLid"
	KindCloseLid                  CommandKind = "thermocycler/closeLid"
	KindOpenLid                   CommandKind = "thermocycler/openLid"
	KindRunProfile                CommandKind = "thermocycler/runProfile"
	KindAwaitProfileComplete      CommandKind = "thermocycler/awaitProfileComplete"
)

// AllCommandKinds lists the closed command set in wire order.
var AllCommandKinds = []CommandKind{
	KindAspirate, KindDispense, KindBlowout, KindDropTip, KindPickUpTip,
	KindTouchTip, KindDelay, KindAirGap, KindDispenseAirGap, KindMoveToSlot,
	KindMoveToWell, KindUpdateRobotState,
	KindEngageMagnet, KindDisengageMagnet,
	KindSetTargetTemperature, KindDeactivateTemperature, KindAwaitTemperature,
	KindSetTargetBlockTemperature, KindSetTargetLidTemperature,
	KindAwaitBlockTemperature, KindAwaitLidTemperature,
	KindDeactivateBlock, KindDeactivateLid, KindCloseLid, KindOpenLid,
	KindRunProfile, KindAwaitProfileComplete,
}

// Command is a primitive robot command. The set of implementations is closed
// to this package.
type Command interface {
	Kind() CommandKind
	// Params returns the kind-specific parameter struct.
	Params() any
	isCommand()
}

// PipettingParams parameterize aspirate, dispense, airGap and dispenseAirGap.
type PipettingParams struct {
	Pipette            string  `json:"pipette" yaml:"pipette"`
	Volume             float64 `json:"volume" yaml:"volume"`
	Labware            string  `json:"labware" yaml:"labware"`
	Well               string  `json:"well" yaml:"well"`
	FlowRate           float64 `json:"flowRate" yaml:"flowRate"`
	OffsetFromBottomMm float64 `json:"offsetFromBottomMm" yaml:"offsetFromBottomMm"`
}

// BlowoutParams parameterize blowout.
type BlowoutParams struct {
	Pipette            string  `json:"pipette" yaml:"pipette"`
	Labware            string  `json:"labware" yaml:"labware"`
	Well               string  `json:"well" yaml:"well"`
	FlowRate           float64 `json:"flowRate" yaml:"flowRate"`
	OffsetFromBottomMm float64 `json:"offsetFromBottomMm" yaml:"offsetFromBottomMm"`
}

// TouchTipParams parameterize touchTip.
type TouchTipParams struct {
	Pipette            string  `json:"pipette" yaml:"pipette"`
	Labware            string  `json:"labware" yaml:"labware"`
	Well               string  `json:"well" yaml:"well"`
	OffsetFromBottomMm float64 `json:"offsetFromBottomMm" yaml:"offsetFromBottomMm"`
}

// TipParams parameterize pickUpTip and dropTip.
type TipParams struct {
	Pipette string `json:"pipette" yaml:"pipette"`
	Labware string `json:"labware" yaml:"labware"`
	Well    string `json:"well" yaml:"well"`
}

// DelayParams parameterize delay. Pause waits for the operator instead of a
// fixed number of seconds.
type DelayParams struct {
	Wait    float64 `json:"wait" yaml:"wait"`
	Pause   bool    `json:"pause,omitempty" yaml:"pause,omitempty"`
	Message string  `json:"message,omitempty" yaml:"message,omitempty"`
}

// Offset is a relative move in mm.
type Offset struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// MoveToSlotParams parameterize moveToSlot.
type MoveToSlotParams struct {
	Pipette        string   `json:"pipette" yaml:"pipette"`
	Slot           string   `json:"slot" yaml:"slot"`
	Offset         *Offset  `json:"offset,omitempty" yaml:"offset,omitempty"`
	MinimumZHeight *float64 `json:"minimumZHeight,omitempty" yaml:"minimumZHeight,omitempty"`
	ForceDirect    bool     `json:"forceDirect,omitempty" yaml:"forceDirect,omitempty"`
}

// MoveToWellParams parameterize moveToWell.
type MoveToWellParams struct {
	Pipette        string   `json:"pipette" yaml:"pipette"`
	Labware        string   `json:"labware" yaml:"labware"`
	Well           string   `json:"well" yaml:"well"`
	Offset         *Offset  `json:"offset,omitempty" yaml:"offset,omitempty"`
	MinimumZHeight *float64 `json:"minimumZHeight,omitempty" yaml:"minimumZHeight,omitempty"`
	ForceDirect    bool     `json:"forceDirect,omitempty" yaml:"forceDirect,omitempty"`
}

// UpdateRobotStateParams parameterize updateRobotState, a bookkeeping marker
// with no physical action.
type UpdateRobotStateParams struct{}

// ModuleParams parameterize module commands that only name the module.
type ModuleParams struct {
	Module string `json:"module" yaml:"module"`
}

// EngageMagnetParams parameterize engageMagnet. EngageHeight is in mm.
type EngageMagnetParams struct {
	Module       string  `json:"module" yaml:"module"`
	EngageHeight float64 `json:"engageHeight" yaml:"engageHeight"`
}

// TemperatureParams parameterize temperature set and await commands, in °C.
type TemperatureParams struct {
	Module      string  `json:"module" yaml:"module"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// BlockTemperatureParams parameterize thermocycler/setTargetBlockTemperature.
type BlockTemperatureParams struct {
	Module      string   `json:"module" yaml:"module"`
	Temperature float64  `json:"temperature" yaml:"temperature"`
	Volume      *float64 `json:"volume,omitempty" yaml:"volume,omitempty"`
}

// ProfileStep is one hold of a thermocycler profile. HoldTime is in seconds.
type ProfileStep struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	HoldTime    float64 `json:"holdTime" yaml:"holdTime"`
}

// RunProfileParams parameterize thermocycler/runProfile.
type RunProfileParams struct {
	Module        string        `json:"module" yaml:"module"`
	Profile       []ProfileStep `json:"profile" yaml:"profile"`
	LidTargetTemp float64       `json:"lidTargetTemp" yaml:"lidTargetTemp"`
	Volume        float64       `json:"volume" yaml:"volume"`
}

type Aspirate struct{ P PipettingParams }
type Dispense struct{ P PipettingParams }
type AirGap struct{ P PipettingParams }
type DispenseAirGap struct{ P PipettingParams }
type Blowout struct{ P BlowoutParams }
type TouchTip struct{ P TouchTipParams }
type PickUpTip struct{ P TipParams }
type DropTip struct{ P TipParams }
type Delay struct{ P DelayParams }
type MoveToSlot struct{ P MoveToSlotParams }
type MoveToWell struct{ P MoveToWellParams }
type UpdateRobotState struct{ P UpdateRobotStateParams }
type EngageMagnet struct{ P EngageMagnetParams }
type DisengageMagnet struct{ P ModuleParams }
type SetTargetTemperature struct{ P TemperatureParams }
type DeactivateTemperature struct{ P ModuleParams }
type AwaitTemperature struct{ P TemperatureParams }
type SetTargetBlockTemperature struct{ P BlockTemperatureParams }
type SetTargetLidTemperature struct{ P TemperatureParams }
type AwaitBlockTemperature struct{ P TemperatureParams }
type AwaitLidTemperature struct{ P TemperatureParams }
type DeactivateBlock struct{ P ModuleParams }
type DeactivateLid struct{ P ModuleParams }
type CloseLid struct{ P ModuleParams }
type OpenLid struct{ P ModuleParams }
type RunProfile struct{ P RunProfileParams }
type AwaitProfileComplete struct{ P ModuleParams }

func (Aspirate) Kind() CommandKind                  { return KindAspirate }
func (Dispense) Kind() CommandKind                  { return KindDispense }
func (AirGap) Kind() CommandKind                    { return KindAirGap }
func (DispenseAirGap) Kind() CommandKind            { return KindDispenseAirGap }
func (Blowout) Kind() CommandKind                   { return KindBlowout }
func (TouchTip) Kind() CommandKind                  { return KindTouchTip }
func (PickUpTip) Kind() CommandKind                 { return KindPickUpTip }
func (DropTip) Kind() CommandKind                   { return KindDropTip }
func (Delay) Kind() CommandKind                     { return KindDelay }
func (MoveToSlot) Kind() CommandKind                { return KindMoveToSlot }
func (MoveToWell) Kind() CommandKind                { return KindMoveToWell }
func (UpdateRobotState) Kind() CommandKind          { return KindUpdateRobotState }
func (EngageMagnet) Kind() CommandKind              { return KindEngageMagnet }
func (DisengageMagnet) Kind() CommandKind           { return KindDisengageMagnet }
func (SetTargetTemperature) Kind() CommandKind      { return KindSetTargetTemperature }
func (DeactivateTemperature) Kind() CommandKind     { return KindDeactivateTemperature }
func (AwaitTemperature) Kind() CommandKind          { return KindAwaitTemperature }
func (SetTargetBlockTemperature) Kind() CommandKind { return KindSetTargetBlockTemperature }
func (SetTargetLidTemperature) Kind() CommandKind   { return KindSetTargetLidTemperature }
func (AwaitBlockTemperature) Kind() CommandKind     { return KindAwaitBlockTemperature }
func (AwaitLidTemperature) Kind() CommandKind       { return KindAwaitLidTemperature }
func (DeactivateBlock) Kind() CommandKind           { return KindDeactivateBlock }
func (DeactivateLid) Kind() CommandKind             { return KindDeactivateLid }
func (CloseLid) Kind() CommandKind                  { return KindCloseLid }
func (OpenLid) Kind() CommandKind                   { return KindOpenLid }
func (RunProfile) Kind() CommandKind                { return KindRunProfile }
func (AwaitProfileComplete) Kind() CommandKind      { return KindAwaitProfileComplete }

func (c Aspirate) Params() any                  { return c.P }
func (c Dispense) Params() any                  { return c.P }
func (c AirGap) Params() any                    { return c.P }
func (c DispenseAirGap) Params() any            { return c.P }
func (c Blowout) Params() any                   { return c.P }
func (c TouchTip) Params() any                  { return c.P }
func (c PickUpTip) Params() any                 { return c.P }
func (c DropTip) Params() any                   { return c.P }
func (c Delay) Params() any                     { return c.P }
func (c MoveToSlot) Params() any                { return c.P }
func (c MoveToWell) Params() any                { return c.P }
func (c UpdateRobotState) Params() any          { return c.P }
func (c EngageMagnet) Params() any              { return c.P }
func (c DisengageMagnet) Params() any           { return c.P }
func (c SetTargetTemperature) Params() any      { return c.P }
func (c DeactivateTemperature) Params() any     { return c.P }
func (c AwaitTemperature) Params() any          { return c.P }
func (c SetTargetBlockTemperature) Params() any { return c.P }
func (c SetTargetLidTemperature) Params() any   { return c.P }
func (c AwaitBlockTemperature) Params() any     { return c.P }
func (c AwaitLidTemperature) Params() any       { return c.P }
func (c DeactivateBlock) Params() any           { return c.P }
func (c DeactivateLid) Params() any             { return c.P }
func (c CloseLid) Params() any                  { return c.P }
func (c OpenLid) Params() any                   { return c.P }
func (c RunProfile) Params() any                { return c.P }
func (c AwaitProfileComplete) Params() any      { return c.P }

func (Aspirate) isCommand()                  {}
func (Dispense) isCommand()                  {}
func (AirGap) isCommand()                    {}
func (DispenseAirGap) isCommand()            {}
func (Blowout) isCommand()                   {}
func (TouchTip) isCommand()                  {}
func (PickUpTip) isCommand()                 {}
func (DropTip) isCommand()                   {}
func (Delay) isCommand()                     {}
func (MoveToSlot) isCommand()                {}
func (MoveToWell) isCommand()                {}
func (UpdateRobotState) isCommand()          {}
func (EngageMagnet) isCommand()              {}
func (DisengageMagnet) isCommand()           {}
func (SetTargetTemperature) isCommand()      {}
func (DeactivateTemperature) isCommand()     {}
func (AwaitTemperature) isCommand()          {}
func (SetTargetBlockTemperature) isCommand() {}
func (SetTargetLidTemperature) isCommand()   {}
func (AwaitBlockTemperature) isCommand()     {}
func (AwaitLidTemperature) isCommand()       {}
func (DeactivateBlock) isCommand()           {}
func (DeactivateLid) isCommand()             {}
func (CloseLid) isCommand()                  {}
func (OpenLid) isCommand()                   {}
func (RunProfile) isCommand()                {}
func (AwaitProfileComplete) isCommand()      {}
