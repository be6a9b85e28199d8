package sim

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// RoomTemperature is the assumed starting temperature of any heater, in °C.
const RoomTemperature = 25.0

// Mount is the side of the gantry a pipette is attached to.
type Mount string

const (
	MountLeft  Mount = "left"
	MountRight Mount = "right"
)

// PipetteTemporalProperties holds pipette properties that may vary by step.
type PipetteTemporalProperties struct {
	Mount Mount `json:"mount"`
}

// LabwareTemporalProperties holds the current location of a labware. Slot is
// a deck slot, the thermocycler span, or the id of the module it sits on.
type LabwareTemporalProperties struct {
	Slot string `json:"slot"`
}

// TemperatureStatus is the state of a heater: a temperature module, or the
// block or lid of a thermocycler.
type TemperatureStatus string

const (
	TemperatureIdle        TemperatureStatus = "idle"
	TemperatureHeating     TemperatureStatus = "heating"
	TemperatureCooling     TemperatureStatus = "cooling"
	TemperatureAtTarget    TemperatureStatus = "atTarget"
	TemperatureDeactivated TemperatureStatus = "deactivated"
)

// LidPosition is the thermocycler lid position. Unknown until first moved.
type LidPosition string

const (
	LidUnknown LidPosition = "unknown"
	LidOpen    LidPosition = "open"
	LidClosed  LidPosition = "closed"
)

// ModuleState is the operating state of one module. Implementations are
// value types; a new value replaces the old one on every transition.
type ModuleState interface {
	ModuleType() ModuleType
	isModuleState()
}

// MagneticModuleState tracks magnet engagement.
type MagneticModuleState struct {
	Engaged      bool     `json:"engaged"`
	EngageHeight *float64 `json:"engageHeight,omitempty"`
}

func (MagneticModuleState) ModuleType() ModuleType { return MagneticModuleType }
func (MagneticModuleState) isModuleState()         {}

// TemperatureModuleState tracks a temperature module.
type TemperatureModuleState struct {
	Status            TemperatureStatus `json:"status"`
	TargetTemperature *float64          `json:"targetTemperature,omitempty"`
}

func (TemperatureModuleState) ModuleType() ModuleType { return TemperatureModuleType }
func (TemperatureModuleState) isModuleState()         {}

// ThermocyclerModuleState tracks the block, the heated lid and the lid position.
type ThermocyclerModuleState struct {
	BlockStatus     TemperatureStatus `json:"blockStatus"`
	BlockTargetTemp *float64          `json:"blockTargetTemp,omitempty"`
	LidStatus       TemperatureStatus `json:"lidStatus"`
	LidTargetTemp   *float64          `json:"lidTargetTemp,omitempty"`
	Lid             LidPosition       `json:"lid"`
}

func (ThermocyclerModuleState) ModuleType() ModuleType { return ThermocyclerModuleType }
func (ThermocyclerModuleState) isModuleState()         {}

// InitialModuleState returns the state a module of the given type starts in.
func InitialModuleState(t ModuleType) (ModuleState, error) {
	switch t {
	case MagneticModuleType:
		return MagneticModuleState{}, nil
	case TemperatureModuleType:
		return TemperatureModuleState{Status: TemperatureIdle}, nil
	case ThermocyclerModuleType:
		return ThermocyclerModuleState{
			BlockStatus: TemperatureIdle,
			LidStatus:   TemperatureIdle,
			Lid:         LidUnknown,
		}, nil
	}
	return nil, fmt.Errorf("unknown module type %q", t)
}

// ModuleTemporalProperties holds a module's slot and operating state.
type ModuleTemporalProperties struct {
	Slot  string
	State ModuleState
}

// MarshalJSON emits the state along with its module type tag.
func (m ModuleTemporalProperties) MarshalJSON() ([]byte, error) {
	var moduleType ModuleType
	if m.State != nil {
		moduleType = m.State.ModuleType()
	}
	return json.Marshal(struct {
		Slot        string      `json:"slot"`
		Type        ModuleType  `json:"type"`
		ModuleState ModuleState `json:"moduleState"`
	}{m.Slot, moduleType, m.State})
}

// Contents maps a liquid id to its volume in µL.
type Contents map[string]float64

// Total returns the summed volume of all liquids. Liquids are summed in id
// order so the result does not depend on map iteration.
func (c Contents) Total() float64 {
	var total float64
	for _, k := range slices.Sorted(maps.Keys(c)) {
		total += c[k]
	}
	return total
}

// TipState tracks tips remaining in tip racks and tips on pipettes.
type TipState struct {
	Tipracks map[string]map[string]bool `json:"tipracks"`
	Pipettes map[string]bool            `json:"pipettes"`
}

// LiquidState tracks liquid in pipette tips (per channel) and in wells.
type LiquidState struct {
	Pipettes map[string]map[int]Contents    `json:"pipettes"`
	Labware  map[string]map[string]Contents `json:"labware"`
}

// RobotState is one snapshot of the robot between two commands. Snapshots
// handed out by this package are never written again; use a Draft to derive
// the next one.
type RobotState struct {
	Pipettes    map[string]PipetteTemporalProperties `json:"pipettes"`
	Labware     map[string]LabwareTemporalProperties `json:"labware"`
	Modules     map[string]ModuleTemporalProperties  `json:"modules"`
	TipState    TipState                             `json:"tipState"`
	LiquidState LiquidState                          `json:"liquidState"`
}

// NewRobotState returns an empty snapshot with every map allocated.
func NewRobotState() *RobotState {
	return &RobotState{
		Pipettes: make(map[string]PipetteTemporalProperties),
		Labware:  make(map[string]LabwareTemporalProperties),
		Modules:  make(map[string]ModuleTemporalProperties),
		TipState: TipState{
			Tipracks: make(map[string]map[string]bool),
			Pipettes: make(map[string]bool),
		},
		LiquidState: LiquidState{
			Pipettes: make(map[string]map[int]Contents),
			Labware:  make(map[string]map[string]Contents),
		},
	}
}

// HasTip reports whether a tip is attached to the pipette.
func (s *RobotState) HasTip(pipetteID string) bool {
	return s.TipState.Pipettes[pipetteID]
}

// WellContents returns the liquid in a well. The result must not be modified.
func (s *RobotState) WellContents(labwareID, well string) Contents {
	return s.LiquidState.Labware[labwareID][well]
}

// TipContents returns the liquid held by one channel of a pipette. The result
// must not be modified.
func (s *RobotState) TipContents(pipetteID string, channel int) Contents {
	return s.LiquidState.Pipettes[pipetteID][channel]
}

// DeckSlotOf returns the deck slot a labware physically occupies, looking
// through any module it sits on.
func (s *RobotState) DeckSlotOf(labwareID string) string {
	lw, ok := s.Labware[labwareID]
	if !ok {
		return ""
	}
	if mod, ok := s.Modules[lw.Slot]; ok {
		return mod.Slot
	}
	return lw.Slot
}
