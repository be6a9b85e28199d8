package sim

import "maps"

// Draft is the exclusive, temporary write view used to derive the next
// RobotState from a previous one. The previous snapshot is never written:
// each top-level map is copied on its first write, and each inner map is
// copied on its first write per key. Everything untouched stays shared with
// the previous snapshot.
type Draft struct {
	next *RobotState

	warnings []Warning

	ownModules      bool
	ownTipPipettes  bool
	ownTipracks     bool
	ownTipracksWell map[string]bool
	ownLiquidPip    bool
	ownLiquidPipCh  map[string]bool
	ownLiquidLw     bool
	ownLiquidLwWell map[string]bool
	done            bool
}

// NewDraft starts a draft on top of prev.
func NewDraft(prev *RobotState) *Draft {
	next := *prev
	return &Draft{
		next:            &next,
		ownTipracksWell: make(map[string]bool),
		ownLiquidPipCh:  make(map[string]bool),
		ownLiquidLwWell: make(map[string]bool),
	}
}

// State returns a read view of the state being built. Callers must not
// write through it.
func (d *Draft) State() *RobotState { return d.next }

// Warn appends a non-fatal warning to the draft.
func (d *Draft) Warn(kind WarningKind, format string, args ...any) {
	d.warnings = append(d.warnings, newWarning(kind, format, args...))
}

// Finish seals the draft and returns the next snapshot and the warnings
// accumulated. The draft must not be used afterwards.
func (d *Draft) Finish() (*RobotState, []Warning) {
	if d.done {
		panic("sim: draft finished twice")
	}
	d.done = true
	return d.next, d.warnings
}

func (d *Draft) checkOpen() {
	if d.done {
		panic("sim: write to finished draft")
	}
}

// SetPipetteTip records whether a tip is attached to the pipette.
func (d *Draft) SetPipetteTip(pipetteID string, attached bool) {
	d.checkOpen()
	if !d.ownTipPipettes {
		d.next.TipState.Pipettes = maps.Clone(d.next.TipState.Pipettes)
		if d.next.TipState.Pipettes == nil {
			d.next.TipState.Pipettes = make(map[string]bool)
		}
		d.ownTipPipettes = true
	}
	d.next.TipState.Pipettes[pipetteID] = attached
}

// SetTiprackWell records whether a tip remains in a tip rack well.
func (d *Draft) SetTiprackWell(labwareID, well string, present bool) {
	d.checkOpen()
	if !d.ownTipracks {
		d.next.TipState.Tipracks = maps.Clone(d.next.TipState.Tipracks)
		if d.next.TipState.Tipracks == nil {
			d.next.TipState.Tipracks = make(map[string]map[string]bool)
		}
		d.ownTipracks = true
	}
	if !d.ownTipracksWell[labwareID] {
		wells := maps.Clone(d.next.TipState.Tipracks[labwareID])
		if wells == nil {
			wells = make(map[string]bool)
		}
		d.next.TipState.Tipracks[labwareID] = wells
		d.ownTipracksWell[labwareID] = true
	}
	d.next.TipState.Tipracks[labwareID][well] = present
}

// SetWellContents replaces the liquid in a well.
func (d *Draft) SetWellContents(labwareID, well string, c Contents) {
	d.checkOpen()
	if !d.ownLiquidLw {
		d.next.LiquidState.Labware = maps.Clone(d.next.LiquidState.Labware)
		if d.next.LiquidState.Labware == nil {
			d.next.LiquidState.Labware = make(map[string]map[string]Contents)
		}
		d.ownLiquidLw = true
	}
	if !d.ownLiquidLwWell[labwareID] {
		wells := maps.Clone(d.next.LiquidState.Labware[labwareID])
		if wells == nil {
			wells = make(map[string]Contents)
		}
		d.next.LiquidState.Labware[labwareID] = wells
		d.ownLiquidLwWell[labwareID] = true
	}
	d.next.LiquidState.Labware[labwareID][well] = c
}

// SetTipContents replaces the liquid held by one channel of a pipette.
func (d *Draft) SetTipContents(pipetteID string, channel int, c Contents) {
	d.checkOpen()
	d.ownPipetteLiquid(pipetteID)
	d.next.LiquidState.Pipettes[pipetteID][channel] = c
}

// ClearTipContents empties every channel of a pipette.
func (d *Draft) ClearTipContents(pipetteID string) {
	d.checkOpen()
	if len(d.next.LiquidState.Pipettes[pipetteID]) == 0 {
		return
	}
	d.ownPipetteLiquid(pipetteID)
	d.next.LiquidState.Pipettes[pipetteID] = make(map[int]Contents)
}

func (d *Draft) ownPipetteLiquid(pipetteID string) {
	if !d.ownLiquidPip {
		d.next.LiquidState.Pipettes = maps.Clone(d.next.LiquidState.Pipettes)
		if d.next.LiquidState.Pipettes == nil {
			d.next.LiquidState.Pipettes = make(map[string]map[int]Contents)
		}
		d.ownLiquidPip = true
	}
	if !d.ownLiquidPipCh[pipetteID] {
		channels := maps.Clone(d.next.LiquidState.Pipettes[pipetteID])
		if channels == nil {
			channels = make(map[int]Contents)
		}
		d.next.LiquidState.Pipettes[pipetteID] = channels
		d.ownLiquidPipCh[pipetteID] = true
	}
}

// SetModuleState replaces the operating state of a module, keeping its slot.
func (d *Draft) SetModuleState(moduleID string, state ModuleState) {
	d.checkOpen()
	if !d.ownModules {
		d.next.Modules = maps.Clone(d.next.Modules)
		if d.next.Modules == nil {
			d.next.Modules = make(map[string]ModuleTemporalProperties)
		}
		d.ownModules = true
	}
	mod := d.next.Modules[moduleID]
	mod.State = state
	d.next.Modules[moduleID] = mod
}
