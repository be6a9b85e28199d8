package sim

import (
	"fmt"
	"maps"
)

// Layout is where things start out on the deck.
type Layout struct {
	// Pipettes maps pipette id to mount.
	Pipettes map[string]Mount
	// Labware maps labware id to a deck slot, the thermocycler span or a module id.
	Labware map[string]string
	// Modules maps module id to a deck slot.
	Modules map[string]string
	// Liquids holds starting well contents: labware id → well → contents.
	Liquids map[string]map[string]Contents
}

// NewInitialRobotState builds the first snapshot of a protocol. Every tip
// rack is full, no pipette holds a tip and modules are in their initial
// state. Everything placed by layout must exist in ctx.
func NewInitialRobotState(ctx *InvariantContext, layout Layout) (*RobotState, error) {
	s := NewRobotState()
	for id := range ctx.PipetteEntities {
		s.TipState.Pipettes[id] = false
		mount, ok := layout.Pipettes[id]
		if !ok {
			return nil, fmt.Errorf("pipette %q has no mount", id)
		}
		s.Pipettes[id] = PipetteTemporalProperties{Mount: mount}
	}
	for id, slot := range layout.Modules {
		ent, ok := ctx.ModuleEntities[id]
		if !ok {
			return nil, fmt.Errorf("module %q is placed but not defined", id)
		}
		state, err := InitialModuleState(ent.Type)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", id, err)
		}
		s.Modules[id] = ModuleTemporalProperties{Slot: slot, State: state}
	}
	for id, slot := range layout.Labware {
		lw, ok := ctx.LabwareEntities[id]
		if !ok {
			return nil, fmt.Errorf("labware %q is placed but not defined", id)
		}
		if !IsDeckSlot(slot) && slot != ThermocyclerSlot {
			if _, onModule := s.Modules[slot]; !onModule {
				return nil, fmt.Errorf("labware %q: unknown location %q", id, slot)
			}
		}
		s.Labware[id] = LabwareTemporalProperties{Slot: slot}
		if lw.Def != nil && lw.Def.IsTiprack {
			wells := make(map[string]bool)
			for _, w := range lw.Def.AllWells() {
				wells[w] = true
			}
			s.TipState.Tipracks[id] = wells
		}
	}
	for id, wells := range layout.Liquids {
		if _, ok := s.Labware[id]; !ok {
			return nil, fmt.Errorf("liquid placed in labware %q which is not on the deck", id)
		}
		byWell := make(map[string]Contents, len(wells))
		for w, c := range wells {
			byWell[w] = maps.Clone(c)
		}
		s.LiquidState.Labware[id] = byWell
	}
	return s, nil
}
