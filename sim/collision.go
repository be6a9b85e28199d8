package sim

// ModulePipetteCollisionArgs are the inputs of the module adjacency check.
type ModulePipetteCollisionArgs struct {
	Pipette   string
	Labware   string
	Context   *InvariantContext
	PrevState *RobotState
}

// CollisionDetector decides whether a pipette move is physically unsafe.
// Command creators consult it after their entity and volume checks.
type CollisionDetector interface {
	// ThermocyclerPipetteCollision reports whether labwareID sits inside a
	// thermocycler whose lid is not known to be open.
	ThermocyclerPipetteCollision(modules map[string]ModuleTemporalProperties, labware map[string]LabwareTemporalProperties, labwareID string) bool
	// ModulePipetteCollision reports whether the pipette would hit a module
	// next to the target labware.
	ModulePipetteCollision(args ModulePipetteCollisionArgs) bool
}

// DeckCollisions is the default CollisionDetector for the standard deck.
type DeckCollisions struct{}

func (DeckCollisions) ThermocyclerPipetteCollision(modules map[string]ModuleTemporalProperties, labware map[string]LabwareTemporalProperties, labwareID string) bool {
	return ThermocyclerPipetteCollision(modules, labware, labwareID)
}

func (DeckCollisions) ModulePipetteCollision(args ModulePipetteCollisionArgs) bool {
	return ModulePipetteCollision(args)
}

// ThermocyclerPipetteCollision is true when the labware is on a thermocycler
// and the lid is closed or in an unknown position.
func ThermocyclerPipetteCollision(modules map[string]ModuleTemporalProperties, labware map[string]LabwareTemporalProperties, labwareID string) bool {
	lw, ok := labware[labwareID]
	if !ok {
		return false
	}
	mod, ok := modules[lw.Slot]
	if !ok {
		return false
	}
	tc, ok := mod.State.(ThermocyclerModuleState)
	return ok && tc.Lid != LidOpen
}

// ModulePipetteCollision is true when a GEN1 multi-channel pipette targets
// labware in the deck slot directly in front of or behind a magnetic or
// temperature module. The channels run front to back, so the slots to either
// side are clear. The thermocycler is not considered: it only fits in its own
// span.
func ModulePipetteCollision(args ModulePipetteCollisionArgs) bool {
	if args.Pipette == "" || args.Labware == "" || args.Context == nil || args.PrevState == nil {
		return false
	}
	if args.Context.Config.DisableModuleRestrictions {
		return false
	}
	pip, ok := args.Context.PipetteEntities[args.Pipette]
	if !ok || !pip.Spec.Gen1Multi {
		return false
	}
	target := args.PrevState.DeckSlotOf(args.Labware)
	for _, mod := range args.PrevState.Modules {
		switch mod.State.(type) {
		case MagneticModuleState, TemperatureModuleState:
			if slotsFrontToBack(target, mod.Slot) {
				return true
			}
		}
	}
	return false
}

// CollisionFuncs adapts two plain functions to a CollisionDetector. A nil
// field falls back to the deck default.
type CollisionFuncs struct {
	Thermocycler func(modules map[string]ModuleTemporalProperties, labware map[string]LabwareTemporalProperties, labwareID string) bool
	Module       func(args ModulePipetteCollisionArgs) bool
}

func (f CollisionFuncs) ThermocyclerPipetteCollision(modules map[string]ModuleTemporalProperties, labware map[string]LabwareTemporalProperties, labwareID string) bool {
	if f.Thermocycler == nil {
		return ThermocyclerPipetteCollision(modules, labware, labwareID)
	}
	return f.Thermocycler(modules, labware, labwareID)
}

func (f CollisionFuncs) ModulePipetteCollision(args ModulePipetteCollisionArgs) bool {
	if f.Module == nil {
		return ModulePipetteCollision(args)
	}
	return f.Module(args)
}
