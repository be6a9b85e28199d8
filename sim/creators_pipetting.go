package sim

// Creators validates requested commands against a context and a robot
// state. Collision checks go through the injected CollisionDetector.
type Creators struct {
	collisions CollisionDetector
}

// NewCreators returns command creators using the given collision detector.
// A nil detector means DeckCollisions.
func NewCreators(collisions CollisionDetector) *Creators {
	if collisions == nil {
		collisions = DeckCollisions{}
	}
	return &Creators{collisions: collisions}
}

// accessRequest lists what a pipette-to-labware command must satisfy.
type accessRequest struct {
	pipette         string
	labware         string
	needsTip        bool
	checkVolume     bool
	volume          float64
	checkCollisions bool
}

// validateAccess runs the pipette access checks in order and returns the
// first failure, or nil.
func (c *Creators) validateAccess(r accessRequest, ctx *InvariantContext, prev *RobotState) *CommandCreatorError {
	pip, ok := ctx.PipetteEntities[r.pipette]
	if !ok {
		err := newError(PipetteDoesNotExist, "attempted to use pipette %q which does not exist", r.pipette)
		return &err
	}
	if _, ok := ctx.LabwareEntities[r.labware]; !ok {
		err := newError(LabwareDoesNotExist, "attempted to access labware %q which does not exist", r.labware)
		return &err
	}
	if r.needsTip && !prev.HasTip(r.pipette) {
		err := newError(NoTipOnPipette, "pipette %q has no tip attached", r.pipette)
		return &err
	}
	if r.checkVolume {
		if tipMax := pip.TipVolume(); tipMax > 0 && r.volume > tipMax {
			err := newError(TipVolumeExceeded, "volume %g µL exceeds the %g µL tip on pipette %q", r.volume, tipMax, r.pipette)
			return &err
		}
		if r.volume > pip.Spec.MaxVolume {
			err := newError(PipetteVolumeExceeded, "volume %g µL exceeds the %g µL maximum of pipette %q", r.volume, pip.Spec.MaxVolume, r.pipette)
			return &err
		}
	}
	if r.checkCollisions {
		if c.collisions.ThermocyclerPipetteCollision(prev.Modules, prev.Labware, r.labware) {
			err := newError(ThermocyclerLidClosed, "labware %q is inside a thermocycler with the lid closed", r.labware)
			return &err
		}
		if c.collisions.ModulePipetteCollision(ModulePipetteCollisionArgs{
			Pipette:   r.pipette,
			Labware:   r.labware,
			Context:   ctx,
			PrevState: prev,
		}) {
			err := newError(ModulePipetteCollisionDanger, "pipette %q may collide with a module next to labware %q", r.pipette, r.labware)
			return &err
		}
	}
	return nil
}

// Aspirate draws liquid into the tip. Requires a tip.
func (c *Creators) Aspirate(p PipettingParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if err := c.validateAccess(accessRequest{
		pipette: p.Pipette, labware: p.Labware, needsTip: true,
		checkVolume: true, volume: p.Volume, checkCollisions: true,
	}, ctx, prev); err != nil {
		return Reject(*err)
	}
	return Accept(Aspirate{p})
}

// Dispense expels liquid from the tip. Requires a tip.
func (c *Creators) Dispense(p PipettingParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if err := c.validateAccess(accessRequest{
		pipette: p.Pipette, labware: p.Labware, needsTip: true, checkCollisions: true,
	}, ctx, prev); err != nil {
		return Reject(*err)
	}
	return Accept(Dispense{p})
}

// AirGap draws air into the tip above a well. Requires a tip.
func (c *Creators) AirGap(p PipettingParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if err := c.validateAccess(accessRequest{
		pipette: p.Pipette, labware: p.Labware, needsTip: true,
		checkVolume: true, volume: p.Volume, checkCollisions: true,
	}, ctx, prev); err != nil {
		return Reject(*err)
	}
	return Accept(AirGap{p})
}

// DispenseAirGap expels a previously drawn air gap. Requires a tip.
func (c *Creators) DispenseAirGap(p PipettingParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if err := c.validateAccess(accessRequest{
		pipette: p.Pipette, labware: p.Labware, needsTip: true, checkCollisions: true,
	}, ctx, prev); err != nil {
		return Reject(*err)
	}
	return Accept(DispenseAirGap{p})
}

// Blowout pushes the remaining contents out of the tip. Requires a tip.
func (c *Creators) Blowout(p BlowoutParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if err := c.validateAccess(accessRequest{
		pipette: p.Pipette, labware: p.Labware, needsTip: true, checkCollisions: true,
	}, ctx, prev); err != nil {
		return Reject(*err)
	}
	return Accept(Blowout{p})
}

// TouchTip touches the tip to the sides of a well. Requires a tip.
func (c *Creators) TouchTip(p TouchTipParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if err := c.validateAccess(accessRequest{
		pipette: p.Pipette, labware: p.Labware, needsTip: true, checkCollisions: true,
	}, ctx, prev); err != nil {
		return Reject(*err)
	}
	return Accept(TouchTip{p})
}

// MoveToWell moves the pipette over a well. A tip is not required.
func (c *Creators) MoveToWell(p MoveToWellParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if err := c.validateAccess(accessRequest{
		pipette: p.Pipette, labware: p.Labware, checkCollisions: true,
	}, ctx, prev); err != nil {
		return Reject(*err)
	}
	return Accept(MoveToWell{p})
}

// MoveToSlot moves the pipette over a deck slot.
func (c *Creators) MoveToSlot(p MoveToSlotParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if _, ok := ctx.PipetteEntities[p.Pipette]; !ok {
		return Reject(newError(PipetteDoesNotExist, "attempted to use pipette %q which does not exist", p.Pipette))
	}
	if !IsDeckSlot(p.Slot) {
		return Reject(newError(InvalidSlot, "%q is not a deck slot", p.Slot))
	}
	return Accept(MoveToSlot{p})
}

// PickUpTip attaches tips from a tip rack. Every well reached by the
// pipette's channels must still hold a tip.
func (c *Creators) PickUpTip(p TipParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if err := c.validateAccess(accessRequest{pipette: p.Pipette, labware: p.Labware}, ctx, prev); err != nil {
		return Reject(*err)
	}
	pip := ctx.PipetteEntities[p.Pipette]
	wells, ok := WellsForTips(pip.Spec.Channels, ctx.labwareDef(p.Labware), p.Well)
	if !ok {
		return Reject(newError(InsufficientTips, "pipette %q cannot reach tips from %s of %q", p.Pipette, p.Well, p.Labware))
	}
	for _, w := range wells {
		if !prev.TipState.Tipracks[p.Labware][w] {
			return Reject(newError(InsufficientTips, "no tip in %s of %q", w, p.Labware))
		}
	}
	return Accept(PickUpTip{p})
}

// DropTip discards the attached tip. Without a tip attached it emits nothing.
func (c *Creators) DropTip(p TipParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if err := c.validateAccess(accessRequest{pipette: p.Pipette, labware: p.Labware}, ctx, prev); err != nil {
		return Reject(*err)
	}
	if !prev.HasTip(p.Pipette) {
		return Accept()
	}
	return Accept(DropTip{p})
}

// Delay pauses the protocol.
func (c *Creators) Delay(p DelayParams, _ *InvariantContext, _ *RobotState) CommandCreatorResult {
	return Accept(Delay{p})
}

// UpdateRobotState records a bookkeeping marker.
func (c *Creators) UpdateRobotState(p UpdateRobotStateParams, _ *InvariantContext, _ *RobotState) CommandCreatorResult {
	return Accept(UpdateRobotState{p})
}
