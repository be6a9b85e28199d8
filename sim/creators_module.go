package sim

// tempRange is an inclusive operating range in °C.
type tempRange struct{ min, max float64 }

var (
	temperatureModuleRange = tempRange{4, 95}
	blockRange             = tempRange{4, 99}
	lidRange               = tempRange{37, 110}
)

// maxEngageHeight is the highest magnet position per model, in mm.
var maxEngageHeight = map[ModuleModel]float64{
	MagneticModuleV1: 45,
	MagneticModuleV2: 25,
}

func (r tempRange) check(what string, celsius float64) *CommandCreatorError {
	if celsius < r.min || celsius > r.max {
		err := newError(TemperatureOutOfRange, "%s temperature %g °C is outside %g–%g °C", what, celsius, r.min, r.max)
		return &err
	}
	return nil
}

// moduleOfType looks a module up in both the context and the state and
// checks it has the expected type.
func moduleOfType(id string, want ModuleType, ctx *InvariantContext, prev *RobotState) (ModuleState, *CommandCreatorError) {
	ent, ok := ctx.ModuleEntities[id]
	mod, inState := prev.Modules[id]
	if !ok || !inState || mod.State == nil {
		err := newError(MissingModule, "module %q does not exist", id)
		return nil, &err
	}
	if ent.Type != want || mod.State.ModuleType() != want {
		err := newError(ModuleTypeMismatch, "module %q is a %s, expected %s", id, ent.Type, want)
		return nil, &err
	}
	return mod.State, nil
}

func rejectOr(err *CommandCreatorError, c Command) CommandCreatorResult {
	if err != nil {
		return Reject(*err)
	}
	return Accept(c)
}

// EngageMagnet raises the magnets to EngageHeight.
func (c *Creators) EngageMagnet(p EngageMagnetParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if _, err := moduleOfType(p.Module, MagneticModuleType, ctx, prev); err != nil {
		return Reject(*err)
	}
	limit := maxEngageHeight[ctx.ModuleEntities[p.Module].Model]
	if p.EngageHeight < 0 || (limit > 0 && p.EngageHeight > limit) {
		return Reject(newError(EngageHeightOutOfRange, "engage height %g mm is outside 0–%g mm", p.EngageHeight, limit))
	}
	return Accept(EngageMagnet{p})
}

// DisengageMagnet lowers the magnets.
func (c *Creators) DisengageMagnet(p ModuleParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	_, err := moduleOfType(p.Module, MagneticModuleType, ctx, prev)
	return rejectOr(err, DisengageMagnet{p})
}

// SetTargetTemperature starts a temperature module toward a target.
func (c *Creators) SetTargetTemperature(p TemperatureParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if _, err := moduleOfType(p.Module, TemperatureModuleType, ctx, prev); err != nil {
		return Reject(*err)
	}
	return rejectOr(temperatureModuleRange.check("module", p.Temperature), SetTargetTemperature{p})
}

// DeactivateTemperature turns a temperature module off.
func (c *Creators) DeactivateTemperature(p ModuleParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	_, err := moduleOfType(p.Module, TemperatureModuleType, ctx, prev)
	return rejectOr(err, DeactivateTemperature{p})
}

// AwaitTemperature waits for a temperature module. A target must be set.
func (c *Creators) AwaitTemperature(p TemperatureParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	state, err := moduleOfType(p.Module, TemperatureModuleType, ctx, prev)
	if err != nil {
		return Reject(*err)
	}
	if state.(TemperatureModuleState).TargetTemperature == nil {
		return Reject(newError(MissingTemperatureStep, "module %q has no target temperature to wait for", p.Module))
	}
	return Accept(AwaitTemperature{p})
}

// SetTargetBlockTemperature starts the thermocycler block toward a target.
func (c *Creators) SetTargetBlockTemperature(p BlockTemperatureParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if _, err := moduleOfType(p.Module, ThermocyclerModuleType, ctx, prev); err != nil {
		return Reject(*err)
	}
	return rejectOr(blockRange.check("block", p.Temperature), SetTargetBlockTemperature{p})
}

// SetTargetLidTemperature starts the thermocycler lid heater toward a target.
func (c *Creators) SetTargetLidTemperature(p TemperatureParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if _, err := moduleOfType(p.Module, ThermocyclerModuleType, ctx, prev); err != nil {
		return Reject(*err)
	}
	return rejectOr(lidRange.check("lid", p.Temperature), SetTargetLidTemperature{p})
}

// AwaitBlockTemperature waits for the block. A block target must be set.
func (c *Creators) AwaitBlockTemperature(p TemperatureParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	state, err := moduleOfType(p.Module, ThermocyclerModuleType, ctx, prev)
	if err != nil {
		return Reject(*err)
	}
	if state.(ThermocyclerModuleState).BlockTargetTemp == nil {
		return Reject(newError(MissingTemperatureStep, "thermocycler %q has no block target to wait for", p.Module))
	}
	return Accept(AwaitBlockTemperature{p})
}

// AwaitLidTemperature waits for the lid. A lid target must be set.
func (c *Creators) AwaitLidTemperature(p TemperatureParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	state, err := moduleOfType(p.Module, ThermocyclerModuleType, ctx, prev)
	if err != nil {
		return Reject(*err)
	}
	if state.(ThermocyclerModuleState).LidTargetTemp == nil {
		return Reject(newError(MissingTemperatureStep, "thermocycler %q has no lid target to wait for", p.Module))
	}
	return Accept(AwaitLidTemperature{p})
}

// DeactivateBlock turns the block off.
func (c *Creators) DeactivateBlock(p ModuleParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	_, err := moduleOfType(p.Module, ThermocyclerModuleType, ctx, prev)
	return rejectOr(err, DeactivateBlock{p})
}

// DeactivateLid turns the lid heater off.
func (c *Creators) DeactivateLid(p ModuleParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	_, err := moduleOfType(p.Module, ThermocyclerModuleType, ctx, prev)
	return rejectOr(err, DeactivateLid{p})
}

// CloseLid closes the thermocycler lid.
func (c *Creators) CloseLid(p ModuleParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	_, err := moduleOfType(p.Module, ThermocyclerModuleType, ctx, prev)
	return rejectOr(err, CloseLid{p})
}

// OpenLid opens the thermocycler lid.
func (c *Creators) OpenLid(p ModuleParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	_, err := moduleOfType(p.Module, ThermocyclerModuleType, ctx, prev)
	return rejectOr(err, OpenLid{p})
}

// RunProfile runs a thermocycler profile. Every step and the lid target must
// be within range.
func (c *Creators) RunProfile(p RunProfileParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	if _, err := moduleOfType(p.Module, ThermocyclerModuleType, ctx, prev); err != nil {
		return Reject(*err)
	}
	if len(p.Profile) == 0 {
		return Reject(newError(ThermocyclerProfileEmpty, "profile for thermocycler %q has no steps", p.Module))
	}
	for _, step := range p.Profile {
		if err := blockRange.check("profile step", step.Temperature); err != nil {
			return Reject(*err)
		}
	}
	return rejectOr(lidRange.check("lid", p.LidTargetTemp), RunProfile{p})
}

// AwaitProfileComplete waits for a running profile to finish.
func (c *Creators) AwaitProfileComplete(p ModuleParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	_, err := moduleOfType(p.Module, ThermocyclerModuleType, ctx, prev)
	return rejectOr(err, AwaitProfileComplete{p})
}
