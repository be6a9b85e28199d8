package sim

func floatPtr(v float64) *float64 { return &v }

// lastKnownTemperature estimates where a heater currently is: its target
// once one has been set and not cleared, room temperature otherwise.
func lastKnownTemperature(status TemperatureStatus, target *float64) float64 {
	switch status {
	case TemperatureHeating, TemperatureCooling, TemperatureAtTarget:
		if target != nil {
			return *target
		}
	}
	return RoomTemperature
}

// approach returns the status a heater enters when given a new target.
func approach(status TemperatureStatus, target *float64, next float64) TemperatureStatus {
	from := lastKnownTemperature(status, target)
	switch {
	case next > from:
		return TemperatureHeating
	case next < from:
		return TemperatureCooling
	}
	return TemperatureAtTarget
}

// await returns the status after waiting for want, warning when the heater
// is not heading to want.
func await(what string, status TemperatureStatus, target *float64, want float64, d *Draft) TemperatureStatus {
	if target == nil || *target != want {
		d.Warn(AwaitTemperatureMismatch, "waiting for %s to reach %g °C but it is not set to that temperature", what, want)
		return status
	}
	return TemperatureAtTarget
}

func magnetState(d *Draft, id string) (MagneticModuleState, bool) {
	s, ok := d.State().Modules[id].State.(MagneticModuleState)
	return s, ok
}

func temperatureState(d *Draft, id string) (TemperatureModuleState, bool) {
	s, ok := d.State().Modules[id].State.(TemperatureModuleState)
	return s, ok
}

func thermocyclerState(d *Draft, id string) (ThermocyclerModuleState, bool) {
	s, ok := d.State().Modules[id].State.(ThermocyclerModuleState)
	return s, ok
}

func forEngageMagnet(p EngageMagnetParams, d *Draft) {
	s, ok := magnetState(d, p.Module)
	if !ok {
		return
	}
	s.Engaged = true
	s.EngageHeight = floatPtr(p.EngageHeight)
	d.SetModuleState(p.Module, s)
}

func forDisengageMagnet(p ModuleParams, d *Draft) {
	s, ok := magnetState(d, p.Module)
	if !ok {
		return
	}
	s.Engaged = false
	s.EngageHeight = nil
	d.SetModuleState(p.Module, s)
}

func forSetTemperature(p TemperatureParams, d *Draft) {
	s, ok := temperatureState(d, p.Module)
	if !ok {
		return
	}
	s.Status = approach(s.Status, s.TargetTemperature, p.Temperature)
	s.TargetTemperature = floatPtr(p.Temperature)
	d.SetModuleState(p.Module, s)
}

func forDeactivateTemperature(p ModuleParams, d *Draft) {
	s, ok := temperatureState(d, p.Module)
	if !ok {
		return
	}
	s.Status = TemperatureDeactivated
	s.TargetTemperature = nil
	d.SetModuleState(p.Module, s)
}

func forAwaitTemperature(p TemperatureParams, d *Draft) {
	s, ok := temperatureState(d, p.Module)
	if !ok {
		return
	}
	status := await("module "+p.Module, s.Status, s.TargetTemperature, p.Temperature, d)
	if status == s.Status {
		return
	}
	s.Status = status
	d.SetModuleState(p.Module, s)
}

func forThermocyclerSetTargetBlockTemperature(p BlockTemperatureParams, d *Draft) {
	s, ok := thermocyclerState(d, p.Module)
	if !ok {
		return
	}
	s.BlockStatus = approach(s.BlockStatus, s.BlockTargetTemp, p.Temperature)
	s.BlockTargetTemp = floatPtr(p.Temperature)
	d.SetModuleState(p.Module, s)
}

func forThermocyclerSetTargetLidTemperature(p TemperatureParams, d *Draft) {
	s, ok := thermocyclerState(d, p.Module)
	if !ok {
		return
	}
	s.LidStatus = approach(s.LidStatus, s.LidTargetTemp, p.Temperature)
	s.LidTargetTemp = floatPtr(p.Temperature)
	d.SetModuleState(p.Module, s)
}

func forThermocyclerAwaitBlockTemperature(p TemperatureParams, d *Draft) {
	s, ok := thermocyclerState(d, p.Module)
	if !ok {
		return
	}
	status := await("block of "+p.Module, s.BlockStatus, s.BlockTargetTemp, p.Temperature, d)
	if status == s.BlockStatus {
		return
	}
	s.BlockStatus = status
	d.SetModuleState(p.Module, s)
}

func forThermocyclerAwaitLidTemperature(p TemperatureParams, d *Draft) {
	s, ok := thermocyclerState(d, p.Module)
	if !ok {
		return
	}
	status := await("lid of "+p.Module, s.LidStatus, s.LidTargetTemp, p.Temperature, d)
	if status == s.LidStatus {
		return
	}
	s.LidStatus = status
	d.SetModuleState(p.Module, s)
}

func forThermocyclerDeactivateBlock(p ModuleParams, d *Draft) {
	s, ok := thermocyclerState(d, p.Module)
	if !ok {
		return
	}
	s.BlockStatus = TemperatureDeactivated
	s.BlockTargetTemp = nil
	d.SetModuleState(p.Module, s)
}

func forThermocyclerDeactivateLid(p ModuleParams, d *Draft) {
	s, ok := thermocyclerState(d, p.Module)
	if !ok {
		return
	}
	s.LidStatus = TemperatureDeactivated
	s.LidTargetTemp = nil
	d.SetModuleState(p.Module, s)
}

func forThermocyclerSetLid(p ModuleParams, lid LidPosition, d *Draft) {
	s, ok := thermocyclerState(d, p.Module)
	if !ok {
		return
	}
	s.Lid = lid
	d.SetModuleState(p.Module, s)
}

// forThermocyclerRunProfile leaves the block heading to the last profile
// step and the lid heading to the profile's lid target.
func forThermocyclerRunProfile(p RunProfileParams, d *Draft) {
	s, ok := thermocyclerState(d, p.Module)
	if !ok || len(p.Profile) == 0 {
		return
	}
	final := p.Profile[len(p.Profile)-1].Temperature
	s.BlockStatus = approach(s.BlockStatus, s.BlockTargetTemp, final)
	s.BlockTargetTemp = floatPtr(final)
	s.LidStatus = approach(s.LidStatus, s.LidTargetTemp, p.LidTargetTemp)
	s.LidTargetTemp = floatPtr(p.LidTargetTemp)
	d.SetModuleState(p.Module, s)
}

func forThermocyclerAwaitProfileComplete(p ModuleParams, d *Draft) {
	s, ok := thermocyclerState(d, p.Module)
	if !ok {
		return
	}
	if s.BlockTargetTemp != nil {
		s.BlockStatus = TemperatureAtTarget
	}
	if s.LidTargetTemp != nil {
		s.LidStatus = TemperatureAtTarget
	}
	d.SetModuleState(p.Module, s)
}
