package sim

// volumeEpsilon absorbs float noise when comparing volumes in µL.
const volumeEpsilon = 1e-6

// splitLiquid takes volume out of source proportionally across its liquids.
// When volume covers everything in source, all of it is taken.
func splitLiquid(volume float64, source Contents) (taken, rest Contents) {
	total := source.Total()
	taken, rest = Contents{}, Contents{}
	if total <= 0 || volume <= 0 {
		for k, v := range source {
			rest[k] = v
		}
		return taken, rest
	}
	if volume >= total-volumeEpsilon {
		for k, v := range source {
			taken[k] = v
		}
		return taken, rest
	}
	for k, v := range source {
		part := v * volume / total
		taken[k] = part
		if v-part > 0 {
			rest[k] = v - part
		}
	}
	return taken, rest
}

// mergeLiquid returns a new Contents holding both a and b.
func mergeLiquid(a, b Contents) Contents {
	out := make(Contents, len(a)+len(b))
	for k, v := range a {
		out[k] += v
	}
	for k, v := range b {
		out[k] += v
	}
	return out
}

// resolveWells returns the wells reached by each channel, or warns and
// returns false when the target cannot be resolved.
func resolveWells(pipetteID, labwareID, well string, ctx *InvariantContext, d *Draft) ([]string, bool) {
	pip, ok := ctx.PipetteEntities[pipetteID]
	if !ok {
		return nil, false
	}
	wells, ok := WellsForTips(pip.Spec.Channels, ctx.labwareDef(labwareID), well)
	if !ok {
		d.Warn(MultichannelTargetUnresolved, "could not resolve the wells reached by %q at %s of %q", pipetteID, well, labwareID)
		return nil, false
	}
	return wells, true
}

func forAspirate(p PipettingParams, ctx *InvariantContext, d *Draft) {
	if p.Volume <= 0 {
		return
	}
	wells, ok := resolveWells(p.Pipette, p.Labware, p.Well, ctx, d)
	if !ok {
		return
	}
	state := d.State()
	// channels sharing a well (a trough) draw from it in turn
	demand := make(map[string]int, len(wells))
	for _, well := range wells {
		demand[well]++
	}
	warnedPristine, warnedShort := false, false
	for _, well := range wells {
		if demand[well] == 0 {
			continue
		}
		total := state.WellContents(p.Labware, well).Total()
		want := p.Volume * float64(demand[well])
		demand[well] = 0
		switch {
		case total <= 0 && !warnedPristine:
			d.Warn(AspirateFromPristineWell, "aspirating from %s of %q, which holds no liquid", well, p.Labware)
			warnedPristine = true
		case total > 0 && want > total+volumeEpsilon && !warnedShort:
			d.Warn(AspirateMoreThanWellContents, "aspirating %g µL from %s of %q, which holds %g µL", want, well, p.Labware, total)
			warnedShort = true
		}
	}
	for ch, well := range wells {
		src := state.WellContents(p.Labware, well)
		if src.Total() <= 0 {
			continue
		}
		taken, rest := splitLiquid(p.Volume, src)
		d.SetWellContents(p.Labware, well, rest)
		d.SetTipContents(p.Pipette, ch, mergeLiquid(state.TipContents(p.Pipette, ch), taken))
	}
}

func forDispense(p PipettingParams, ctx *InvariantContext, d *Draft) {
	if p.Volume <= 0 {
		return
	}
	wells, ok := resolveWells(p.Pipette, p.Labware, p.Well, ctx, d)
	if !ok {
		return
	}
	def := ctx.labwareDef(p.Labware)
	state := d.State()
	warnedShort, warnedOverflow := false, false
	for ch, well := range wells {
		tip := state.TipContents(p.Pipette, ch)
		if p.Volume > tip.Total()+volumeEpsilon && !warnedShort {
			d.Warn(DispenseMoreThanTipContents, "dispensing %g µL but the tip holds %g µL", p.Volume, tip.Total())
			warnedShort = true
		}
		if len(tip) == 0 {
			continue
		}
		out, rest := splitLiquid(p.Volume, tip)
		d.SetTipContents(p.Pipette, ch, rest)
		merged := mergeLiquid(state.WellContents(p.Labware, well), out)
		d.SetWellContents(p.Labware, well, merged)
		if def != nil && !warnedOverflow {
			if capacity := def.Wells[well].TotalLiquidVolume; capacity > 0 && merged.Total() > capacity+volumeEpsilon {
				d.Warn(WellOverflow, "%s of %q now holds %g µL, above its %g µL capacity", well, p.Labware, merged.Total(), capacity)
				warnedOverflow = true
			}
		}
	}
}

func forPickUpTip(p TipParams, ctx *InvariantContext, d *Draft) {
	pip, ok := ctx.PipetteEntities[p.Pipette]
	if !ok {
		return
	}
	wells, ok := WellsForTips(pip.Spec.Channels, ctx.labwareDef(p.Labware), p.Well)
	if !ok {
		d.Warn(MultichannelTargetUnresolved, "could not resolve the tips reached by %q at %s of %q", p.Pipette, p.Well, p.Labware)
		return
	}
	for _, w := range wells {
		d.SetTiprackWell(p.Labware, w, false)
	}
	d.SetPipetteTip(p.Pipette, true)
	d.ClearTipContents(p.Pipette)
}

func forDropTip(p TipParams, d *Draft) {
	d.SetPipetteTip(p.Pipette, false)
	d.ClearTipContents(p.Pipette)
}
