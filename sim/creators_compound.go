package sim

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
)

// ReduceCommandCreators chains creators into one: each runs against the
// state left by the commands of the ones before it. The first rejection
// rejects the whole chain. Reducer warnings are not collected here; they are
// raised again when the timeline applies the combined commands.
func ReduceCommandCreators(creators []CurriedCommandCreator, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	out := Accept()
	state := prev
	for _, creator := range creators {
		res := creator(ctx, state)
		if !res.OK() {
			return Reject(res.Errors...)
		}
		out.Commands = append(out.Commands, res.Commands...)
		out.Warnings = append(out.Warnings, res.Warnings...)
		next, _, err := applyCommands(res.Commands, ctx, state)
		if err != nil {
			// creators only emit commands of the closed set
			panic(fmt.Sprintf("sim: creator emitted an unappliable command: %v", err))
		}
		state = next
	}
	return out
}

// ReplaceTipParams parameterize ReplaceTip.
type ReplaceTipParams struct {
	Pipette string `json:"pipette" yaml:"pipette"`
}

// ReplaceTip drops the attached tip, if any, into the trash and picks up a
// fresh one from the first matching tip rack by deck slot.
func (c *Creators) ReplaceTip(p ReplaceTipParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	pip, ok := ctx.PipetteEntities[p.Pipette]
	if !ok {
		return Reject(newError(PipetteDoesNotExist, "attempted to use pipette %q which does not exist", p.Pipette))
	}
	tiprack, well, ok := nextTip(pip, ctx, prev)
	if !ok {
		return Reject(newError(InsufficientTips, "no tip rack holds tips for pipette %q", p.Pipette))
	}
	var steps []CurriedCommandCreator
	if prev.HasTip(p.Pipette) {
		trash := ctx.Trash()
		if _, ok := ctx.LabwareEntities[trash]; !ok {
			return Reject(newError(MissingTrash, "trash %q does not exist", trash))
		}
		trashWell := "A1"
		if wells := ctx.labwareDef(trash).AllWells(); len(wells) > 0 {
			trashWell = wells[0]
		}
		steps = append(steps, Curry(c.DropTip, TipParams{Pipette: p.Pipette, Labware: trash, Well: trashWell}))
	}
	steps = append(steps, Curry(c.PickUpTip, TipParams{Pipette: p.Pipette, Labware: tiprack, Well: well}))
	return ReduceCommandCreators(steps, ctx, prev)
}

// nextTip finds the first tip rack, ordered by deck slot, holding tips for
// every channel of pip, and the well to pick up from.
func nextTip(pip PipetteEntity, ctx *InvariantContext, s *RobotState) (string, string, bool) {
	type rack struct {
		id   string
		slot int
	}
	var racks []rack
	for id := range s.TipState.Tipracks {
		lw, ok := ctx.LabwareEntities[id]
		if !ok || lw.DefURI != pip.TiprackDefURI {
			continue
		}
		slot, err := strconv.Atoi(s.DeckSlotOf(id))
		if err != nil {
			slot = deckSlots + 1
		}
		racks = append(racks, rack{id, slot})
	}
	slices.SortFunc(racks, func(a, b rack) int {
		if c := cmp.Compare(a.slot, b.slot); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	for _, r := range racks {
		tips := s.TipState.Tipracks[r.id]
		def := ctx.labwareDef(r.id)
		for _, w := range def.AllWells() {
			wells, ok := WellsForTips(pip.Spec.Channels, def, w)
			if !ok {
				continue
			}
			if !slices.ContainsFunc(wells, func(x string) bool { return !tips[x] }) {
				return r.id, w, true
			}
		}
	}
	return "", "", false
}

// MixParams parameterize Mix.
type MixParams struct {
	Pipette            string  `json:"pipette" yaml:"pipette"`
	Labware            string  `json:"labware" yaml:"labware"`
	Well               string  `json:"well" yaml:"well"`
	Volume             float64 `json:"volume" yaml:"volume"`
	Times              int     `json:"times" yaml:"times"`
	BlowoutAfter       bool    `json:"blowoutAfter" yaml:"blowoutAfter"`
	FlowRate           float64 `json:"flowRate" yaml:"flowRate"`
	OffsetFromBottomMm float64 `json:"offsetFromBottomMm" yaml:"offsetFromBottomMm"`
}

// Mix aspirates and dispenses Volume in the same well Times times, then
// optionally blows out there.
func (c *Creators) Mix(p MixParams, ctx *InvariantContext, prev *RobotState) CommandCreatorResult {
	pp := PipettingParams{
		Pipette:            p.Pipette,
		Volume:             p.Volume,
		Labware:            p.Labware,
		Well:               p.Well,
		FlowRate:           p.FlowRate,
		OffsetFromBottomMm: p.OffsetFromBottomMm,
	}
	steps := make([]CurriedCommandCreator, 0, 2*max(p.Times, 0)+1)
	for range p.Times {
		steps = append(steps, Curry(c.Aspirate, pp), Curry(c.Dispense, pp))
	}
	if p.BlowoutAfter {
		steps = append(steps, Curry(c.Blowout, BlowoutParams{
			Pipette:            p.Pipette,
			Labware:            p.Labware,
			Well:               p.Well,
			FlowRate:           p.FlowRate,
			OffsetFromBottomMm: p.OffsetFromBottomMm,
		}))
	}
	return ReduceCommandCreators(steps, ctx, prev)
}

// CreatorFor returns the atomic creator of cmd with its params bound, so a
// raw command list can be validated.
func (c *Creators) CreatorFor(cmd Command) (CurriedCommandCreator, error) {
	switch x := cmd.(type) {
	case Aspirate:
		return Curry(c.Aspirate, x.P), nil
	case Dispense:
		return Curry(c.Dispense, x.P), nil
	case AirGap:
		return Curry(c.AirGap, x.P), nil
	case DispenseAirGap:
		return Curry(c.DispenseAirGap, x.P), nil
	case Blowout:
		return Curry(c.Blowout, x.P), nil
	case TouchTip:
		return Curry(c.TouchTip, x.P), nil
	case PickUpTip:
		return Curry(c.PickUpTip, x.P), nil
	case DropTip:
		return Curry(c.DropTip, x.P), nil
	case Delay:
		return Curry(c.Delay, x.P), nil
	case MoveToSlot:
		return Curry(c.MoveToSlot, x.P), nil
	case MoveToWell:
		return Curry(c.MoveToWell, x.P), nil
	case UpdateRobotState:
		return Curry(c.UpdateRobotState, x.P), nil
	case EngageMagnet:
		return Curry(c.EngageMagnet, x.P), nil
	case DisengageMagnet:
		return Curry(c.DisengageMagnet, x.P), nil
	case SetTargetTemperature:
		return Curry(c.SetTargetTemperature, x.P), nil
	case DeactivateTemperature:
		return Curry(c.DeactivateTemperature, x.P), nil
	case AwaitTemperature:
		return Curry(c.AwaitTemperature, x.P), nil
	case SetTargetBlockTemperature:
		return Curry(c.SetTargetBlockTemperature, x.P), nil
	case SetTargetLidTemperature:
		return Curry(c.SetTargetLidTemperature, x.P), nil
	case AwaitBlockTemperature:
		return Curry(c.AwaitBlockTemperature, x.P), nil
	case AwaitLidTemperature:
		return Curry(c.AwaitLidTemperature, x.P), nil
	case DeactivateBlock:
		return Curry(c.DeactivateBlock, x.P), nil
	case DeactivateLid:
		return Curry(c.DeactivateLid, x.P), nil
	case CloseLid:
		return Curry(c.CloseLid, x.P), nil
	case OpenLid:
		return Curry(c.OpenLid, x.P), nil
	case RunProfile:
		return Curry(c.RunProfile, x.P), nil
	case AwaitProfileComplete:
		return Curry(c.AwaitProfileComplete, x.P), nil
	}
	return nil, fmt.Errorf("%w: %T has no creator", ErrUnknownCommand, cmd)
}
