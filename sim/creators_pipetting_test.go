package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func airGapParams(pipette, labware string, volume float64) PipettingParams {
	return PipettingParams{
		Pipette:            pipette,
		Volume:             volume,
		Labware:            labware,
		Well:               "A1",
		FlowRate:           6,
		OffsetFromBottomMm: 5,
	}
}

func requireErrorKind(t *testing.T, res CommandCreatorResult, want ErrorKind) {
	t.Helper()
	require.False(t, res.OK(), "expected rejection with %s", want)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, want, res.Errors[0].Kind)
	assert.Empty(t, res.Commands)
}

func TestAirGap_ValidRequest_EmitsAirGapCommand(t *testing.T) {
	// GIVEN the default pipette holding a tip
	ctx := makeContext()
	prev := robotStateWithTipStandard(t, ctx)
	params := airGapParams(defaultPipette, sourceLabware, 50)

	// WHEN an air gap is requested
	res := NewCreators(nil).AirGap(params, ctx, prev)

	// THEN exactly one airGap command carries the params unchanged
	require.True(t, res.OK())
	assert.Equal(t, []Command{AirGap{params}}, res.Commands)
}

func TestAirGap_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		pipette string
		labware string
		volume  float64
		noTip   bool
		tiprack *LabwareDefinition
		want    ErrorKind
	}{
		{name: "unknown pipette", pipette: "badPipette", labware: sourceLabware, volume: 50, want: PipetteDoesNotExist},
		{name: "unknown labware", pipette: defaultPipette, labware: "problematicLabwareId", volume: 50, want: LabwareDoesNotExist},
		{name: "no tip", pipette: defaultPipette, labware: sourceLabware, volume: 50, noTip: true, want: NoTipOnPipette},
		{name: "above tip max", pipette: defaultPipette, labware: sourceLabware, volume: 201, tiprack: tiprackDef(10), want: TipVolumeExceeded},
		{name: "above pipette max", pipette: defaultPipette, labware: sourceLabware, volume: 301, tiprack: tiprackDef(1000), want: PipetteVolumeExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := makeContext()
			prev := robotStateWithTipStandard(t, ctx)
			if tt.noTip {
				prev = initialRobotStateStandard(t, ctx)
			}
			if tt.tiprack != nil {
				setTiprack(ctx, defaultPipette, tt.tiprack)
			}

			res := NewCreators(nil).AirGap(airGapParams(tt.pipette, tt.labware, tt.volume), ctx, prev)

			requireErrorKind(t, res, tt.want)
		})
	}
}

func TestAirGap_ThermocyclerCollision_RejectsWithLidClosed(t *testing.T) {
	// GIVEN a thermocycler predicate that reports a collision and checks its inputs
	ctx := makeContext()
	prev := robotStateWithTipStandard(t, ctx)
	called := false
	detector := CollisionFuncs{
		Thermocycler: func(modules map[string]ModuleTemporalProperties, labware map[string]LabwareTemporalProperties, labwareID string) bool {
			called = true
			assert.True(t, sameMap(prev.Modules, modules), "modules must be the previous state's map")
			assert.True(t, sameMap(prev.Labware, labware), "labware must be the previous state's map")
			assert.Equal(t, sourceLabware, labwareID)
			return true
		},
	}

	// WHEN an air gap is requested
	res := NewCreators(detector).AirGap(airGapParams(defaultPipette, sourceLabware, 50), ctx, prev)

	// THEN it is rejected for the closed lid
	assert.True(t, called)
	requireErrorKind(t, res, ThermocyclerLidClosed)
}

func TestAirGap_ModuleCollision_RejectsWithCollisionDanger(t *testing.T) {
	// GIVEN a module predicate that reports a collision and checks its inputs
	ctx := makeContext()
	prev := robotStateWithTipStandard(t, ctx)
	detector := CollisionFuncs{
		Module: func(args ModulePipetteCollisionArgs) bool {
			assert.Equal(t, defaultPipette, args.Pipette)
			assert.Equal(t, sourceLabware, args.Labware)
			assert.Same(t, ctx, args.Context)
			assert.Same(t, prev, args.PrevState)
			return true
		},
	}

	// WHEN an air gap is requested
	res := NewCreators(detector).AirGap(airGapParams(defaultPipette, sourceLabware, 50), ctx, prev)

	// THEN it is rejected for the collision danger
	requireErrorKind(t, res, ModulePipetteCollisionDanger)
}

func TestAirGap_ChecksRunInOrder(t *testing.T) {
	// GIVEN a request failing several checks at once: no tip, volume above
	// the tip max and a collision
	ctx := makeContext()
	setTiprack(ctx, defaultPipette, tiprackDef(10))
	prev := initialRobotStateStandard(t, ctx)
	always := CollisionFuncs{
		Thermocycler: func(map[string]ModuleTemporalProperties, map[string]LabwareTemporalProperties, string) bool { return true },
		Module:       func(ModulePipetteCollisionArgs) bool { return true },
	}

	// WHEN an air gap is requested
	res := NewCreators(always).AirGap(airGapParams(defaultPipette, sourceLabware, 201), ctx, prev)

	// THEN only the first failing check is reported
	requireErrorKind(t, res, NoTipOnPipette)
}

func TestAirGap_DoesNotModifyPreviousState(t *testing.T) {
	ctx := makeContext()
	prev := robotStateWithTipStandard(t, ctx)
	before := prev.TipState.Pipettes[defaultPipette]

	NewCreators(nil).AirGap(airGapParams(defaultPipette, sourceLabware, 50), ctx, prev)

	assert.Equal(t, before, prev.TipState.Pipettes[defaultPipette])
}

func TestAspirate_SameValidationAsAirGap(t *testing.T) {
	ctx := makeContext()
	withTip := robotStateWithTipStandard(t, ctx)
	c := NewCreators(nil)

	res := c.Aspirate(airGapParams(defaultPipette, sourceLabware, 50), ctx, withTip)
	require.True(t, res.OK())
	assert.Equal(t, KindAspirate, res.Commands[0].Kind())

	requireErrorKind(t, c.Aspirate(airGapParams(defaultPipette, sourceLabware, 301), ctx, withTip), TipVolumeExceeded)
	requireErrorKind(t, c.Aspirate(airGapParams(defaultPipette, sourceLabware, 50), ctx, initialRobotStateStandard(t, ctx)), NoTipOnPipette)
}

func TestDispenseLikeCreators_SkipVolumeChecks(t *testing.T) {
	// GIVEN a volume far above any tip
	ctx := makeContext()
	prev := robotStateWithTipStandard(t, ctx)
	c := NewCreators(nil)
	p := airGapParams(defaultPipette, sourceLabware, 5000)

	// THEN dispense and dispenseAirGap still accept; volume is not their concern
	assert.True(t, c.Dispense(p, ctx, prev).OK())
	assert.True(t, c.DispenseAirGap(p, ctx, prev).OK())
}

func TestTipRequiringCreators_RejectWithoutTip(t *testing.T) {
	ctx := makeContext()
	prev := initialRobotStateStandard(t, ctx)
	c := NewCreators(nil)
	p := airGapParams(defaultPipette, sourceLabware, 10)

	tests := map[string]CommandCreatorResult{
		"dispense":       c.Dispense(p, ctx, prev),
		"dispenseAirGap": c.DispenseAirGap(p, ctx, prev),
		"blowout":        c.Blowout(BlowoutParams{Pipette: defaultPipette, Labware: sourceLabware, Well: "A1"}, ctx, prev),
		"touchTip":       c.TouchTip(TouchTipParams{Pipette: defaultPipette, Labware: sourceLabware, Well: "A1"}, ctx, prev),
	}
	for name, res := range tests {
		t.Run(name, func(t *testing.T) {
			requireErrorKind(t, res, NoTipOnPipette)
		})
	}
}

func TestMoveToWell_NoTipNeeded_ButCollisionsChecked(t *testing.T) {
	ctx, prev := moduleFixture(t)
	c := NewCreators(nil)

	res := c.MoveToWell(MoveToWellParams{Pipette: defaultPipette, Labware: sourceLabware, Well: "A1"}, ctx, prev)
	assert.True(t, res.OK())

	// the thermocycler lid starts in an unknown position
	res = c.MoveToWell(MoveToWellParams{Pipette: defaultPipette, Labware: "tcPlateId", Well: "A1"}, ctx, prev)
	requireErrorKind(t, res, ThermocyclerLidClosed)
}

func TestMoveToSlot_RejectsUnknownSlot(t *testing.T) {
	ctx := makeContext()
	prev := initialRobotStateStandard(t, ctx)
	c := NewCreators(nil)

	assert.True(t, c.MoveToSlot(MoveToSlotParams{Pipette: defaultPipette, Slot: "5"}, ctx, prev).OK())
	requireErrorKind(t, c.MoveToSlot(MoveToSlotParams{Pipette: defaultPipette, Slot: "13"}, ctx, prev), InvalidSlot)
	requireErrorKind(t, c.MoveToSlot(MoveToSlotParams{Pipette: "nope", Slot: "13"}, ctx, prev), PipetteDoesNotExist)
}

func TestPickUpTip_RequiresTipsInEveryReachedWell(t *testing.T) {
	ctx := makeContext()
	c := NewCreators(nil)
	prev := robotStateWithTipStandard(t, ctx) // A1 is now empty

	requireErrorKind(t, c.PickUpTip(TipParams{Pipette: defaultPipette, Labware: tiprackLabware, Well: "A1"}, ctx, prev), InsufficientTips)
	assert.True(t, c.PickUpTip(TipParams{Pipette: defaultPipette, Labware: tiprackLabware, Well: "B1"}, ctx, prev).OK())

	// the 8-channel pipette at A1 would need the whole first column
	requireErrorKind(t, c.PickUpTip(TipParams{Pipette: multiPipette, Labware: tiprackLabware, Well: "A1"}, ctx, prev), InsufficientTips)
	assert.True(t, c.PickUpTip(TipParams{Pipette: multiPipette, Labware: tiprackLabware, Well: "A2"}, ctx, prev).OK())
}

func TestDropTip_WithoutTip_EmitsNothing(t *testing.T) {
	ctx := makeContext()
	c := NewCreators(nil)
	p := TipParams{Pipette: defaultPipette, Labware: FixedTrashID, Well: "A1"}

	res := c.DropTip(p, ctx, initialRobotStateStandard(t, ctx))
	require.True(t, res.OK())
	assert.Empty(t, res.Commands)

	res = c.DropTip(p, ctx, robotStateWithTipStandard(t, ctx))
	require.True(t, res.OK())
	assert.Equal(t, []Command{DropTip{p}}, res.Commands)
}

func TestDelayAndUpdateRobotState_AlwaysAccepted(t *testing.T) {
	c := NewCreators(nil)
	assert.True(t, c.Delay(DelayParams{Wait: 30}, NewInvariantContext(), NewRobotState()).OK())
	assert.True(t, c.UpdateRobotState(UpdateRobotStateParams{}, NewInvariantContext(), NewRobotState()).OK())
}
