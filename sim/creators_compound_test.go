package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatorFor_EveryKind(t *testing.T) {
	c := NewCreators(nil)
	for _, kind := range AllCommandKinds {
		cc, err := c.CreatorFor(zeroCommand(t, kind))
		require.NoError(t, err, kind)
		assert.NotNil(t, cc, kind)
	}
	_, err := c.CreatorFor(nil)
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}

func TestReduceCommandCreators_ChainsState(t *testing.T) {
	// GIVEN a pick up followed by an aspirate that needs the tip
	ctx := makeContext()
	prev := withLiquid(initialRobotStateStandard(t, ctx), sourceLabware, "A1", Contents{"water": 100})
	c := NewCreators(nil)
	pick := TipParams{Pipette: defaultPipette, Labware: tiprackLabware, Well: "A1"}
	draw := airGapParams(defaultPipette, sourceLabware, 20)

	// WHEN chained
	res := ReduceCommandCreators([]CurriedCommandCreator{Curry(c.PickUpTip, pick), Curry(c.Aspirate, draw)}, ctx, prev)

	// THEN the aspirate sees the tip picked up by the first creator
	require.True(t, res.OK(), "%v", res.Errors)
	assert.Equal(t, []Command{PickUpTip{pick}, Aspirate{draw}}, res.Commands)
	assert.False(t, prev.HasTip(defaultPipette))
}

func TestReduceCommandCreators_FirstRejectionWins(t *testing.T) {
	ctx := makeContext()
	prev := initialRobotStateStandard(t, ctx)
	c := NewCreators(nil)

	res := ReduceCommandCreators([]CurriedCommandCreator{
		Curry(c.Aspirate, airGapParams(defaultPipette, sourceLabware, 20)),
		Curry(c.Aspirate, airGapParams("ghost", sourceLabware, 20)),
	}, ctx, prev)

	requireErrorKind(t, res, NoTipOnPipette)
}

func TestReplaceTip(t *testing.T) {
	ctx := makeContext()
	c := NewCreators(nil)

	// without a tip: only a pick up from the first full well
	res := c.ReplaceTip(ReplaceTipParams{Pipette: defaultPipette}, ctx, initialRobotStateStandard(t, ctx))
	require.True(t, res.OK())
	assert.Equal(t, []Command{PickUpTip{TipParams{Pipette: defaultPipette, Labware: tiprackLabware, Well: "A1"}}}, res.Commands)

	// with a tip: drop into the trash, then the next tip
	res = c.ReplaceTip(ReplaceTipParams{Pipette: defaultPipette}, ctx, robotStateWithTipStandard(t, ctx))
	require.True(t, res.OK())
	assert.Equal(t, []Command{
		DropTip{TipParams{Pipette: defaultPipette, Labware: FixedTrashID, Well: "A1"}},
		PickUpTip{TipParams{Pipette: defaultPipette, Labware: tiprackLabware, Well: "B1"}},
	}, res.Commands)
}

func TestReplaceTip_MultiChannelSkipsPartialColumns(t *testing.T) {
	ctx := makeContext()
	c := NewCreators(nil)
	prev := robotStateWithTipStandard(t, ctx) // A1 taken by the single channel

	res := c.ReplaceTip(ReplaceTipParams{Pipette: multiPipette}, ctx, prev)
	require.True(t, res.OK())
	assert.Equal(t, []Command{PickUpTip{TipParams{Pipette: multiPipette, Labware: tiprackLabware, Well: "A2"}}}, res.Commands)
}

func TestReplaceTip_FallsBackToNextRackBySlot(t *testing.T) {
	// GIVEN a second tip rack of the same type in slot 5, and the first rack emptied
	ctx := makeContext()
	tips := ctx.LabwareEntities[tiprackLabware]
	ctx.LabwareEntities["tiprack2Id"] = LabwareEntity{ID: "tiprack2Id", DefURI: tips.DefURI, Def: tips.Def}
	layout := standardLayout()
	layout.Labware["tiprack2Id"] = "5"
	prev, err := NewInitialRobotState(ctx, layout)
	require.NoError(t, err)
	d := NewDraft(prev)
	for _, w := range tips.Def.AllWells() {
		d.SetTiprackWell(tiprackLabware, w, false)
	}
	prev, _ = d.Finish()

	// WHEN replacing the tip
	res := NewCreators(nil).ReplaceTip(ReplaceTipParams{Pipette: defaultPipette}, ctx, prev)

	// THEN the second rack is used
	require.True(t, res.OK())
	assert.Equal(t, []Command{PickUpTip{TipParams{Pipette: defaultPipette, Labware: "tiprack2Id", Well: "A1"}}}, res.Commands)
}

func TestReplaceTip_Errors(t *testing.T) {
	c := NewCreators(nil)

	ctx := makeContext()
	requireErrorKind(t, c.ReplaceTip(ReplaceTipParams{Pipette: "ghost"}, ctx, initialRobotStateStandard(t, ctx)), PipetteDoesNotExist)

	// no matching tip rack
	ctx = makeContext()
	setTiprack(ctx, defaultPipette, tiprackDef(1000))
	requireErrorKind(t, c.ReplaceTip(ReplaceTipParams{Pipette: defaultPipette}, ctx, initialRobotStateStandard(t, ctx)), InsufficientTips)

	// tip attached but no trash
	ctx = makeContext()
	withTip := robotStateWithTipStandard(t, ctx)
	delete(ctx.LabwareEntities, FixedTrashID)
	requireErrorKind(t, c.ReplaceTip(ReplaceTipParams{Pipette: defaultPipette}, ctx, withTip), MissingTrash)
}

func TestMix(t *testing.T) {
	ctx := makeContext()
	prev := withLiquid(robotStateWithTipStandard(t, ctx), sourceLabware, "A1", Contents{"water": 100})
	c := NewCreators(nil)
	p := MixParams{Pipette: defaultPipette, Labware: sourceLabware, Well: "A1", Volume: 50, Times: 3, BlowoutAfter: true}

	res := c.Mix(p, ctx, prev)

	require.True(t, res.OK())
	require.Len(t, res.Commands, 7)
	for i := 0; i < 6; i += 2 {
		assert.Equal(t, KindAspirate, res.Commands[i].Kind())
		assert.Equal(t, KindDispense, res.Commands[i+1].Kind())
	}
	assert.Equal(t, KindBlowout, res.Commands[6].Kind())

	// the well ends where it started
	next := mustApply(t, ctx, prev, res.Commands...)
	assert.InDelta(t, 100, next.WellContents(sourceLabware, "A1").Total(), 1e-9)
}

func TestMix_ZeroTimes_EmitsNothing(t *testing.T) {
	ctx := makeContext()
	res := NewCreators(nil).Mix(MixParams{Pipette: defaultPipette, Labware: sourceLabware, Well: "A1", Volume: 50}, ctx, robotStateWithTipStandard(t, ctx))
	require.True(t, res.OK())
	assert.Empty(t, res.Commands)
}

func TestMix_VolumeAboveTip_Rejected(t *testing.T) {
	ctx := makeContext()
	p := MixParams{Pipette: defaultPipette, Labware: sourceLabware, Well: "A1", Volume: 400, Times: 2}
	requireErrorKind(t, NewCreators(nil).Mix(p, ctx, robotStateWithTipStandard(t, ctx)), TipVolumeExceeded)
}
