package sim

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	defaultPipette = "p300SingleId"
	multiPipette   = "p300MultiId"
	sourceLabware  = "sourcePlateId"
	destLabware    = "destPlateId"
	tiprackLabware = "tiprack1Id"
	troughLabware  = "troughId"
)

// gridDef builds a labware definition with rows×cols wells ordered column
// by column.
func gridDef(uri, category string, rows, cols int, volume float64, tiprack bool) *LabwareDefinition {
	def := &LabwareDefinition{
		URI:             uri,
		DisplayCategory: category,
		IsTiprack:       tiprack,
		Wells:           make(map[string]WellDefinition),
	}
	for c := 0; c < cols; c++ {
		col := make([]string, 0, rows)
		for r := 0; r < rows; r++ {
			well := fmt.Sprintf("%c%d", 'A'+r, c+1)
			col = append(col, well)
			def.Wells[well] = WellDefinition{TotalLiquidVolume: volume, Depth: 10}
		}
		def.Ordering = append(def.Ordering, col)
	}
	return def
}

func tiprackDef(volume int) *LabwareDefinition {
	return gridDef(fmt.Sprintf("fixture/fixture_tiprack_%d_ul/1", volume), "tipRack", 8, 12, float64(volume), true)
}

func plateDef() *LabwareDefinition {
	return gridDef("fixture/fixture_96_plate/1", "wellPlate", 8, 12, 200, false)
}

func plate384Def() *LabwareDefinition {
	return gridDef("fixture/fixture_384_plate/1", "wellPlate", 16, 24, 100, false)
}

func troughDef() *LabwareDefinition {
	return gridDef("fixture/fixture_12_trough/1", "reservoir", 1, 12, 22000, false)
}

func trashDef() *LabwareDefinition {
	return gridDef("opentrons/opentrons_1_trash_1100ml_fixed/1", "trash", 1, 1, 1100000, false)
}

// makeContext returns the standard context: a GEN2 single-channel and a GEN1
// 8-channel p300, both using 300 µL tips, with source, destination, trough,
// tip rack and trash labware.
func makeContext() *InvariantContext {
	ctx := NewInvariantContext()
	tips := tiprackDef(300)
	addPipette(ctx, defaultPipette, "p300_single_gen2", tips)
	addPipette(ctx, multiPipette, "p300_multi", tips)
	ctx.LabwareEntities[FixedTrashID] = LabwareEntity{ID: FixedTrashID, DefURI: trashDef().URI, Def: trashDef()}
	ctx.LabwareEntities[tiprackLabware] = LabwareEntity{ID: tiprackLabware, DefURI: tips.URI, Def: tips}
	ctx.LabwareEntities[sourceLabware] = LabwareEntity{ID: sourceLabware, DefURI: plateDef().URI, Def: plateDef()}
	ctx.LabwareEntities[destLabware] = LabwareEntity{ID: destLabware, DefURI: plateDef().URI, Def: plateDef()}
	ctx.LabwareEntities[troughLabware] = LabwareEntity{ID: troughLabware, DefURI: troughDef().URI, Def: troughDef()}
	return ctx
}

func addPipette(ctx *InvariantContext, id, name string, tips *LabwareDefinition) {
	spec, ok := PipetteSpecByName(name)
	if !ok {
		panic("unknown pipette " + name)
	}
	ctx.PipetteEntities[id] = PipetteEntity{
		ID:                id,
		Name:              name,
		Spec:              spec,
		TiprackDefURI:     tips.URI,
		TiprackLabwareDef: tips,
	}
}

// setTiprack points a pipette at a different tip rack definition.
func setTiprack(ctx *InvariantContext, pipetteID string, tips *LabwareDefinition) {
	pip := ctx.PipetteEntities[pipetteID]
	pip.TiprackDefURI = tips.URI
	pip.TiprackLabwareDef = tips
	ctx.PipetteEntities[pipetteID] = pip
}

func standardLayout() Layout {
	return Layout{
		Pipettes: map[string]Mount{defaultPipette: MountLeft, multiPipette: MountRight},
		Labware: map[string]string{
			FixedTrashID:   "12",
			tiprackLabware: "1",
			sourceLabware:  "2",
			destLabware:    "3",
			troughLabware:  "4",
		},
		Modules: map[string]string{},
	}
}

func initialRobotStateStandard(t *testing.T, ctx *InvariantContext) *RobotState {
	t.Helper()
	s, err := NewInitialRobotState(ctx, standardLayout())
	require.NoError(t, err)
	return s
}

// robotStateWithTipStandard is the standard state with a tip on the default
// pipette, taken from A1 of the tip rack.
func robotStateWithTipStandard(t *testing.T, ctx *InvariantContext) *RobotState {
	t.Helper()
	return mustApply(t, ctx, initialRobotStateStandard(t, ctx),
		PickUpTip{TipParams{Pipette: defaultPipette, Labware: tiprackLabware, Well: "A1"}})
}

func mustApply(t *testing.T, ctx *InvariantContext, prev *RobotState, commands ...Command) *RobotState {
	t.Helper()
	res, err := NextRobotStateAndWarnings(commands, ctx, prev)
	require.NoError(t, err)
	return res.RobotState
}

// withLiquid returns a copy of s with contents placed in a well.
func withLiquid(s *RobotState, labwareID, well string, c Contents) *RobotState {
	d := NewDraft(s)
	d.SetWellContents(labwareID, well, c)
	next, _ := d.Finish()
	return next
}

// moduleFixture adds modules to the standard context and layout: a magnetic
// module in slot 6 carrying magPlateId, a temperature module in slot 9 and a
// thermocycler in its span carrying tcPlateId.
func moduleFixture(t *testing.T) (*InvariantContext, *RobotState) {
	t.Helper()
	ctx := makeContext()
	ctx.ModuleEntities["magId"] = ModuleEntity{ID: "magId", Type: MagneticModuleType, Model: MagneticModuleV2}
	ctx.ModuleEntities["tempId"] = ModuleEntity{ID: "tempId", Type: TemperatureModuleType, Model: TemperatureModuleV2}
	ctx.ModuleEntities["tcId"] = ModuleEntity{ID: "tcId", Type: ThermocyclerModuleType, Model: ThermocyclerModuleV1}
	ctx.LabwareEntities["magPlateId"] = LabwareEntity{ID: "magPlateId", DefURI: plateDef().URI, Def: plateDef()}
	ctx.LabwareEntities["tcPlateId"] = LabwareEntity{ID: "tcPlateId", DefURI: plateDef().URI, Def: plateDef()}

	layout := standardLayout()
	layout.Modules = map[string]string{"magId": "6", "tempId": "9", "tcId": ThermocyclerSlot}
	layout.Labware["magPlateId"] = "magId"
	layout.Labware["tcPlateId"] = "tcId"
	s, err := NewInitialRobotState(ctx, layout)
	require.NoError(t, err)
	return ctx, s
}

// sameMap reports whether two maps share the same backing storage.
func sameMap(a, b any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// zeroCommand returns a command of the given kind with zero params.
func zeroCommand(t *testing.T, kind CommandKind) Command {
	t.Helper()
	c, err := DecodeCommand(kind, func(any) error { return nil })
	require.NoError(t, err)
	return c
}
