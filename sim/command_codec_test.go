package sim

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCommandKinds_EveryKindDecodes(t *testing.T) {
	for _, kind := range AllCommandKinds {
		assert.True(t, IsValidCommandKind(string(kind)), kind)
		assert.Equal(t, kind, zeroCommand(t, kind).Kind())
	}
	assert.Len(t, commandDecoders, len(AllCommandKinds))
}

func TestDecodeCommand_UnknownKind(t *testing.T) {
	_, err := DecodeCommand("teleport", func(any) error { return nil })
	assert.True(t, errors.Is(err, ErrUnknownCommand))
	assert.False(t, IsValidCommandKind("teleport"))
}

func TestCommands_JSON(t *testing.T) {
	// GIVEN commands in wire format
	data := `[
		{"command": "aspirate", "params": {"pipette": "p1", "volume": 50, "labware": "plate", "well": "A1", "flowRate": 6, "offsetFromBottomMm": 5}},
		{"command": "delay", "params": {"wait": 30}},
		{"command": "updateRobotState"},
		{"command": "thermocycler/runProfile", "params": {"module": "tc", "profile": [{"temperature": 95, "holdTime": 30}], "lidTargetTemp": 105, "volume": 20}}
	]`

	// WHEN decoded
	var cs Commands
	require.NoError(t, json.Unmarshal([]byte(data), &cs))

	// THEN each command has its concrete type and params
	require.Len(t, cs, 4)
	assert.Equal(t, Aspirate{PipettingParams{Pipette: "p1", Volume: 50, Labware: "plate", Well: "A1", FlowRate: 6, OffsetFromBottomMm: 5}}, cs[0])
	assert.Equal(t, Delay{DelayParams{Wait: 30}}, cs[1])
	assert.Equal(t, UpdateRobotState{}, cs[2])
	assert.Equal(t, KindRunProfile, cs[3].Kind())

	// AND encoding gives back the same envelopes
	out, err := json.Marshal(cs)
	require.NoError(t, err)
	var again Commands
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, cs, again)
}

func TestCommands_JSON_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown tag":   `[{"command": "teleport", "params": {}}]`,
		"unknown field": `[{"command": "delay", "params": {"wait": 1, "speed": 2}}]`,
		"wrong type":    `[{"command": "aspirate", "params": {"volume": "lots"}}]`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			var cs Commands
			assert.Error(t, json.Unmarshal([]byte(data), &cs))
		})
	}
}

func TestCommands_YAML(t *testing.T) {
	data := `
- command: pickUpTip
  params: {pipette: p1, labware: tips, well: A1}
- command: magneticModule/engageMagnet
  params:
    module: mag
    engageHeight: 12.5
- command: updateRobotState
`
	var cs Commands
	require.NoError(t, yaml.Unmarshal([]byte(data), &cs))
	require.Len(t, cs, 3)
	assert.Equal(t, PickUpTip{TipParams{Pipette: "p1", Labware: "tips", Well: "A1"}}, cs[0])
	assert.Equal(t, EngageMagnet{EngageMagnetParams{Module: "mag", EngageHeight: 12.5}}, cs[1])
	assert.Equal(t, UpdateRobotState{}, cs[2])

	var bad Commands
	err := yaml.Unmarshal([]byte("- command: teleport\n"), &bad)
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}

func TestCommands_YAML_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown field": "- command: aspirate\n  params: {pipette: p1, labware: src, well: A1, volum: 50}\n",
		"nested field":  "- command: thermocycler/runProfile\n  params: {module: tc, profile: [{temperature: 95, holdTime: 10, ramp: 2}]}\n",
		"wrong type":    "- command: delay\n  params: {wait: soon}\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			var cs Commands
			err := yaml.Unmarshal([]byte(data), &cs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "command 0")
		})
	}
}
