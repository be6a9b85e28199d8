package sim

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Envelope is the wire representation of a command:
// {"command": <tag>, "params": {...}}.
type Envelope struct {
	Command CommandKind `json:"command" yaml:"command"`
	Params  any         `json:"params" yaml:"params"`
}

// EncodeCommand wraps a command in its wire envelope.
func EncodeCommand(c Command) Envelope {
	return Envelope{Command: c.Kind(), Params: c.Params()}
}

type decodeFunc func(v any) error

func decodeAs[P any](decode decodeFunc, build func(P) Command) (Command, error) {
	var p P
	if err := decode(&p); err != nil {
		return nil, err
	}
	return build(p), nil
}

// commandDecoders holds one decoder per command kind. Kinds missing here
// cannot be read from the wire.
var commandDecoders = map[CommandKind]func(decodeFunc) (Command, error){
	KindAspirate: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p PipettingParams) Command { return Aspirate{p} })
	},
	KindDispense: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p PipettingParams) Command { return Dispense{p} })
	},
	KindAirGap: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p PipettingParams) Command { return AirGap{p} })
	},
	KindDispenseAirGap: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p PipettingParams) Command { return DispenseAirGap{p} })
	},
	KindBlowout: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p BlowoutParams) Command { return Blowout{p} })
	},
	KindTouchTip: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p TouchTipParams) Command { return TouchTip{p} })
	},
	KindPickUpTip: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p TipParams) Command { return PickUpTip{p} })
	},
	KindDropTip: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p TipParams) Command { return DropTip{p} })
	},
	KindDelay: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p DelayParams) Command { return Delay{p} })
	},
	KindMoveToSlot: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p MoveToSlotParams) Command { return MoveToSlot{p} })
	},
	KindMoveToWell: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p MoveToWellParams) Command { return MoveToWell{p} })
	},
	KindUpdateRobotState: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p UpdateRobotStateParams) Command { return UpdateRobotState{p} })
	},
	KindEngageMagnet: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p EngageMagnetParams) Command { return EngageMagnet{p} })
	},
	KindDisengageMagnet: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p ModuleParams) Command { return DisengageMagnet{p} })
	},
	KindSetTargetTemperature: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p TemperatureParams) Command { return SetTargetTemperature{p} })
	},
	KindDeactivateTemperature: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p ModuleParams) Command { return DeactivateTemperature{p} })
	},
	KindAwaitTemperature: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p TemperatureParams) Command { return AwaitTemperature{p} })
	},
	KindSetTargetBlockTemperature: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p BlockTemperatureParams) Command { return SetTargetBlockTemperature{p} })
	},
	KindSetTargetLidTemperature: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p TemperatureParams) Command { return SetTargetLidTemperature{p} })
	},
	KindAwaitBlockTemperature: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p TemperatureParams) Command { return AwaitBlockTemperature{p} })
	},
	KindAwaitLidTemperature: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p TemperatureParams) Command { return AwaitLidTemperature{p} })
	},
	KindDeactivateBlock: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p ModuleParams) Command { return DeactivateBlock{p} })
	},
	KindDeactivateLid: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p ModuleParams) Command { return DeactivateLid{p} })
	},
	KindCloseLid: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p ModuleParams) Command { return CloseLid{p} })
	},
	KindOpenLid: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p ModuleParams) Command { return OpenLid{p} })
	},
	KindRunProfile: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p RunProfileParams) Command { return RunProfile{p} })
	},
	KindAwaitProfileComplete: func(d decodeFunc) (Command, error) {
		return decodeAs(d, func(p ModuleParams) Command { return AwaitProfileComplete{p} })
	},
}

// IsValidCommandKind returns true if kind belongs to the closed command set.
func IsValidCommandKind(kind string) bool {
	_, ok := commandDecoders[CommandKind(kind)]
	return ok
}

// DecodeCommand builds a command of the given kind, using decode to fill its
// params struct. decode receives a pointer to the params struct.
func DecodeCommand(kind CommandKind, decode func(v any) error) (Command, error) {
	dec, ok := commandDecoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, kind)
	}
	c, err := dec(decode)
	if err != nil {
		return nil, fmt.Errorf("decoding %s params: %w", kind, err)
	}
	return c, nil
}

// Commands is an ordered command list that reads and writes the wire format.
type Commands []Command

type rawJSONEnvelope struct {
	Command CommandKind     `json:"command"`
	Params  json.RawMessage `json:"params"`
}

// MarshalJSON encodes each command as an Envelope.
func (cs Commands) MarshalJSON() ([]byte, error) {
	envs := make([]Envelope, len(cs))
	for i, c := range cs {
		envs[i] = EncodeCommand(c)
	}
	return json.Marshal(envs)
}

// UnmarshalJSON decodes a list of envelopes. Unknown params fields are errors.
func (cs *Commands) UnmarshalJSON(data []byte) error {
	var raws []rawJSONEnvelope
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(Commands, 0, len(raws))
	for i, raw := range raws {
		params := raw.Params
		c, err := DecodeCommand(raw.Command, func(v any) error {
			if len(params) == 0 || string(params) == "null" {
				return nil
			}
			dec := json.NewDecoder(bytes.NewReader(params))
			dec.DisallowUnknownFields()
			return dec.Decode(v)
		})
		if err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}

type rawYAMLEnvelope struct {
	Command CommandKind `yaml:"command"`
	Params  yaml.Node   `yaml:"params"`
}

// UnmarshalYAML decodes a list of envelopes from YAML. Unknown params fields
// are errors.
func (cs *Commands) UnmarshalYAML(node *yaml.Node) error {
	var raws []rawYAMLEnvelope
	if err := node.Decode(&raws); err != nil {
		return err
	}
	out := make(Commands, 0, len(raws))
	for i := range raws {
		params := &raws[i].Params
		c, err := DecodeCommand(raws[i].Command, func(v any) error {
			if params.Kind == 0 {
				return nil
			}
			// node.Decode ignores the outer decoder's KnownFields setting
			b, err := yaml.Marshal(params)
			if err != nil {
				return err
			}
			dec := yaml.NewDecoder(bytes.NewReader(b))
			dec.KnownFields(true)
			return dec.Decode(v)
		})
		if err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}
