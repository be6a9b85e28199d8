package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/stepgen/sim"
)

// ProtocolFile is the on-disk description of a protocol: labware
// definitions, the entities on the deck, where they start and the commands
// to run. JSON files are accepted too, being valid YAML.
type ProtocolFile struct {
	LabwareDefinitions map[string]sim.LabwareDefinition `yaml:"labwareDefinitions"`
	Pipettes           map[string]PipetteEntry           `yaml:"pipettes"`
	Labware            map[string]LabwareEntry           `yaml:"labware"`
	Modules            map[string]ModuleEntry            `yaml:"modules"`
	// Liquids holds starting contents: labware id → well → liquid id → µL.
	Liquids  map[string]map[string]sim.Contents `yaml:"liquids"`
	TrashID  string                             `yaml:"trashId"`
	Config   sim.Config                         `yaml:"config"`
	Commands sim.Commands                       `yaml:"commands"`
}

// PipetteEntry places one pipette.
type PipetteEntry struct {
	Name          string    `yaml:"name"`
	Mount         sim.Mount `yaml:"mount"`
	TiprackDefURI string    `yaml:"tiprackDefURI"`
}

// LabwareEntry places one piece of labware in a slot or on a module.
type LabwareEntry struct {
	DefURI string `yaml:"defURI"`
	Slot   string `yaml:"slot"`
}

// ModuleEntry places one module.
type ModuleEntry struct {
	Model sim.ModuleModel `yaml:"model"`
	Slot  string          `yaml:"slot"`
}

// Protocol is a loaded protocol ready to simulate.
type Protocol struct {
	Context  *sim.InvariantContext
	Initial  *sim.RobotState
	Commands []sim.Command
}

// LoadProtocolFile reads and decodes a protocol file. Unknown fields are
// rejected.
func LoadProtocolFile(path string) (*ProtocolFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading protocol file: %w", err)
	}
	return ParseProtocolFile(data)
}

// ParseProtocolFile decodes protocol file contents.
func ParseProtocolFile(data []byte) (*ProtocolFile, error) {
	var pf ProtocolFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&pf); err != nil {
		return nil, fmt.Errorf("parsing protocol file: %w", err)
	}
	return &pf, nil
}

// Build resolves every entity against the definitions and pipette specs and
// builds the initial robot state.
func (pf *ProtocolFile) Build() (*Protocol, error) {
	defs := make(map[string]*sim.LabwareDefinition, len(pf.LabwareDefinitions))
	for uri, def := range pf.LabwareDefinitions {
		if def.URI == "" {
			def.URI = uri
		}
		defs[uri] = &def
	}

	ctx := sim.NewInvariantContext()
	ctx.Config = pf.Config
	ctx.TrashID = pf.TrashID
	layout := sim.Layout{
		Pipettes: make(map[string]sim.Mount, len(pf.Pipettes)),
		Labware:  make(map[string]string, len(pf.Labware)),
		Modules:  make(map[string]string, len(pf.Modules)),
		Liquids:  pf.Liquids,
	}

	for _, id := range sortedKeys(pf.Pipettes) {
		entry := pf.Pipettes[id]
		spec, ok := sim.PipetteSpecByName(entry.Name)
		if !ok {
			return nil, fmt.Errorf("pipette %q: unknown model %q", id, entry.Name)
		}
		if entry.Mount != sim.MountLeft && entry.Mount != sim.MountRight {
			return nil, fmt.Errorf("pipette %q: invalid mount %q", id, entry.Mount)
		}
		tiprack, ok := defs[entry.TiprackDefURI]
		if !ok {
			return nil, fmt.Errorf("pipette %q: no labware definition for tip rack %q", id, entry.TiprackDefURI)
		}
		ctx.PipetteEntities[id] = sim.PipetteEntity{
			ID:                id,
			Name:              entry.Name,
			Spec:              spec,
			TiprackDefURI:     entry.TiprackDefURI,
			TiprackLabwareDef: tiprack,
		}
		layout.Pipettes[id] = entry.Mount
	}

	for _, id := range sortedKeys(pf.Modules) {
		entry := pf.Modules[id]
		moduleType, ok := sim.ModuleTypeForModel(entry.Model)
		if !ok {
			return nil, fmt.Errorf("module %q: unknown model %q", id, entry.Model)
		}
		ctx.ModuleEntities[id] = sim.ModuleEntity{ID: id, Type: moduleType, Model: entry.Model}
		layout.Modules[id] = entry.Slot
	}

	for _, id := range sortedKeys(pf.Labware) {
		entry := pf.Labware[id]
		def, ok := defs[entry.DefURI]
		if !ok {
			return nil, fmt.Errorf("labware %q: no labware definition %q", id, entry.DefURI)
		}
		ctx.LabwareEntities[id] = sim.LabwareEntity{ID: id, DefURI: entry.DefURI, Def: def}
		layout.Labware[id] = entry.Slot
	}

	initial, err := sim.NewInitialRobotState(ctx, layout)
	if err != nil {
		return nil, err
	}
	return &Protocol{Context: ctx, Initial: initial, Commands: pf.Commands}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
