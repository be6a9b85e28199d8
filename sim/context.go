package sim

// FixedTrashID is the labware id conventionally used for the fixed trash.
const FixedTrashID = "trashId"

// PipetteSpec describes the physical limits of a pipette model.
type PipetteSpec struct {
	Channels  int     `json:"channels" yaml:"channels"`
	MinVolume float64 `json:"minVolume" yaml:"minVolume"`
	MaxVolume float64 `json:"maxVolume" yaml:"maxVolume"`
	Gen1Multi bool    `json:"gen1Multi,omitempty" yaml:"gen1Multi,omitempty"`
}

// PipetteEntity is a pipette present in a protocol along with its tip rack
// association. The tip rack definition determines the nominal tip volume.
type PipetteEntity struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Spec              PipetteSpec        `json:"spec"`
	TiprackDefURI     string             `json:"tiprackDefURI"`
	TiprackLabwareDef *LabwareDefinition `json:"-"`
}

// TipVolume returns the nominal maximum volume of the pipette's tips, or 0
// when no tip rack definition is associated.
func (p PipetteEntity) TipVolume() float64 {
	if p.TiprackLabwareDef == nil {
		return 0
	}
	return p.TiprackLabwareDef.TipVolume()
}

// LabwareEntity is a piece of labware and its definition.
type LabwareEntity struct {
	ID     string             `json:"id"`
	DefURI string             `json:"defURI"`
	Def    *LabwareDefinition `json:"-"`
}

// ModuleType identifies the family of a hardware module.
type ModuleType string

const (
	MagneticModuleType     ModuleType = "magneticModuleType"
	TemperatureModuleType  ModuleType = "temperatureModuleType"
	ThermocyclerModuleType ModuleType = "thermocyclerModuleType"
)

// ModuleModel identifies a specific hardware revision of a module.
type ModuleModel string

const (
	MagneticModuleV1     ModuleModel = "magneticModuleV1"
	MagneticModuleV2     ModuleModel = "magneticModuleV2"
	TemperatureModuleV1  ModuleModel = "temperatureModuleV1"
	TemperatureModuleV2  ModuleModel = "temperatureModuleV2"
	ThermocyclerModuleV1 ModuleModel = "thermocyclerModuleV1"
)

// moduleTypeByModel maps every known model to its module type.
var moduleTypeByModel = map[ModuleModel]ModuleType{
	MagneticModuleV1:     MagneticModuleType,
	MagneticModuleV2:     MagneticModuleType,
	TemperatureModuleV1:  TemperatureModuleType,
	TemperatureModuleV2:  TemperatureModuleType,
	ThermocyclerModuleV1: ThermocyclerModuleType,
}

// ModuleTypeForModel returns the module type of a model, or false when the
// model is not recognized.
func ModuleTypeForModel(model ModuleModel) (ModuleType, bool) {
	t, ok := moduleTypeByModel[model]
	return t, ok
}

// ModuleEntity is a hardware module present in a protocol.
type ModuleEntity struct {
	ID    string      `json:"id"`
	Type  ModuleType  `json:"type"`
	Model ModuleModel `json:"model"`
}

// Config carries feature switches that affect validation.
type Config struct {
	// DisableModuleRestrictions turns off the GEN1 multi-channel adjacency rule.
	DisableModuleRestrictions bool `json:"disableModuleRestrictions" yaml:"disableModuleRestrictions"`
}

// InvariantContext is the static description of everything present in a
// protocol. It is built once upstream and never modified during simulation.
type InvariantContext struct {
	PipetteEntities map[string]PipetteEntity
	LabwareEntities map[string]LabwareEntity
	ModuleEntities  map[string]ModuleEntity
	Config          Config
	// TrashID is where compound creators drop tips. Empty means FixedTrashID.
	TrashID string
}

// NewInvariantContext returns an empty context ready to be populated.
func NewInvariantContext() *InvariantContext {
	return &InvariantContext{
		PipetteEntities: make(map[string]PipetteEntity),
		LabwareEntities: make(map[string]LabwareEntity),
		ModuleEntities:  make(map[string]ModuleEntity),
	}
}

// Trash returns the labware id used for discarded tips.
func (c *InvariantContext) Trash() string {
	if c.TrashID == "" {
		return FixedTrashID
	}
	return c.TrashID
}

func (c *InvariantContext) labwareDef(labwareID string) *LabwareDefinition {
	if lw, ok := c.LabwareEntities[labwareID]; ok {
		return lw.Def
	}
	return nil
}
