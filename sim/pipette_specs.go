package sim

// pipetteSpecs holds the built-in pipette models, keyed by pipette name.
var pipetteSpecs = map[string]PipetteSpec{
	"p10_single":        {Channels: 1, MinVolume: 1, MaxVolume: 10},
	"p10_multi":         {Channels: 8, MinVolume: 1, MaxVolume: 10, Gen1Multi: true},
	"p20_single_gen2":   {Channels: 1, MinVolume: 1, MaxVolume: 20},
	"p20_multi_gen2":    {Channels: 8, MinVolume: 1, MaxVolume: 20},
	"p50_single":        {Channels: 1, MinVolume: 5, MaxVolume: 50},
	"p50_multi":         {Channels: 8, MinVolume: 5, MaxVolume: 50, Gen1Multi: true},
	"p300_single":       {Channels: 1, MinVolume: 30, MaxVolume: 300},
	"p300_multi":        {Channels: 8, MinVolume: 30, MaxVolume: 300, Gen1Multi: true},
	"p300_single_gen2":  {Channels: 1, MinVolume: 20, MaxVolume: 300},
	"p300_multi_gen2":   {Channels: 8, MinVolume: 20, MaxVolume: 300},
	"p1000_single":      {Channels: 1, MinVolume: 100, MaxVolume: 1000},
	"p1000_single_gen2": {Channels: 1, MinVolume: 100, MaxVolume: 1000},
}

// PipetteSpecByName returns the built-in spec for a pipette name.
func PipetteSpecByName(name string) (PipetteSpec, bool) {
	spec, ok := pipetteSpecs[name]
	return spec, ok
}

// IsValidPipetteName returns true if the name is a built-in pipette model.
func IsValidPipetteName(name string) bool {
	_, ok := pipetteSpecs[name]
	return ok
}
