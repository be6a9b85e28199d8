package sim

import "strconv"

// ThermocyclerSlot is the pseudo-slot spanning deck slots 7, 8, 10 and 11
// that a thermocycler occupies.
const ThermocyclerSlot = "span7_8_10_11"

const (
	deckSlots   = 12
	deckColumns = 3
	multiTips   = 8
)

// WellDefinition describes the geometry of one well.
type WellDefinition struct {
	TotalLiquidVolume float64 `json:"totalLiquidVolume" yaml:"totalLiquidVolume"`
	Depth             float64 `json:"depth,omitempty" yaml:"depth,omitempty"`
}

// LabwareDefinition describes a labware model. Ordering lists wells column
// by column, front to back within each column.
type LabwareDefinition struct {
	URI             string                    `json:"uri" yaml:"uri"`
	DisplayCategory string                    `json:"displayCategory" yaml:"displayCategory"`
	IsTiprack       bool                      `json:"isTiprack" yaml:"isTiprack"`
	Ordering        [][]string                `json:"ordering" yaml:"ordering"`
	Wells           map[string]WellDefinition `json:"wells" yaml:"wells"`
}

// TipVolume is the nominal tip capacity of a tip rack: the volume of its
// first well.
func (d *LabwareDefinition) TipVolume() float64 {
	if d == nil || len(d.Ordering) == 0 || len(d.Ordering[0]) == 0 {
		return 0
	}
	return d.Wells[d.Ordering[0][0]].TotalLiquidVolume
}

// AllWells returns every well in ordering order.
func (d *LabwareDefinition) AllWells() []string {
	if d == nil {
		return nil
	}
	var wells []string
	for _, col := range d.Ordering {
		wells = append(wells, col...)
	}
	return wells
}

func (d *LabwareDefinition) column(well string) ([]string, int) {
	for _, col := range d.Ordering {
		for i, w := range col {
			if w == well {
				return col, i
			}
		}
	}
	return nil, -1
}

// WellsForTips resolves the wells reached by each channel of a pipette
// targeting well. A single-channel pipette reaches only well. An 8-channel
// pipette reaches a 96-format column from its first row, every other well of
// a 384-format column, or the same well eight times for a single-row
// reservoir. The second return is false when the target cannot be reached.
func WellsForTips(channels int, def *LabwareDefinition, well string) ([]string, bool) {
	if channels <= 1 {
		return []string{well}, true
	}
	if def == nil || channels != multiTips {
		return nil, false
	}
	col, idx := def.column(well)
	switch {
	case col == nil:
		return nil, false
	case len(col) == 1:
		wells := make([]string, multiTips)
		for i := range wells {
			wells[i] = well
		}
		return wells, true
	case len(col) == multiTips && idx == 0:
		return append([]string(nil), col...), true
	case len(col) == 2*multiTips && idx < 2:
		wells := make([]string, 0, multiTips)
		for i := idx; i < len(col); i += 2 {
			wells = append(wells, col[i])
		}
		return wells, true
	}
	return nil, false
}

// IsDeckSlot reports whether slot names a physical deck slot.
func IsDeckSlot(slot string) bool {
	n, err := strconv.Atoi(slot)
	return err == nil && n >= 1 && n <= deckSlots
}

// slotsFrontToBack reports whether two deck slots are neighbours in the same
// column, one directly behind the other.
func slotsFrontToBack(a, b string) bool {
	if !IsDeckSlot(a) || !IsDeckSlot(b) {
		return false
	}
	na, _ := strconv.Atoi(a)
	nb, _ := strconv.Atoi(b)
	return na-nb == deckColumns || nb-na == deckColumns
}
