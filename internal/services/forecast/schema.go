package forecast

import "fmt"

// DefaultSectorBasis is the fixed number of sector slots per feature group.
// Fewer tracked sectors pad with zero-filled slots so the row width never
// depends on how many sectors were actually loaded.
const DefaultSectorBasis = 11

// SlotGroup identifies which feature group a slot belongs to.
type SlotGroup string

const (
	GroupSectorVolatility    SlotGroup = "sector_volatility"
	GroupSectorReturn        SlotGroup = "sector_return"
	GroupCrossCorrelation    SlotGroup = "cross_correlation"
	GroupBondSpread          SlotGroup = "bond_spread"
	GroupCurveSlope          SlotGroup = "curve_slope"
	GroupBenchmarkVolatility SlotGroup = "benchmark_volatility"
)

// Slot is one named position of the feature vector.
type Slot struct {
	Name  string    `json:"name"`
	Group SlotGroup `json:"group"`
}

// Schema is the explicit, ordered layout of one feature row: sector
// volatilities first, then sector returns (both padded to the sector
// basis), then the four scalar slots. With the default basis of 11 the
// width is 26. Consumers validate row width against Width() instead of a
// bare constant.
type Schema struct {
	Slots       []Slot
	SectorBasis int
}

// NewSchema builds the canonical layout for the given sector symbols.
// Symbols beyond the basis are ignored; missing ones become padding slots.
func NewSchema(symbols []string, basis int) Schema {
	if basis <= 0 {
		basis = DefaultSectorBasis
	}
	slots := make([]Slot, 0, 2*basis+4)
	for i := 0; i < basis; i++ {
		if i < len(symbols) {
			slots = append(slots, Slot{Name: "vol_" + symbols[i], Group: GroupSectorVolatility})
		} else {
			slots = append(slots, Slot{Name: fmt.Sprintf("vol_pad_%d", i), Group: GroupSectorVolatility})
		}
	}
	for i := 0; i < basis; i++ {
		if i < len(symbols) {
			slots = append(slots, Slot{Name: "ret_" + symbols[i], Group: GroupSectorReturn})
		} else {
			slots = append(slots, Slot{Name: fmt.Sprintf("ret_pad_%d", i), Group: GroupSectorReturn})
		}
	}
	slots = append(slots,
		Slot{Name: "avg_cross_correlation", Group: GroupCrossCorrelation},
		Slot{Name: "spread_10y_2y", Group: GroupBondSpread},
		Slot{Name: "curve_slope_30y_3m", Group: GroupCurveSlope},
		Slot{Name: "benchmark_vol", Group: GroupBenchmarkVolatility},
	)
	return Schema{Slots: slots, SectorBasis: basis}
}

// Width is the feature-row width implied by the slot list.
func (s Schema) Width() int { return len(s.Slots) }

// ValidateRow checks that a feature row matches the slot layout.
func (s Schema) ValidateRow(row []float64) error {
	if len(row) != s.Width() {
		return fmt.Errorf("row width %d does not match schema width %d", len(row), s.Width())
	}
	return nil
}
