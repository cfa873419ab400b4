// Package units converts between concentrations and particle counts.
//
// Concentrations are in nmol/l and volumes in liters, so the conversion
// factor is AvogadroNano * volume particles per nmol/l.
package units

import (
	"fmt"
	"math"
)

// AvogadroNano is Avogadro's number per nanomole.
const AvogadroNano = 6.0221415e14

// maxCount is the largest float64 that converts to uint64 without overflow.
const maxCount = float64(1 << 63)

// Converter maps concentrations to counts for one system volume.
type Converter struct {
	volume float64
	factor float64
}

// NewConverter returns a converter for volume liters.
// volume must be finite and strictly positive.
func NewConverter(volume float64) (Converter, error) {
	if math.IsNaN(volume) || math.IsInf(volume, 0) || volume <= 0 {
		return Converter{}, fmt.Errorf("volume must be finite and > 0, got %v", volume)
	}
	return Converter{volume: volume, factor: AvogadroNano * volume}, nil
}

// Volume returns the system volume in liters.
func (c Converter) Volume() float64 { return c.volume }

// Factor returns particles per nmol/l.
func (c Converter) Factor() float64 { return c.factor }

// ToCount converts a concentration to a particle count by flooring
// conc*factor. A product within a few ulps below an integer snaps up to that
// integer, so ToCount(ToConcentration(n)) == n for every representable n.
func (c Converter) ToCount(conc float64) (uint64, error) {
	if math.IsNaN(conc) || math.IsInf(conc, 0) || conc < 0 {
		return 0, fmt.Errorf("concentration must be finite and >= 0, got %v", conc)
	}
	x := conc * c.factor
	if x >= maxCount {
		return 0, fmt.Errorf("concentration %v overflows particle count at volume %v", conc, c.volume)
	}
	n := math.Floor(x)
	if up := n + 1; up-x <= 4*(math.Nextafter(x, math.Inf(1))-x) {
		n = up
	}
	return uint64(n), nil
}

// ToConcentration converts a particle count back to nmol/l.
func (c Converter) ToConcentration(n uint64) float64 {
	return float64(n) / c.factor
}
