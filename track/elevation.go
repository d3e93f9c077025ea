package track

import (
	"fmt"
	"math"

	"github.com/soypat/miniature/internal/errs"
	"gonum.org/v1/gonum/floats"
)

// MinRibbonHeight is the height in millimetres added under every ribbon
// sample so the lowest point still stands off the plate.
const MinRibbonHeight = 1.0

// ScaleElevation maps raw elevations to ribbon heights in millimetres.
// The elevation range maps onto at most maxHeight-MinRibbonHeight and
// never exaggerates beyond one millimetre per elevation unit.
// A track with no elevation change yields a flat ribbon of MinRibbonHeight.
func ScaleElevation(elev []float64, maxHeight float64) ([]float64, error) {
	if len(elev) == 0 {
		return nil, nil
	}
	for i, e := range elev {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return nil, fmt.Errorf("elevation %d is %g: %w", i, e, errs.ErrDegenerateInput)
		}
	}
	lo, hi := floats.Min(elev), floats.Max(elev)
	h := make([]float64, len(elev))
	diff := hi - lo
	if diff == 0 {
		for i := range h {
			h[i] = MinRibbonHeight
		}
		return h, nil
	}
	rh := math.Max(0, math.Min(maxHeight-MinRibbonHeight, diff))
	for i, e := range elev {
		h[i] = MinRibbonHeight + (e-lo)*0.95*rh/diff + 0.05*rh
	}
	return h, nil
}
