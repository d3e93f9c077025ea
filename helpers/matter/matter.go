// Package matter compensates printed dimensions for material shrinkage.
package matter

import (
	"fmt"
	"strings"

	"github.com/soypat/miniature/kernel"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = Material{Name: "pla", shrink: 0.2e-2, pullShrink: .45} // 0.2% shrinkage
	// None applies no compensation.
	None = Material{Name: "none"}
)

// Material describes how a printed part deviates from the modelled one.
type Material struct {
	Name string
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage of internal features
	// such as holes, in millimetres.
	pullShrink float64
}

// Lookup returns the material by name. The empty name is None.
func Lookup(name string) (Material, error) {
	switch strings.ToLower(name) {
	case "", None.Name:
		return None, nil
	case PLA.Name:
		return PLA, nil
	}
	return None, fmt.Errorf("unknown material %q", name)
}

// ScaleFactor is the uniform scale that makes a part cool to its
// modelled size.
func (m Material) ScaleFactor() float64 {
	return 1 / (1 - m.shrink)
}

// Scale grows s to compensate for thermal shrinkage.
func (m Material) Scale(k *kernel.Kernel, s kernel.Solid) kernel.Solid {
	if m.shrink == 0 {
		return s
	}
	return k.Scale(s, m.ScaleFactor())
}

// InternalDim returns the modelled size of an internal feature, such as
// a hole diameter, that should print as real. Non positive sizes are
// returned unchanged.
func (m Material) InternalDim(real float64) float64 {
	if real <= 0 {
		return real
	}
	return real*(m.shrink+1) + m.pullShrink
}
