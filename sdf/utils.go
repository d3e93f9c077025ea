package sdf

import "math"

// DtoR converts degrees to radians.
func DtoR(degrees float64) float64 {
	return (math.Pi / 180) * degrees
}
