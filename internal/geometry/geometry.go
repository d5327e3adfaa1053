// Package geometry holds the angle helpers shared by the position and route code.
package geometry

import "math"

const (
	FullRotation          = 360.0
	HalfRotation          = 180.0
	PoleLatitude          = 90.0
	AntiMeridianLongitude = 180.0
)

func DegToRad(d float64) float64 {
	return d * math.Pi / HalfRotation
}

func RadToDeg(r float64) float64 {
	return r * HalfRotation / math.Pi
}

// SinSqr returns sin(x)^2.
func SinSqr(x float64) float64 {
	s := math.Sin(x)
	return s * s
}

// NormaliseDeg maps d into (-180, 180]. -180 becomes +180.
// Non-finite input yields NaN.
func NormaliseDeg(d float64) float64 {
	r := math.Mod(d, FullRotation)
	if r <= -HalfRotation {
		r += FullRotation
	} else if r > HalfRotation {
		r -= FullRotation
	}
	return r
}
