package core

import (
	"math"

	"github.com/martinlindhe/unit"
)

// Visual-angle conversions: the three invertible relations between the
// angle θ an object subtends, its physical size s, and its distance d.
// All three work on unit-tagged quantities and compute in canonical
// units (metres, radians); callers convert to a display unit only at
// presentation.
//
// Degenerate geometry is not guarded: a zero distance yields an angle of
// π via atan(+Inf), and a zero angle yields an infinite distance.

// AngleFromDistanceSize returns the visual angle of an object of the
// given size at the given distance: 2·atan((s/2)/d).
func AngleFromDistanceSize(distance, size unit.Length) unit.Angle {
	theta := 2 * math.Atan((size.Meters()/2)/distance.Meters())
	return unit.Angle(theta) * unit.Radian
}

// DistanceFromAngleSize returns the distance at which an object of the
// given size subtends the given angle: (s/2)/tan(θ/2).
func DistanceFromAngleSize(angle unit.Angle, size unit.Length) unit.Length {
	d := (size.Meters() / 2) / math.Tan(angle.Radians()/2)
	return unit.Length(d) * unit.Meter
}

// SizeFromAngleDistance returns the size of an object that subtends the
// given angle at the given distance: 2·d·tan(θ/2).
func SizeFromAngleDistance(angle unit.Angle, distance unit.Length) unit.Length {
	s := 2 * distance.Meters() * math.Tan(angle.Radians()/2)
	return unit.Length(s) * unit.Meter
}
