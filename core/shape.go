package core

import "github.com/martinlindhe/unit"

// Shape is the closed set of geometric variants an Object can take.
// The unexported marker method seals the set: new variants are added
// here, in this package, so every dispatch site is forced to account
// for them at compile time.
type Shape interface {
	// VisualAngle returns the angle this shape subtends when seen from
	// the given distance.
	VisualAngle(distance unit.Length) unit.Angle

	sealedShape()
}

// Sphere is a spherical body. All large gravitationally bound bodies
// tend to go spherical anyway, but more variants may follow.
type Sphere struct {
	Radius unit.Length
}

// VisualAngle returns the angle the sphere subtends at the given distance.
func (s Sphere) VisualAngle(distance unit.Length) unit.Angle {
	return AngleFromDistanceSize(distance, s.Radius)
}

func (Sphere) sealedShape() {}

// Object pairs a shape with a position on the grid. Construction does
// no validation; bounds are checked by the Layout the object is added
// to.
type Object struct {
	Position Coordinate
	Shape    Shape
}

// NewObject constructs an object at the given position.
func NewObject(position Coordinate, shape Shape) Object {
	return Object{Position: position, Shape: shape}
}
