package core

import (
	"context"

	"github.com/martinlindhe/unit"

	"github.com/orreryworks/apparent/internal/logging"
)

// Layout is a bounded three-dimensional grid of Objects that stands in
// for a real space of any magnitude. Integer coordinates in
// [-coordinateBound, +coordinateBound] on each axis are scaled onto the
// real edge length given by dimension, so callers can reason about
// astronomical distances with small exact integers instead of lossy
// large-magnitude floats.
//
// A Layout only ever grows: objects are validated and appended, never
// removed. It is not safe for concurrent mutation; callers that share a
// Layout across goroutines own the locking.
type Layout struct {
	objects         []Object
	coordinateBound int64
	dimension       unit.Length

	log logging.Logger
}

// Option configures a Layout at construction time.
type Option func(*Layout)

// WithLogger attaches a structured logger; rejected placements are
// reported at debug level with the offending coordinate.
func WithLogger(log logging.Logger) Option {
	return func(l *Layout) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLayout constructs an empty grid extending coordinateBound steps
// from the origin on each axis, representing a real edge length of
// dimension.
func NewLayout(coordinateBound int64, dimension unit.Length, opts ...Option) *Layout {
	l := &Layout{
		coordinateBound: coordinateBound,
		dimension:       dimension,
		log:             logging.Noop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultLayout returns a grid of 1000 steps per axis spanning one
// light-year.
func DefaultLayout(opts ...Option) *Layout {
	return NewLayout(1000, 1*unit.LightYear, opts...)
}

// CoordinateBound returns the maximum inclusive magnitude per axis.
func (l *Layout) CoordinateBound() int64 { return l.coordinateBound }

// Dimension returns the real edge length the full grid span represents.
func (l *Layout) Dimension() unit.Length { return l.dimension }

// NumObjects returns how many objects the layout holds.
func (l *Layout) NumObjects() int { return len(l.objects) }

// UnitLength returns the real length one grid step represents:
// dimension / (2 × coordinateBound).
func (l *Layout) UnitLength() unit.Length {
	return l.dimension / unit.Length(l.coordinateBound*2)
}

// checkBound reports whether a single axis value lies within the grid.
// Both ends are inclusive: a bound of 5 accepts +5 and -5 but rejects ±6.
func (l *Layout) checkBound(v int64) bool {
	return -l.coordinateBound <= v && v <= l.coordinateBound
}

// AddObject validates the object's position against the grid bounds and
// appends it. It returns false, storing nothing, if any axis is out of
// bounds; callers must check the result.
func (l *Layout) AddObject(object Object) bool {
	pos := object.Position
	if !l.checkBound(pos.X) || !l.checkBound(pos.Y) || !l.checkBound(pos.Z) {
		l.log.Debug(context.Background(), "object placement rejected",
			logging.Int64("x", pos.X),
			logging.Int64("y", pos.Y),
			logging.Int64("z", pos.Z),
			logging.Int64("coordinate_bound", l.coordinateBound),
		)
		return false
	}
	l.objects = append(l.objects, object)
	return true
}

// Distance converts the grid-unit distance between two coordinates into
// a real length by scaling with UnitLength. Symmetric in its arguments.
func (l *Layout) Distance(position, comparison Coordinate) unit.Length {
	return l.UnitLength() * unit.Length(GridDistance(position, comparison))
}

// Observe computes, for every object in the layout, its real distance
// from origin and the visual angle it subtends there. Results preserve
// insertion order, one per stored object, with no filtering or
// deduplication. The layout is not mutated; calling Observe twice with
// the same origin yields equal results.
func (l *Layout) Observe(origin Coordinate) []ObservedObject {
	observed := make([]ObservedObject, 0, len(l.objects))
	for _, object := range l.objects {
		distance := l.Distance(origin, object.Position)
		observed = append(observed, ObservedObject{
			Shape:        object.Shape,
			VisualAngle:  object.Shape.VisualAngle(distance),
			Coordinates:  object.Position,
			ObservedFrom: origin,
		})
	}
	return observed
}

// ObservedObject is the per-object result of an Observe call: the shape
// seen, the angle it subtends, where it actually sits on the grid, and
// the viewpoint it was seen from. It is constructed fresh per call and
// owned by the caller.
type ObservedObject struct {
	Shape        Shape
	VisualAngle  unit.Angle
	Coordinates  Coordinate
	ObservedFrom Coordinate
}
